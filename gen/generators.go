package gen

import (
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Uniqueness counters. Shared process-wide across all instances of the
// corresponding built-in, so two contexts in one process never issue
// duplicate values for the same type.
var (
	intCounter  atomic.Int64
	timeCounter atomic.Int64
	dateCounter atomic.Int64
)

// Bool generates random booleans. Length and uniqueness constraints do
// not apply.
type Bool struct{}

// Generate returns true or false with equal probability.
func (Bool) Generate(int, bool) any {
	return rand.IntN(2) == 1
}

// Int generates int values: a process-wide counter for unique columns,
// otherwise a random value in [1, 1000).
type Int struct{}

// Generate returns a new int value.
func (Int) Generate(_ int, unique bool) any {
	if unique {
		return int(intCounter.Add(1))
	}
	return 1 + rand.IntN(999)
}

// Int64 generates int64 values with the same strategy as Int. The counter
// is shared with Int so mixed int/int64 unique columns stay disjoint.
type Int64 struct{}

// Generate returns a new int64 value.
func (Int64) Generate(_ int, unique bool) any {
	if unique {
		return intCounter.Add(1)
	}
	return 1 + rand.Int64N(999)
}

// Float64 generates float64 values in [1, 1000).
type Float64 struct{}

// Generate returns a new float64 value.
func (Float64) Generate(int, bool) any {
	return 1 + rand.Float64()*999
}

// UUID generates random UUIDs. Random UUIDs are structurally unique, so
// the unique flag is ignored.
type UUID struct{}

// Generate returns a new random UUID.
func (UUID) Generate(int, bool) any {
	return uuid.New()
}

// Time generates timestamps. Non-unique columns get the current time;
// unique columns get "now" minus an incrementing number of seconds, which
// yields monotonically distinct values without waiting.
type Time struct{}

// Generate returns a new timestamp.
func (Time) Generate(_ int, unique bool) any {
	if unique {
		return time.Now().Add(-time.Duration(timeCounter.Add(1)) * time.Second)
	}
	return time.Now()
}

// Date generates date-only values using the same backwards-offset pattern
// as Time, with day granularity.
type Date struct{}

// Generate returns a new date truncated to midnight UTC.
func (Date) Generate(_ int, unique bool) any {
	now := time.Now().UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if unique {
		return day.AddDate(0, 0, -int(dateCounter.Add(1)))
	}
	return day
}

// Email generates test email addresses of the form test-N@example.com,
// adapting the format to fit a declared maximum length.
type Email struct {
	counter atomic.Int64
}

// Generate returns a new email address.
func (e *Email) Generate(maxLen int, _ bool) any {
	n := e.counter.Add(1)
	email := fmt.Sprintf("test-%d@example.com", n)
	if maxLen > 0 && len(email) > maxLen {
		if maxLen >= 10 {
			email = fmt.Sprintf("t%d@ex.com", n)
		}
		if len(email) > maxLen {
			email = email[:maxLen]
		}
	}
	return email
}

// Phone generates fictional US phone numbers from the reserved 555-01xx
// range, adapting the format to fit a declared maximum length.
type Phone struct {
	counter atomic.Int64
}

// Generate returns a new phone number.
func (p *Phone) Generate(maxLen int, _ bool) any {
	n := p.counter.Add(1) + 100
	phone := fmt.Sprintf("+1-555-%04d", n%10000)
	if maxLen > 0 && len(phone) > maxLen {
		switch {
		case maxLen >= 10:
			phone = fmt.Sprintf("555-%04d", n%10000)
		case maxLen >= 7:
			phone = fmt.Sprintf("555%04d", n%10000)
		default:
			phone = fmt.Sprintf("%d", n)
		}
		if len(phone) > maxLen {
			phone = phone[:maxLen]
		}
	}
	return phone
}
