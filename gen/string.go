package gen

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/syssam/fabrica/schema"
)

// stringCounter backs uniqueness for all adaptive string generation,
// shared process-wide.
var stringCounter atomic.Int64

// String is the adaptive string generator. It derives a human-readable
// prefix from the column name and picks a format by max-length bucket, so
// generated values stay recognizable in test failures while never
// exceeding the declared column width:
//
//	TEXT / VARCHAR(>100): "email_1", "title_4821"
//	VARCHAR(21..100):     "email_1_ab12", "title_9f3c2d71"
//	VARCHAR(11..20):      "email_1", "title_42"
//	VARCHAR(6..10):       "e1", "t842"
//	VARCHAR(1..5):        "b2", "c37"
//
// Uniqueness is obtained from a shared counter rather than collision
// retry. The final value is always truncated to the declared width.
type String struct{}

// Generate produces a value with the generic "value" prefix. The factory
// normally goes through GenerateColumn instead.
func (s String) Generate(maxLen int, unique bool) any {
	return s.generate(maxLen, unique, "value")
}

// GenerateColumn produces a value prefixed with the lower-cased column name.
func (s String) GenerateColumn(col *schema.Column, unique bool) any {
	return s.generate(col.Size, unique, strings.ToLower(col.Name))
}

// prefixChars is the rotating alphabet for very short columns. The
// letters l, o and u are excluded to avoid confusion with digits.
var prefixChars = []byte("abcdefghijkmnpqrstvwxyz")

func (String) generate(maxLen int, unique bool, prefix string) string {
	var counter int64
	if unique {
		counter = stringCounter.Add(1)
	}

	// Unbounded length (TEXT, CLOB, or no declared width).
	if maxLen <= 0 || maxLen > 100 {
		if unique {
			return prefix + "_" + strconv.FormatInt(counter, 10)
		}
		return prefix + "_" + strconv.Itoa(1+rand.IntN(9999))
	}

	var result string
	switch {
	// Very short columns: rotating single letter + number.
	case maxLen <= 5:
		if unique {
			c := prefixChars[counter%int64(len(prefixChars))]
			result = string(c) + strconv.FormatInt(counter, 10)
		} else {
			n := 1 + rand.IntN(99)
			c := prefixChars[n%len(prefixChars)]
			result = string(c) + strconv.Itoa(n)
		}
	// Short columns: first character of the prefix + number.
	case maxLen <= 10:
		first := "v"
		if prefix != "" {
			first = prefix[:1]
		}
		if unique {
			result = first + strconv.FormatInt(counter, 10)
		} else {
			result = first + strconv.Itoa(1+rand.IntN(9999))
		}
	// Medium columns: full prefix + number.
	case maxLen <= 20:
		if unique {
			result = prefix + "_" + strconv.FormatInt(counter, 10)
		} else {
			result = prefix + "_" + strconv.Itoa(1+rand.IntN(999))
		}
	// Longer columns: prefix + counter + hex noise.
	default:
		if unique {
			result = prefix + "_" + strconv.FormatInt(counter, 10) + "_" + hexChars(4)
		} else {
			result = prefix + "_" + hexChars(8)
		}
	}
	// Truncation is the safety net that keeps the width contract even
	// when the formatted counter itself overflows a pathological width.
	if len(result) > maxLen {
		result = result[:maxLen]
	}
	return result
}

// hexChars returns the first n hex characters of a fresh random UUID.
func hexChars(n int) string {
	return uuid.NewString()[:n]
}
