package decoder

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// maxDigits bounds one unit so the millisecond sum cannot overflow int64.
const maxDigits = 12

// maxMillis is the longest length a time.Duration can hold.
const maxMillis = math.MaxInt64 / int64(time.Millisecond)

// ParseDuration converts a PSF time tag ("ss", "ss.fff", "mm:ss", "mm:ss.fff")
// to a duration. The string is scanned right to left: the digits after a '.'
// are a decimal fraction of a second, the unit left of a ':' is minutes.
// ok is false for any other character.
func ParseDuration(s string) (d time.Duration, ok bool) {
	s = strings.TrimSpace(s)

	var total int64 // milliseconds
	finalMult := int64(1000)
	localMult := int64(1)
	acc := int64(0)
	digits := 0

	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]
		if c >= '0' && c <= '9' {
			if digits == maxDigits {
				return 0, false
			}
			acc += int64(c-'0') * localMult
			localMult *= 10
			digits++
			continue
		}

		switch c {
		case '.':
			total += fractionMillis(acc, digits)
		case ':':
			total += acc * 1000
			finalMult = 60000
		default:
			return 0, false
		}
		if total > maxMillis {
			return 0, false
		}
		acc, localMult, digits = 0, 1, 0
	}
	total += acc * finalMult
	if total > maxMillis {
		return 0, false
	}

	return time.Duration(total) * time.Millisecond, true
}

// fractionMillis scales the digits right of a '.' to milliseconds.
func fractionMillis(acc int64, digits int) int64 {
	for ; digits < 3; digits++ {
		acc *= 10
	}
	for ; digits > 3; digits-- {
		acc /= 10
	}
	return acc
}

// FormatDuration renders d the way length tags are written ("m:ss.fff"),
// dropping a zero fraction.
func FormatDuration(d time.Duration) string {
	ms := max(d.Milliseconds(), 0)
	text := fmt.Sprintf("%d:%02d.%03d", ms/60000, ms/1000%60, ms%1000)
	return strings.TrimSuffix(strings.TrimRight(text, "0"), ".")
}
