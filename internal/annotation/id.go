package annotation

import (
	"math/rand/v2"
	"strconv"

	"github.com/google/uuid"
)

// IDGenerator returns a fresh annotation id on every call.
type IDGenerator func() string

// idAlphabet leaves out characters that are easy to confuse when read
// aloud or in small fonts.
const idAlphabet = "ABCDEFGHJKMNPQRSTWXYZabcdefhijkmnprstwxyz2345678"

// DefaultIDLength is the length of ShortID ids used by default.
const DefaultIDLength = 6

// ShortID returns a generator of n character random ids.
func ShortID(n int) IDGenerator {
	if n <= 0 {
		n = DefaultIDLength
	}
	return func() string {
		b := make([]byte, n)
		for i := range b {
			b[i] = idAlphabet[rand.IntN(len(idAlphabet))]
		}
		return string(b)
	}
}

// UUID returns a generator of random RFC 4122 ids.
func UUID() IDGenerator {
	return uuid.NewString
}

// Sequence returns a deterministic generator producing prefix1, prefix2, ...
func Sequence(prefix string) IDGenerator {
	n := 0
	return func() string {
		n++
		return prefix + strconv.Itoa(n)
	}
}

// ParseIDStyle maps a configuration value to a generator.
func ParseIDStyle(style string) (IDGenerator, bool) {
	switch style {
	case "", "short":
		return ShortID(DefaultIDLength), true
	case "uuid":
		return UUID(), true
	}
	return nil, false
}
