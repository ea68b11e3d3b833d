package transform

import (
	"crypto/rand"
	"fmt"
)

const refDigits = 6

// randomDigits returns n cryptographically random decimal digits.
func randomDigits(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the platform RNG is broken; nothing
		// sensible to degrade to for an identifier.
		panic(fmt.Sprintf("transform: reading random bytes: %v", err))
	}
	out := make([]byte, n)
	for i, v := range b {
		out[i] = '0' + v%10
	}
	return string(out)
}

// NewClientRef generates a synthetic client reference code (CL + 6 digits).
// Generated at creation time only; the server owns the value afterwards.
func NewClientRef() string {
	return "CL" + randomDigits(refDigits)
}

// NewTaskRef generates a synthetic task reference code (TK + 6 digits).
func NewTaskRef() string {
	return "TK" + randomDigits(refDigits)
}
