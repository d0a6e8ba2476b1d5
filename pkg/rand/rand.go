package rand

import (
	"crypto/rand"

	"github.com/sirupsen/logrus"
)

const tokenChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Token returns n characters drawn from crypto/rand, suitable for API
// tokens. Bytes outside the charset range are discarded rather than
// reduced modulo so the distribution stays uniform.
func Token(n int) string {
	// one bit more than needed to cover len(tokenChars)
	const mask = 1<<6 - 1

	out := make([]byte, 0, n)
	for len(out) < n {
		buf := make([]byte, n)
		if _, err := rand.Read(buf); err != nil {
			logrus.Fatalf("unable to read random bytes: %v", err)
		}
		for _, b := range buf {
			if idx := int(b & mask); idx < len(tokenChars) {
				out = append(out, tokenChars[idx])
				if len(out) == n {
					break
				}
			}
		}
	}
	return string(out)
}
