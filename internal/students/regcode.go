package students

import (
	"crypto/rand"
	"math/big"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
)

// GenerateRegCode draws a fixed-length one-time registration code uniformly
// from uppercase letters and digits. Collisions across students are not
// checked: activation matches email AND code, so a duplicate code on another
// account is unusable anyway.
func GenerateRegCode() (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	buf := make([]byte, codeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
