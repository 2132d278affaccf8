package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword produces a salted bcrypt hash; the salt is embedded in the
// returned string so no separate salt column is needed.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
