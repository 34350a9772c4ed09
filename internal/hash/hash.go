package hash

import "golang.org/x/crypto/bcrypt"

const cost = 10

// HashPassword returns the bcrypt hash of password. A hashing error is a
// configuration problem and must surface to the caller, never be treated
// as "no match".
func HashPassword(password string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
