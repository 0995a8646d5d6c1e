package auth

import "golang.org/x/crypto/bcrypt"

// Portal passwords are stored as bcrypt hashes only; the plain text
// never reaches the users table or the logs.

// HashPassword hashes a plain text password at the default bcrypt cost
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword checks a login attempt against the stored hash.
// A non-nil error means the credentials do not match.
func ComparePassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
