package utils

import "golang.org/x/crypto/bcrypt"

// VerifyPassword checks a login attempt against the stored bcrypt hash of
// the admin password. The hash comes from configuration; the bot never
// hashes passwords itself.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
