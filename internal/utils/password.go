package utils

import (
	"golang.org/x/crypto/bcrypt" // Password hashing
)

// BcryptHasher hashes passwords with bcrypt.
type BcryptHasher struct {
	Cost int // bcrypt cost, bcrypt.DefaultCost when zero
}

// Hash returns the bcrypt hash of password
func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify compares provided password with stored hash
func (h BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
