package models

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// UserClaims represents the JWT claims accepted by the API.
// The subject claim carries the numeric user id that scopes every tool call.
type UserClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *UserClaims) GetUserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("subject %q is not a positive integer user id", c.Subject)
	}
	return id, nil
}
