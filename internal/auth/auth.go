package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/coachlab/golfmetrics/internal/config"
	"github.com/coachlab/golfmetrics/internal/roster"
)

const (
	RoleCoach   = "coach"
	RoleStudent = "student"
)

// Verify checks a username/password pair against the configured
// credential list and returns the user's role. Password hashes are
// bcrypt. A failed match and an unknown user are indistinguishable to
// the caller.
func Verify(users []config.UserCred, username, password string) (string, bool) {
	for _, u := range users {
		if u.Username != username {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) == nil {
			return u.Role, true
		}
		return "", false
	}
	return "", false
}

// HashPassword produces a bcrypt hash suitable for the credential list.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("hash password: empty password")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// RoleOf returns the configured role for a username.
func RoleOf(users []config.UserCred, username string) (string, bool) {
	for _, u := range users {
		if u.Username == username {
			return u.Role, true
		}
	}
	return "", false
}

// CanViewAlias reports whether a user may see a player's data. Coaches
// see everyone; students see only the alias their username normalizes
// to.
func CanViewAlias(role, username, alias string) bool {
	if role == RoleCoach {
		return true
	}
	if role != RoleStudent {
		return false
	}
	return roster.NormalizeKey(username) == roster.NormalizeKey(alias) &&
		!strings.EqualFold(alias, roster.UnknownAlias)
}
