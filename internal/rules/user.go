package rules

import (
	"minibank/internal/domain"
)

const maxLoginLen = 20
const maxEmailLen = 20

// User is the rule set for creating or updating a user.
func User(u *domain.User) Violations {
	var v Violations

	if u.Login == "" {
		v = violated(v, LoginEmpty, "login must not be empty")
	} else if len(u.Login) > maxLoginLen {
		v = violated(v, LoginTooLong, "login must be at most 20 characters")
	}

	if u.Email == "" {
		v = violated(v, EmailEmpty, "email must not be empty")
	} else if len(u.Email) > maxEmailLen {
		v = violated(v, EmailTooLong, "email must be at most 20 characters")
	}

	return v
}
