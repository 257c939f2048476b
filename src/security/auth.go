package security

import (
	"crypto/subtle"
)

// AuthService checks HTTP Basic credentials against the single configured
// pair. There is no user store; credentials come from the environment.
type AuthService struct {
	user string
	pass string
}

func NewAuthService(user, pass string) *AuthService {
	return &AuthService{
		user: user,
		pass: pass,
	}
}

// CheckCredentials reports whether the supplied pair matches the configured
// one. Both comparisons run in constant time and both always execute, so
// timing does not reveal which field was wrong.
func (a *AuthService) CheckCredentials(user, pass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(a.user)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(a.pass)) == 1
	return userOK && passOK
}
