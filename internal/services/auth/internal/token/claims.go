package token

import "time"

// UserClaims is what the auth service puts into an access token.
type UserClaims struct {
	UID      string
	Username string
	Role     string
}

// Token is a signed access token together with its expiry.
type Token struct {
	Raw       string
	ExpiresAt time.Time
}
