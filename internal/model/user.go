package model

// User is the identity behind a bearer token, as reported by /users/me.
type User struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// Credentials are the username/password pair exchanged for a token.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Token is the response of the OAuth2 password-flow token endpoint.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}
