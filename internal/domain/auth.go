// Package domain holds the service-facing views of auth records. Nothing in
// here carries a password hash or salt.
package domain

type Auth struct {
	UserID string `json:"userId"`
}

// SignedAuth is the result of a successful sign-up or sign-in.
type SignedAuth struct {
	Auth  Auth
	Token string
}
