// Package models defines the data exchanged with the account and image
// services and the client-side state derived from it.
package models

// Session is the authenticated identity. UserName and Token are either both
// set or both empty.
type Session struct {
	UserName string `json:"userName"`
	Token    string `json:"token"`
}

// Valid reports whether s carries a complete identity.
func (s Session) Valid() bool {
	return s.UserName != "" && s.Token != ""
}

// Credentials is the body of the login and registration calls.
type Credentials struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}
