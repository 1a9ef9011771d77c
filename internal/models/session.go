package models

// Session binds a teacher to the opaque token presented in the cookie.
type Session struct {
	Username string
	Token    string
}
