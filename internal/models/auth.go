package models

// LoginRequest holds teacher credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	IP       string `json:"-"`
}

// LoginResult carries the issued session token alongside the response body.
type LoginResult struct {
	Token    string
	Response LoginResponse
}

// LoginResponse is the body returned by a successful login.
type LoginResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	User    *UserInfo `json:"user"`
}

// UserInfo describes the authenticated teacher in responses.
type UserInfo struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

// AuthStatus answers the session check endpoint.
type AuthStatus struct {
	Authenticated bool      `json:"authenticated"`
	User          *UserInfo `json:"user"`
}
