package models

// LoginForm matches the JSON body required by POST /user/user/login
type LoginForm struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the envelope payload of a successful login.
type LoginResult struct {
	Token string `json:"token"`
	Role  int    `json:"role"`
}
