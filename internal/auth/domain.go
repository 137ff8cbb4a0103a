package auth

// User represents an account allowed to sign in.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

// DefaultRole is assigned to users registered without an explicit role.
const DefaultRole = "staff"

// Credentials is the login payload.
type Credentials struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
}

// Registration describes a new account.
type Registration struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"max=50"`
}
