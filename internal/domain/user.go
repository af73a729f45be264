package domain

// User identifies an actor in the system. Identity is supplied by the caller
// (request headers or the configured demo user); email and the verified flag
// may be attached after the fact. User values are copied into records at
// creation time, not referenced, so verifying an email later does not rewrite
// history outside the explicit draft replay path.
// swagger:model User
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	IsVerified bool   `json:"is_verified,omitempty"`
}
