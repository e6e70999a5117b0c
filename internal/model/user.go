package model

import "time"

// Roles assignable to a user account.  Listings require a seller, the
// admin role unlocks the user directory on the marketplace API.
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// User represents an account in the `users` table shared by both HTTP
// surfaces.  Email is unique.  PasswordHash stores a bcrypt digest; the
// plain password is never persisted.
//
// Fields:
//
//	ID           - primary key identifier.
//	FirstName    - given name.
//	LastName     - family name.
//	Email        - unique email address.
//	PhoneNumber  - contact phone copied into listings as fallback contact.
//	PasswordHash - bcrypt hashed password.
//	Role         - buyer, seller or admin.
//	CreatedAt    - timestamp of creation.
type User struct {
	ID           uint64    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phoneNumber"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}
