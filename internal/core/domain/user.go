package domain

import "github.com/google/uuid"

// User is an identity row. Users are provisioned outside this service and are
// read-only here; Name is the only identifier clients ever send.
type User struct {
	ID       uuid.UUID
	Name     string
	Surname  string
	Email    string
	Role     string
	Password *string // nil means the account cannot authenticate
}
