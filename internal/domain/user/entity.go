package user

import "time"

type Role string

const (
	RoleAdmin      Role = "admin"      // May amortize settlements, apply batch fees and delete records
	RoleDispatcher Role = "dispatcher" // Day-to-day data entry and dry-run settlements
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin checks if user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func IsValidRole(r string) bool {
	return r == string(RoleAdmin) || r == string(RoleDispatcher)
}
