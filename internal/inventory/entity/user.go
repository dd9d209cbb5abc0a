package entity

import "time"

// Role is the access level of a user. The set is closed; anything else
// is rejected at the API boundary.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is an identity record. Created once at registration and never
// updated in place; removal is the only mutation.
type User struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	EmployeeNumber string    `json:"employee_number" gorm:"size:32;not null;uniqueIndex"`
	PasswordHash   string    `json:"-" gorm:"size:128;not null"`
	Role           Role      `json:"role" gorm:"size:16;not null;default:'user'"`
	FullName       string    `json:"full_name" gorm:"size:128;not null"`
	Email          string    `json:"email" gorm:"size:128;not null"`
	Section        string    `json:"section" gorm:"size:128"`
	CreatedAt      time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Summary is the public projection of a user returned by login and
// profile endpoints. It never carries the password hash.
type Summary struct {
	ID             string `json:"id"`
	EmployeeNumber string `json:"employee_number"`
	FullName       string `json:"full_name"`
	Role           Role   `json:"role"`
	Email          string `json:"email,omitempty"`
	Section        string `json:"section"`
}

// Summary builds the public projection of u.
func (u *User) Summary() Summary {
	return Summary{
		ID:             u.ID,
		EmployeeNumber: u.EmployeeNumber,
		FullName:       u.FullName,
		Role:           u.Role,
		Email:          u.Email,
		Section:        u.Section,
	}
}
