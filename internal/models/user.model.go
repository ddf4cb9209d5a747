package models

import "time"

type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleManager     Role = "MANAGER"
	RoleFrontDesk   Role = "FRONT_DESK"
	RoleHousekeeper Role = "HOUSEKEEPER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleFrontDesk, RoleHousekeeper:
		return true
	}
	return false
}

// CanSupervise reports whether the role may assign, inspect, and cancel
// tasks. Supervisors also act on tasks they are not assigned to.
func (r Role) CanSupervise() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleFrontDesk
}

type User struct {
	BaseUUIDModel
	FirstName    string     `gorm:"type:text"               json:"firstName"`
	LastName     string     `gorm:"type:text"               json:"lastName"`
	Email        string     `gorm:"type:text;uniqueIndex"   json:"email"`
	PasswordHash string     `gorm:"type:text"               json:"-"`
	Role         Role       `gorm:"type:text;index"         json:"role"`
	IsActive     bool       `gorm:"type:bool;default:true"  json:"isActive"`
	LastLoginAt  *time.Time `gorm:"type:timestamp"          json:"lastLoginAt,omitempty"`
}

// UserProfile is the public projection returned by the API.
type UserProfile struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	IsActive  bool   `json:"isActive"`
}

func (u *User) ToProfile() UserProfile {
	return UserProfile{
		ID:        u.ID.String(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
	}
}
