package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of actor kinds known to the system.
type Role string

const (
	RoleCitizen Role = "Citizen"
	RoleOfficer Role = "Officer"
	RoleAdmin   Role = "Admin"
)

// Roles lists every role in a stable order.
var Roles = []Role{RoleCitizen, RoleOfficer, RoleAdmin}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleOfficer, RoleAdmin:
		return true
	}
	return false
}

// ErrOfficerDepartment is returned by User.Validate when a non-officer carries a department.
var ErrOfficerDepartment = errors.New("only officers may reference a department")

// User is a registered account. Officers belong to exactly one department,
// fixed when the account is created.
type User struct {
	ID           string  `gorm:"primaryKey;type:uuid" json:"id"`
	Name         string  `gorm:"type:text;not null" json:"name"`
	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string  `gorm:"not null" json:"-"`
	Role         Role    `gorm:"type:text;not null;index" json:"role"`
	DepartmentID *string `gorm:"type:uuid;index" json:"departmentId,omitempty"`
	Phone        string  `json:"phone,omitempty"`
	Language     string  `gorm:"type:text;default:'en'" json:"language"`

	// TelegramChatID links the account to the Telegram relay.
	TelegramChatID *int64 `gorm:"uniqueIndex" json:"-"`

	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate generates the UUID when the ID is not set yet.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return u.Validate()
}

// Validate checks the role invariants of the account.
func (u *User) Validate() error {
	if !u.Role.Valid() {
		return errors.New("unknown role " + string(u.Role))
	}
	if u.Role != RoleOfficer && u.DepartmentID != nil {
		return ErrOfficerDepartment
	}
	return nil
}

// Actor is the authenticated principal performing an operation.
type Actor struct {
	ID           string
	Role         Role
	DepartmentID *string
}

// ActorFor builds the Actor view of a stored user.
func ActorFor(u *User) Actor {
	return Actor{ID: u.ID, Role: u.Role, DepartmentID: u.DepartmentID}
}

// HasDepartment reports whether the actor carries a department reference.
func (a Actor) HasDepartment() bool {
	return a.DepartmentID != nil && *a.DepartmentID != ""
}
