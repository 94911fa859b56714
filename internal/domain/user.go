package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role names known to the platform.
const (
	RoleAdmin    = "Administrador"
	RoleCustomer = "Cliente"
	RoleSeller   = "Vendedor"
)

// Role groups permissions under a name.
type Role struct {
	ID   uuid.UUID `json:"idRol" db:"id"`
	Name string    `json:"nombre" db:"name" validate:"required"`
}

// User is an account that can log in. The email doubles as the login name.
type User struct {
	ID           uuid.UUID `json:"idUsuario" db:"id" validate:"required"`
	Name         string    `json:"nombre" db:"name"`
	Email        string    `json:"correo" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Address      string    `json:"direccion,omitempty" db:"address"`
	Active       bool      `json:"estado" db:"active"`
	RoleID       uuid.UUID `json:"-" db:"role_id"`
	Role         *Role     `json:"rol,omitempty" db:"-"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// RoleName returns the user's role name or "" when no role is attached.
func (u *User) RoleName() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Name
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool {
	return u.RoleName() == RoleAdmin
}

// UserRef is the compact user reference embedded in orders.
type UserRef struct {
	ID    uuid.UUID `json:"idUsuario" validate:"required"`
	Name  string    `json:"nombre,omitempty"`
	Email string    `json:"correo,omitempty"`
}

// Ref builds the reference embedded in an order for this user.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}
