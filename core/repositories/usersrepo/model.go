package usersrepo

import "time"

// User account types. A user has no type until onboarding completes.
const (
	TypePatient      = "PATIENT"
	TypeCaretaker    = "CARETAKER"
	TypeDoctor       = "DOCTOR"
	TypeMedicalStaff = "MEDICAL_STAFF"
	TypeAdmin        = "ADMIN"
)

// ValidUserType reports whether t is a known account type.
func ValidUserType(t string) bool {
	switch t {
	case TypePatient, TypeCaretaker, TypeDoctor, TypeMedicalStaff, TypeAdmin:
		return true
	}
	return false
}

// User is the main entity type.
type User struct {
	UserID       string     `db:"user_id" json:"user_id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FirstName    string     `db:"first_name" json:"first_name"`
	LastName     string     `db:"last_name" json:"last_name"`
	UserType     *string    `db:"user_type" json:"user_type"`
	Phone        *string    `db:"phone" json:"phone"`
	DateOfBirth  *time.Time `db:"date_of_birth" json:"date_of_birth"`
	AddressID    *string    `db:"address_id" json:"address_id"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// CreateUser contains fields for creating a new user.
type CreateUser struct {
	UserID       string     `json:"-"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Phone        *string    `json:"phone"`
	DateOfBirth  *time.Time `json:"date_of_birth"`
	AddressID    *string    `json:"address_id"`
}

// UpdateUser contains fields for updating an existing user. All fields are
// optional to support partial updates.
type UpdateUser struct {
	Email       *string    `json:"email"`
	FirstName   *string    `json:"first_name"`
	LastName    *string    `json:"last_name"`
	UserType    *string    `json:"user_type"`
	Phone       *string    `json:"phone"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	AddressID   *string    `json:"address_id"`
}

// UserFilter holds the available fields a query can be filtered on.
type UserFilter struct {
	Email    *string
	UserType *string
}
