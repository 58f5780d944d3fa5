package medicalstaffrepo

import "time"

// StaffMember is the main entity type.
type StaffMember struct {
	StaffID       string    `db:"staff_id" json:"staff_id"`
	UserID        string    `db:"user_id" json:"user_id"`
	InstitutionID *string   `db:"institution_id" json:"institution_id"`
	RoleTitle     *string   `db:"role_title" json:"role_title"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// CreateStaffMember contains fields for creating a new staff profile.
type CreateStaffMember struct {
	StaffID       string  `json:"-"`
	UserID        string  `json:"user_id"`
	InstitutionID *string `json:"institution_id"`
	RoleTitle     *string `json:"role_title"`
}

// UpdateStaffMember contains fields for updating an existing staff profile.
type UpdateStaffMember struct {
	InstitutionID *string `json:"institution_id"`
	RoleTitle     *string `json:"role_title"`
}
