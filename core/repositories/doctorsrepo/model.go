package doctorsrepo

import "time"

// Doctor is the main entity type.
type Doctor struct {
	DoctorID         string    `db:"doctor_id" json:"doctor_id"`
	UserID           string    `db:"user_id" json:"user_id"`
	SpecializationID *string   `db:"specialization_id" json:"specialization_id"`
	InstitutionID    *string   `db:"institution_id" json:"institution_id"`
	LicenseNumber    string    `db:"license_number" json:"license_number"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// CreateDoctor contains fields for creating a new doctor profile.
type CreateDoctor struct {
	DoctorID         string  `json:"-"`
	UserID           string  `json:"user_id"`
	SpecializationID *string `json:"specialization_id"`
	InstitutionID    *string `json:"institution_id"`
	LicenseNumber    string  `json:"license_number"`
}

// UpdateDoctor contains fields for updating an existing doctor profile.
type UpdateDoctor struct {
	SpecializationID *string `json:"specialization_id"`
	InstitutionID    *string `json:"institution_id"`
	LicenseNumber    *string `json:"license_number"`
}
