package institutionsrepo

import "time"

// Institution is the main entity type.
type Institution struct {
	InstitutionID   string    `db:"institution_id" json:"institution_id"`
	Name            string    `db:"name" json:"name"`
	InstitutionType string    `db:"institution_type" json:"institution_type"`
	Phone           *string   `db:"phone" json:"phone"`
	AddressID       *string   `db:"address_id" json:"address_id"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// CreateInstitution contains fields for creating a new institution.
type CreateInstitution struct {
	InstitutionID   string  `json:"-"`
	Name            string  `json:"name"`
	InstitutionType string  `json:"institution_type"`
	Phone           *string `json:"phone"`
	AddressID       *string `json:"address_id"`
}

// UpdateInstitution contains fields for updating an existing institution.
type UpdateInstitution struct {
	Name            *string `json:"name"`
	InstitutionType *string `json:"institution_type"`
	Phone           *string `json:"phone"`
	AddressID       *string `json:"address_id"`
}

// CancerType is reference data used during patient onboarding.
type CancerType struct {
	CancerTypeID string    `db:"cancer_type_id" json:"cancer_type_id"`
	Name         string    `db:"name" json:"name"`
	Description  *string   `db:"description" json:"description"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Specialization is reference data used during doctor onboarding.
type Specialization struct {
	SpecializationID string    `db:"specialization_id" json:"specialization_id"`
	Name             string    `db:"name" json:"name"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}
