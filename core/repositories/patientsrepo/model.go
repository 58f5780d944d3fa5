package patientsrepo

import "time"

// Patient is the main entity type.
type Patient struct {
	PatientID        string     `db:"patient_id" json:"patient_id"`
	UserID           string     `db:"user_id" json:"user_id"`
	CancerTypeID     *string    `db:"cancer_type_id" json:"cancer_type_id"`
	DiagnosisDate    *time.Time `db:"diagnosis_date" json:"diagnosis_date"`
	BloodGroup       *string    `db:"blood_group" json:"blood_group"`
	EmergencyContact *string    `db:"emergency_contact" json:"emergency_contact"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// CreatePatient contains fields for creating a new patient profile.
type CreatePatient struct {
	PatientID        string     `json:"-"`
	UserID           string     `json:"user_id"`
	CancerTypeID     *string    `json:"cancer_type_id"`
	DiagnosisDate    *time.Time `json:"diagnosis_date"`
	BloodGroup       *string    `json:"blood_group"`
	EmergencyContact *string    `json:"emergency_contact"`
}

// UpdatePatient contains fields for updating an existing patient profile.
type UpdatePatient struct {
	CancerTypeID     *string    `json:"cancer_type_id"`
	DiagnosisDate    *time.Time `json:"diagnosis_date"`
	BloodGroup       *string    `json:"blood_group"`
	EmergencyContact *string    `json:"emergency_contact"`
}
