package vitalsrepo

import "time"

// Vital is a tracked measurement series for a patient, such as blood
// pressure or weight.
type Vital struct {
	VitalsID  string    `db:"vitals_id" json:"vitals_id"`
	PatientID string    `db:"patient_id" json:"patient_id"`
	Name      string    `db:"name" json:"name"`
	Unit      string    `db:"unit" json:"unit"`
	MinValue  *float64  `db:"min_value" json:"min_value"`
	MaxValue  *float64  `db:"max_value" json:"max_value"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CreateVital contains fields for creating a new vital series.
type CreateVital struct {
	VitalsID  string   `json:"-"`
	PatientID string   `json:"patient_id"`
	Name      string   `json:"name"`
	Unit      string   `json:"unit"`
	MinValue  *float64 `json:"min_value"`
	MaxValue  *float64 `json:"max_value"`
}

// UpdateVital contains fields for updating an existing vital series.
type UpdateVital struct {
	Name     *string  `json:"name"`
	Unit     *string  `json:"unit"`
	MinValue *float64 `json:"min_value"`
	MaxValue *float64 `json:"max_value"`
}

// Reading is a single recorded measurement in a vital series.
type Reading struct {
	ReadingID  string    `db:"reading_id" json:"reading_id"`
	VitalsID   string    `db:"vitals_id" json:"vitals_id"`
	Value      float64   `db:"value" json:"value"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
	Note       *string   `db:"note" json:"note"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// CreateReading contains fields for recording a measurement.
type CreateReading struct {
	ReadingID  string     `json:"-"`
	VitalsID   string     `json:"-"`
	Value      float64    `json:"value"`
	RecordedAt *time.Time `json:"recorded_at"`
	Note       *string    `json:"note"`
}
