package tasksrepo

import "time"

// Task types. Every task carries exactly one type; the non-general types
// have a matching detail row.
const (
	TypeGeneral     = "GENERAL"
	TypeMedication  = "MEDICATION"
	TypeExercise    = "EXERCISE"
	TypeAppointment = "APPOINTMENT"
	TypeTreatment   = "TREATMENT"
)

// ValidTaskType reports whether t is a known task type.
func ValidTaskType(t string) bool {
	switch t {
	case TypeGeneral, TypeMedication, TypeExercise, TypeAppointment, TypeTreatment:
		return true
	}
	return false
}

// Task is the main entity type. A task may name a prerequisite that must be
// done before it, and a parent it contributes to as a subtask.
type Task struct {
	TaskID             string     `db:"task_id" json:"task_id"`
	TaskListID         string     `db:"task_list_id" json:"task_list_id"`
	Title              string     `db:"title" json:"title"`
	Description        *string    `db:"description" json:"description"`
	TaskType           string     `db:"task_type" json:"task_type"`
	Priority           int        `db:"priority" json:"priority"`
	IsDone             bool       `db:"is_done" json:"is_done"`
	IsArchived         bool       `db:"is_archived" json:"is_archived"`
	DueDate            *time.Time `db:"due_date" json:"due_date"`
	FinishDate         *time.Time `db:"finish_date" json:"finish_date"`
	PrerequisiteTaskID *string    `db:"prerequisite_task_id" json:"prerequisite_task_id"`
	ParentTaskID       *string    `db:"parent_task_id" json:"parent_task_id"`
	TaskCreator        string     `db:"task_creator" json:"task_creator"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// CreateTask contains fields for creating a new task. At most one detail
// block may be set and it must match the task type.
type CreateTask struct {
	TaskID             string                   `json:"-"`
	TaskListID         string                   `json:"-"`
	Title              string                   `json:"title"`
	Description        *string                  `json:"description"`
	TaskType           string                   `json:"task_type"`
	Priority           int                      `json:"priority"`
	DueDate            *time.Time               `json:"due_date"`
	PrerequisiteTaskID *string                  `json:"prerequisite_task_id"`
	ParentTaskID       *string                  `json:"parent_task_id"`
	TaskCreator        string                   `json:"-"`
	Tags               []string                 `json:"tags"`
	Appointment        *CreateAppointmentDetail `json:"appointment"`
	Medication         *CreateMedicationDetail  `json:"medication"`
	Treatment          *CreateTreatmentDetail   `json:"treatment"`
	Exercise           *CreateExerciseDetail    `json:"exercise"`
}

// UpdateTask contains fields for updating an existing task. Completion
// state is not updated here; that goes through the task service.
type UpdateTask struct {
	Title              *string    `json:"title"`
	Description        *string    `json:"description"`
	Priority           *int       `json:"priority"`
	DueDate            *time.Time `json:"due_date"`
	PrerequisiteTaskID *string    `json:"prerequisite_task_id"`
	ParentTaskID       *string    `json:"parent_task_id"`
}

// TaskFilter holds the available fields a query can be filtered on.
type TaskFilter struct {
	TaskListID      *string
	TaskType        *string
	IsDone          *bool
	IncludeArchived bool
	DueBefore       *time.Time
}

// AppointmentDetail carries the extra fields of an APPOINTMENT task.
type AppointmentDetail struct {
	AppointmentTaskID string    `db:"appointment_task_id" json:"appointment_task_id"`
	TaskID            string    `db:"task_id" json:"task_id"`
	DoctorID          *string   `db:"doctor_id" json:"doctor_id"`
	InstitutionID     *string   `db:"institution_id" json:"institution_id"`
	AppointmentTime   time.Time `db:"appointment_time" json:"appointment_time"`
	Location          *string   `db:"location" json:"location"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// CreateAppointmentDetail contains fields for the APPOINTMENT detail row.
type CreateAppointmentDetail struct {
	DoctorID        *string   `json:"doctor_id"`
	InstitutionID   *string   `json:"institution_id"`
	AppointmentTime time.Time `json:"appointment_time"`
	Location        *string   `json:"location"`
}

// MedicationDetail carries the extra fields of a MEDICATION task.
type MedicationDetail struct {
	MedicationTaskID string    `db:"medication_task_id" json:"medication_task_id"`
	TaskID           string    `db:"task_id" json:"task_id"`
	MedicationName   string    `db:"medication_name" json:"medication_name"`
	Dosage           string    `db:"dosage" json:"dosage"`
	Instructions     *string   `db:"instructions" json:"instructions"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// CreateMedicationDetail contains fields for the MEDICATION detail row and
// its dose schedule.
type CreateMedicationDetail struct {
	MedicationName string      `json:"medication_name"`
	Dosage         string      `json:"dosage"`
	Instructions   *string     `json:"instructions"`
	ScheduledAt    []time.Time `json:"scheduled_at"`
}

// Schedule is one planned dose of a medication task.
type Schedule struct {
	ScheduleID       string     `db:"schedule_id" json:"schedule_id"`
	MedicationTaskID string     `db:"medication_task_id" json:"medication_task_id"`
	ScheduledAt      time.Time  `db:"scheduled_at" json:"scheduled_at"`
	Taken            bool       `db:"taken" json:"taken"`
	NotifiedAt       *time.Time `db:"notified_at" json:"notified_at"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

// TreatmentDetail carries the extra fields of a TREATMENT task.
type TreatmentDetail struct {
	TreatmentTaskID string    `db:"treatment_task_id" json:"treatment_task_id"`
	TaskID          string    `db:"task_id" json:"task_id"`
	TreatmentType   string    `db:"treatment_type" json:"treatment_type"`
	Location        *string   `db:"location" json:"location"`
	Notes           *string   `db:"notes" json:"notes"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// CreateTreatmentDetail contains fields for the TREATMENT detail row.
type CreateTreatmentDetail struct {
	TreatmentType string  `json:"treatment_type"`
	Location      *string `json:"location"`
	Notes         *string `json:"notes"`
}

// ExerciseDetail carries the extra fields of an EXERCISE task.
type ExerciseDetail struct {
	ExerciseTaskID  string    `db:"exercise_task_id" json:"exercise_task_id"`
	TaskID          string    `db:"task_id" json:"task_id"`
	Activity        string    `db:"activity" json:"activity"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Intensity       *string   `db:"intensity" json:"intensity"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// CreateExerciseDetail contains fields for the EXERCISE detail row.
type CreateExerciseDetail struct {
	Activity        string  `json:"activity"`
	DurationMinutes int     `json:"duration_minutes"`
	Intensity       *string `json:"intensity"`
}

// Details bundles whichever detail row a task carries.
type Details struct {
	Appointment *AppointmentDetail `json:"appointment,omitempty"`
	Medication  *MedicationDetail  `json:"medication,omitempty"`
	Treatment   *TreatmentDetail   `json:"treatment,omitempty"`
	Exercise    *ExerciseDetail    `json:"exercise,omitempty"`
}

// Tag is a label attached to a task.
type Tag struct {
	TaskTagID string    `db:"task_tag_id" json:"task_tag_id"`
	TaskID    string    `db:"task_id" json:"task_id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
