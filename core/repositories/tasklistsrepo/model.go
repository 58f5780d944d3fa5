package tasklistsrepo

import "time"

// Membership permission levels. MANAGER can create and archive tasks and
// manage members; MEMBER can view and complete.
const (
	PermissionManager = "MANAGER"
	PermissionMember  = "MEMBER"
)

// ValidPermission reports whether p is a known permission level.
func ValidPermission(p string) bool {
	return p == PermissionManager || p == PermissionMember
}

// TaskList is a named collection of tasks belonging to one patient. The
// completed and uncompleted counts are maintained alongside task writes.
type TaskList struct {
	TaskListID       string    `db:"task_list_id" json:"task_list_id"`
	PatientID        string    `db:"patient_id" json:"patient_id"`
	Name             string    `db:"name" json:"name"`
	Description      *string   `db:"description" json:"description"`
	CompletedCount   int       `db:"completed_count" json:"completed_count"`
	UncompletedCount int       `db:"uncompleted_count" json:"uncompleted_count"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// CreateTaskList contains fields for creating a new task list.
type CreateTaskList struct {
	TaskListID  string  `json:"-"`
	PatientID   string  `json:"patient_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// UpdateTaskList contains fields for updating an existing task list.
type UpdateTaskList struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Membership grants a user access to a task list for a validity window.
// A nil EndDate means the grant is open ended.
type Membership struct {
	MembershipID string     `db:"membership_id" json:"membership_id"`
	TaskListID   string     `db:"task_list_id" json:"task_list_id"`
	UserID       string     `db:"user_id" json:"user_id"`
	Permission   string     `db:"permission" json:"permission"`
	StartDate    time.Time  `db:"start_date" json:"start_date"`
	EndDate      *time.Time `db:"end_date" json:"end_date"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// ActiveAt reports whether the membership grants access at time t.
func (m Membership) ActiveAt(t time.Time) bool {
	if t.Before(m.StartDate) {
		return false
	}
	if m.EndDate != nil && !t.Before(*m.EndDate) {
		return false
	}
	return true
}

// CreateMembership contains fields for granting list access to a user.
type CreateMembership struct {
	MembershipID string     `json:"-"`
	TaskListID   string     `json:"-"`
	UserID       string     `json:"user_id"`
	Permission   string     `json:"permission"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
}

// UpdateMembership contains fields for changing an existing grant.
type UpdateMembership struct {
	Permission *string    `json:"permission"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
}
