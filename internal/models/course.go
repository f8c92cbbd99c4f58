package models

// CreditHours enumerates the course loads the Preparation Engine understands.
// Any other value is silently skipped during event generation (§4.1).
const (
	CreditHoursTutorialLecture = 4
	CreditHoursLectureOnly     = 3
	CreditHoursLab             = 2
)

// Course is a subject taught by one or more qualified teachers.
type Course struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	CreditHours int     `db:"credit_hours" json:"credit_hours"`
	TeacherIDs  []int64 `db:"-" json:"teacher_ids,omitempty"`
}
