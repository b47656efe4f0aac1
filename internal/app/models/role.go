package models

import "strings"

// Role discriminates the two signup variants. Every role-dependent branch in
// the workflow dispatches on this tag and nothing else.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
)

// Valid reports whether the role is one of the two supported variants.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleInstructor
}

// Title returns the capitalized role name for user-facing messages.
func (r Role) Title() string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}

// GroupName returns the identity-provider group the role maps to.
func (r Role) GroupName() string {
	switch r {
	case RoleStudent:
		return "students"
	case RoleInstructor:
		return "instructors"
	default:
		return ""
	}
}

// AcademicLevel is the closed set of student academic levels.
type AcademicLevel string

const (
	LevelFreshman  AcademicLevel = "freshman"
	LevelSophomore AcademicLevel = "sophomore"
	LevelJunior    AcademicLevel = "junior"
	LevelSenior    AcademicLevel = "senior"
	LevelMasters   AcademicLevel = "masters"
	LevelPhD       AcademicLevel = "phd"
)

// InstructorTitle is the closed set of instructor titles.
type InstructorTitle string

const (
	TitleProfessor          InstructorTitle = "professor"
	TitleAssociateProfessor InstructorTitle = "associate_professor"
	TitleAssistantProfessor InstructorTitle = "assistant_professor"
	TitleLecturer           InstructorTitle = "lecturer"
	TitleAdjunct            InstructorTitle = "adjunct"
)

// Weekday is the day enum used by office hours entries.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)
