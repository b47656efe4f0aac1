package models

import "strings"

// SignupCommon holds the fields shared by both signup variants.
type SignupCommon struct {
	Username    string `json:"username" validate:"required,min=3,max=50,username_charset"`
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,min=8,max=128,password_strength"`
	FirstName   string `json:"firstName" validate:"required,min=1,max=50,person_name"`
	LastName    string `json:"lastName" validate:"required,min=1,max=50,person_name"`
	Department  string `json:"department" validate:"required,min=1,max=100"`
	Bio         string `json:"bio,omitempty" validate:"omitempty,max=500"`
	PhoneNumber string `json:"phoneNumber,omitempty" validate:"omitempty,e164"`
}

// Normalize trims and lowercases fields where appropriate so validation and
// provider lookups see a consistent shape. Running it twice is a no-op.
func (c *SignupCommon) Normalize() {
	c.Username = strings.ToLower(strings.TrimSpace(c.Username))
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Department = strings.TrimSpace(c.Department)
	c.Bio = strings.TrimSpace(c.Bio)
	c.PhoneNumber = strings.TrimSpace(c.PhoneNumber)
}

// SignupRequest is the role-tagged union of the two signup variants. The role
// tag is fixed at parse time and immutable afterwards.
type SignupRequest interface {
	Role() Role
	Common() *SignupCommon
}

// StudentSignupRequest extends the common fields with the student variant.
type StudentSignupRequest struct {
	SignupCommon
	StudentID      string              `json:"studentId" validate:"required,min=1,max=20,upper_alnum"`
	EnrollmentYear int                 `json:"enrollmentYear" validate:"required,min=2000,enrollment_year_max"`
	Major          string              `json:"major" validate:"required,min=1,max=100"`
	AcademicLevel  AcademicLevel       `json:"academicLevel" validate:"required,oneof=freshman sophomore junior senior masters phd"`
	GPA            *float64            `json:"gpa,omitempty" validate:"omitempty,min=0,max=4"`
	AdvisorID      string              `json:"advisorId,omitempty" validate:"omitempty,min=1,max=20,upper_alnum"`
	Preferences    *StudentPreferences `json:"preferences,omitempty"`
}

func (r *StudentSignupRequest) Role() Role            { return RoleStudent }
func (r *StudentSignupRequest) Common() *SignupCommon { return &r.SignupCommon }

// Normalize normalizes the common fields and the student identifiers.
func (r *StudentSignupRequest) Normalize() {
	r.SignupCommon.Normalize()
	r.StudentID = strings.ToUpper(strings.TrimSpace(r.StudentID))
	r.Major = strings.TrimSpace(r.Major)
	r.AdvisorID = strings.ToUpper(strings.TrimSpace(r.AdvisorID))
}

// OfficeHoursEntry is a single weekly office hours slot. Times are same-day
// clock times in HH:MM.
type OfficeHoursEntry struct {
	Day       Weekday `json:"day" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	StartTime string  `json:"startTime" validate:"required,datetime=15:04"`
	EndTime   string  `json:"endTime" validate:"required,datetime=15:04"`
}

// InstructorSignupRequest extends the common fields with the instructor variant.
type InstructorSignupRequest struct {
	SignupCommon
	InstructorID   string                 `json:"instructorId" validate:"required,min=1,max=20,upper_alnum"`
	Title          InstructorTitle        `json:"title" validate:"required,oneof=professor associate_professor assistant_professor lecturer adjunct"`
	HireDate       string                 `json:"hireDate" validate:"required,datetime=2006-01-02"`
	Qualifications []string               `json:"qualifications" validate:"required,min=1,max=10,dive,required,max=200"`
	ResearchAreas  []string               `json:"researchAreas,omitempty" validate:"omitempty,max=10,dive,required,max=100"`
	OfficeLocation string                 `json:"officeLocation,omitempty" validate:"omitempty,max=100"`
	OfficeHours    []OfficeHoursEntry     `json:"officeHours,omitempty" validate:"omitempty,dive"`
	MaxStudents    *int                   `json:"maxStudents,omitempty" validate:"omitempty,min=1,max=500"`
	Preferences    *InstructorPreferences `json:"preferences,omitempty"`
}

func (r *InstructorSignupRequest) Role() Role            { return RoleInstructor }
func (r *InstructorSignupRequest) Common() *SignupCommon { return &r.SignupCommon }

// Normalize normalizes the common fields and the instructor identifiers.
func (r *InstructorSignupRequest) Normalize() {
	r.SignupCommon.Normalize()
	r.InstructorID = strings.ToUpper(strings.TrimSpace(r.InstructorID))
	r.OfficeLocation = strings.TrimSpace(r.OfficeLocation)
	for i := range r.Qualifications {
		r.Qualifications[i] = strings.TrimSpace(r.Qualifications[i])
	}
	for i := range r.ResearchAreas {
		r.ResearchAreas[i] = strings.TrimSpace(r.ResearchAreas[i])
	}
}

// ProvisionedAccount is the workflow's output artifact. It is created once
// per successful identity-provider call and never mutated afterwards; the two
// booleans record auxiliary step outcomes only.
type ProvisionedAccount struct {
	AccountID      string
	Email          string
	Role           Role
	ProfileCreated bool
	GroupAssigned  bool
}
