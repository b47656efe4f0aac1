// Package profilestore abstracts the external document store holding the
// extended, role-shaped account record beyond what the identity provider
// tracks.
package profilestore

import (
	"context"
	"time"

	"github.com/ekurt/campusgate/internal/app/models"
)

// Profile status bookkeeping values written at creation time.
const (
	StatusPending = "pending"
)

// Record is the role-shaped profile document keyed by the identity provider's
// issued account id. Role-specific fields are empty for the other variant.
type Record struct {
	AccountID   string `json:"userId" dynamodbav:"userId"`
	Role        string `json:"role" dynamodbav:"role"`
	Username    string `json:"username" dynamodbav:"username"`
	Email       string `json:"email" dynamodbav:"email"`
	FirstName   string `json:"firstName" dynamodbav:"firstName"`
	LastName    string `json:"lastName" dynamodbav:"lastName"`
	Department  string `json:"department" dynamodbav:"department"`
	Bio         string `json:"bio,omitempty" dynamodbav:"bio,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty" dynamodbav:"phoneNumber,omitempty"`

	// Student fields
	StudentID      string   `json:"studentId,omitempty" dynamodbav:"studentId,omitempty"`
	EnrollmentYear int      `json:"enrollmentYear,omitempty" dynamodbav:"enrollmentYear,omitempty"`
	Major          string   `json:"major,omitempty" dynamodbav:"major,omitempty"`
	AcademicLevel  string   `json:"academicLevel,omitempty" dynamodbav:"academicLevel,omitempty"`
	GPA            *float64 `json:"gpa,omitempty" dynamodbav:"gpa,omitempty"`
	AdvisorID      string   `json:"advisorId,omitempty" dynamodbav:"advisorId,omitempty"`

	// Instructor fields
	InstructorID   string                    `json:"instructorId,omitempty" dynamodbav:"instructorId,omitempty"`
	Title          string                    `json:"title,omitempty" dynamodbav:"title,omitempty"`
	HireDate       string                    `json:"hireDate,omitempty" dynamodbav:"hireDate,omitempty"`
	Qualifications []string                  `json:"qualifications,omitempty" dynamodbav:"qualifications,omitempty"`
	ResearchAreas  []string                  `json:"researchAreas,omitempty" dynamodbav:"researchAreas,omitempty"`
	OfficeLocation string                    `json:"officeLocation,omitempty" dynamodbav:"officeLocation,omitempty"`
	OfficeHours    []models.OfficeHoursEntry `json:"officeHours,omitempty" dynamodbav:"officeHours,omitempty"`
	MaxStudents    *int                      `json:"maxStudents,omitempty" dynamodbav:"maxStudents,omitempty"`

	// Preferences holds the merged role-specific preference object.
	Preferences any `json:"preferences" dynamodbav:"preferences"`

	Status    string    `json:"status" dynamodbav:"status"`
	Enabled   bool      `json:"enabled" dynamodbav:"enabled"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" dynamodbav:"updatedAt"`
}

// Store is the contract the workflow expects from the profile store: a
// single synchronous put keyed by account id, with no transactional coupling
// to the identity provider.
type Store interface {
	PutProfile(ctx context.Context, rec *Record) error
}
