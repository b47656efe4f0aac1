package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/ekurt/campusgate/internal/app/models"
	"github.com/ekurt/campusgate/internal/pkg/profilestore"
)

// Identity-provider attribute names. Nested structures are flattened into
// single JSON-encoded string attributes at this boundary; this encoding is
// wire-compatible with the provider and must not change shape.
const (
	attrEmail          = "email"
	attrGivenName      = "given_name"
	attrFamilyName     = "family_name"
	attrPhoneNumber    = "phone_number"
	attrRole           = "custom:role"
	attrDepartment     = "custom:department"
	attrBio            = "custom:bio"
	attrPreferences    = "custom:preferences"
	attrStudentID      = "custom:student_id"
	attrEnrollmentYear = "custom:enrollment_year"
	attrMajor          = "custom:major"
	attrAcademicLevel  = "custom:academic_level"
	attrGPA            = "custom:gpa"
	attrAdvisorID      = "custom:advisor_id"
	attrInstructorID   = "custom:instructor_id"
	attrTitle          = "custom:title"
	attrHireDate       = "custom:hire_date"
	attrQualifications = "custom:qualifications"
	attrResearchAreas  = "custom:research_areas"
	attrOfficeLocation = "custom:office_location"
	attrOfficeHours    = "custom:office_hours"
	attrMaxStudents    = "custom:max_students"
)

// buildIdentityAttributes maps a validated request onto the provider's flat
// attribute set. Optional attributes are present only when supplied; the
// preferences attribute always carries the merged role-specific object.
func buildIdentityAttributes(req models.SignupRequest) (map[string]string, error) {
	common := req.Common()
	attrs := map[string]string{
		attrEmail:      common.Email,
		attrGivenName:  common.FirstName,
		attrFamilyName: common.LastName,
		attrRole:       string(req.Role()),
		attrDepartment: common.Department,
	}
	if common.Bio != "" {
		attrs[attrBio] = common.Bio
	}
	if common.PhoneNumber != "" {
		attrs[attrPhoneNumber] = common.PhoneNumber
	}

	switch r := req.(type) {
	case *models.StudentSignupRequest:
		attrs[attrStudentID] = r.StudentID
		attrs[attrEnrollmentYear] = strconv.Itoa(r.EnrollmentYear)
		attrs[attrMajor] = r.Major
		attrs[attrAcademicLevel] = string(r.AcademicLevel)
		if r.GPA != nil {
			attrs[attrGPA] = strconv.FormatFloat(*r.GPA, 'f', 2, 64)
		}
		if r.AdvisorID != "" {
			attrs[attrAdvisorID] = r.AdvisorID
		}
		if err := putJSON(attrs, attrPreferences, models.MergeStudentPreferences(r.Preferences)); err != nil {
			return nil, err
		}

	case *models.InstructorSignupRequest:
		attrs[attrInstructorID] = r.InstructorID
		attrs[attrTitle] = string(r.Title)
		attrs[attrHireDate] = r.HireDate
		if err := putJSON(attrs, attrQualifications, r.Qualifications); err != nil {
			return nil, err
		}
		if len(r.ResearchAreas) > 0 {
			if err := putJSON(attrs, attrResearchAreas, r.ResearchAreas); err != nil {
				return nil, err
			}
		}
		if r.OfficeLocation != "" {
			attrs[attrOfficeLocation] = r.OfficeLocation
		}
		if len(r.OfficeHours) > 0 {
			if err := putJSON(attrs, attrOfficeHours, r.OfficeHours); err != nil {
				return nil, err
			}
		}
		if r.MaxStudents != nil {
			attrs[attrMaxStudents] = strconv.Itoa(*r.MaxStudents)
		}
		if err := putJSON(attrs, attrPreferences, models.MergeInstructorPreferences(r.Preferences)); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unsupported signup variant %T", req)
	}

	return attrs, nil
}

func putJSON(attrs map[string]string, name string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding attribute %s: %w", name, err)
	}
	attrs[name] = string(encoded)
	return nil
}

// buildProfileRecord shapes the extended profile document for the store. The
// record keeps preferences structured; serialization is the store's concern.
func buildProfileRecord(req models.SignupRequest, accountID string, now time.Time) *profilestore.Record {
	common := req.Common()
	rec := &profilestore.Record{
		AccountID:   accountID,
		Role:        string(req.Role()),
		Username:    common.Username,
		Email:       common.Email,
		FirstName:   common.FirstName,
		LastName:    common.LastName,
		Department:  common.Department,
		Bio:         common.Bio,
		PhoneNumber: common.PhoneNumber,
		Status:      profilestore.StatusPending,
		Enabled:     false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	switch r := req.(type) {
	case *models.StudentSignupRequest:
		rec.StudentID = r.StudentID
		rec.EnrollmentYear = r.EnrollmentYear
		rec.Major = r.Major
		rec.AcademicLevel = string(r.AcademicLevel)
		rec.GPA = r.GPA
		rec.AdvisorID = r.AdvisorID
		rec.Preferences = models.MergeStudentPreferences(r.Preferences)

	case *models.InstructorSignupRequest:
		rec.InstructorID = r.InstructorID
		rec.Title = string(r.Title)
		rec.HireDate = r.HireDate
		rec.Qualifications = r.Qualifications
		rec.ResearchAreas = r.ResearchAreas
		rec.OfficeLocation = r.OfficeLocation
		rec.OfficeHours = r.OfficeHours
		rec.MaxStudents = r.MaxStudents
		rec.Preferences = models.MergeInstructorPreferences(r.Preferences)
	}

	return rec
}
