// Package validation implements the structural schema check for signup
// payloads: raw JSON in, a normalized role-tagged request or the full list of
// field-level violations out.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ekurt/campusgate/internal/app/models"
)

// FieldError is a single violated constraint, addressed by the dotted JSON
// path of the offending field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SchemaValidator validates inbound signup payloads against the role-tagged
// schemas. It is safe for concurrent use.
type SchemaValidator struct {
	validate *validator.Validate
}

// NewSchemaValidator builds a validator with the signup rule set registered.
func NewSchemaValidator() *SchemaValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their json names so error paths match the wire shape.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomRules(v)

	return &SchemaValidator{validate: v}
}

// Parse decodes and validates a raw payload. It returns either a normalized,
// role-tagged request or a non-empty ordered list of field errors. Validation
// is exhaustive: all violations are collected before returning. No network
// calls happen here.
func (s *SchemaValidator) Parse(payload []byte) (models.SignupRequest, []FieldError) {
	var probe struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil, []FieldError{decodeError(err)}
	}

	role := models.Role(strings.ToLower(strings.TrimSpace(probe.Role)))
	if !role.Valid() {
		return nil, []FieldError{{Field: "role", Message: "role must be either 'student' or 'instructor'"}}
	}

	var req models.SignupRequest
	var decodeErr error
	switch role {
	case models.RoleStudent:
		r := &models.StudentSignupRequest{}
		decodeErr = json.Unmarshal(payload, r)
		r.Normalize()
		req = r
	case models.RoleInstructor:
		r := &models.InstructorSignupRequest{}
		decodeErr = json.Unmarshal(payload, r)
		r.Normalize()
		req = r
	}
	if decodeErr != nil {
		return nil, []FieldError{decodeError(decodeErr)}
	}

	if errs := s.Validate(req); len(errs) > 0 {
		return nil, errs
	}
	return req, nil
}

// Validate checks an already-decoded request against its role schema. Running
// it on a request Parse has accepted yields zero errors.
func (s *SchemaValidator) Validate(req models.SignupRequest) []FieldError {
	var errs []FieldError

	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return []FieldError{{Field: "body", Message: err.Error()}}
		}
		for _, fe := range verrs {
			errs = append(errs, FieldError{Field: fieldPath(fe), Message: messageFor(fe)})
		}
	}

	if instructor, ok := req.(*models.InstructorSignupRequest); ok {
		errs = append(errs, officeHoursOrderErrors(instructor.OfficeHours)...)
	}

	return errs
}

// officeHoursOrderErrors flags entries whose start time is not strictly
// before the end time. Entries with malformed times are skipped; the datetime
// tag already reports those.
func officeHoursOrderErrors(entries []models.OfficeHoursEntry) []FieldError {
	var errs []FieldError
	for i, entry := range entries {
		start, errStart := time.Parse("15:04", entry.StartTime)
		end, errEnd := time.Parse("15:04", entry.EndTime)
		if errStart != nil || errEnd != nil {
			continue
		}
		if !start.Before(end) {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("officeHours[%d].endTime", i),
				Message: "endTime must be after startTime",
			})
		}
	}
	return errs
}

// fieldPath converts a validator namespace into the dotted JSON path of the
// field, dropping the root type and the embedded struct segments.
func fieldPath(fe validator.FieldError) string {
	path := fe.Namespace()
	if idx := strings.Index(path, "."); idx >= 0 {
		path = path[idx+1:]
	}
	path = strings.ReplaceAll(path, "SignupCommon.", "")
	path = strings.ReplaceAll(path, "BasePreferences.", "")
	return path
}

func decodeError(err error) FieldError {
	if ute, ok := err.(*json.UnmarshalTypeError); ok && ute.Field != "" {
		return FieldError{
			Field:   ute.Field,
			Message: fmt.Sprintf("%s must be of type %s", ute.Field, ute.Type.Kind()),
		}
	}
	return FieldError{Field: "body", Message: "request body must be valid JSON"}
}

// messageFor renders a human-readable message for a violated constraint.
func messageFor(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "e164":
		return field + " must be a valid phone number in E.164 format"
	case "min":
		return minMessage(fe)
	case "max":
		return maxMessage(fe)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "datetime":
		switch fe.Param() {
		case "2006-01-02":
			return field + " must be a date in YYYY-MM-DD format"
		case "15:04":
			return field + " must be a time in HH:MM format"
		}
		return field + " has an invalid format"
	case "username_charset":
		return field + " may only contain lowercase letters, digits, dots, underscores and hyphens"
	case "person_name":
		return field + " may only contain letters, spaces, hyphens and apostrophes"
	case "upper_alnum":
		return field + " may only contain uppercase letters and digits"
	case "password_strength":
		return field + " must contain a lowercase letter, an uppercase letter, a digit and a symbol"
	case "enrollment_year_max":
		return field + " cannot be more than one year in the future"
	default:
		return field + " is invalid"
	}
}

func minMessage(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	switch fe.Kind() {
	case reflect.String:
		return fmt.Sprintf("%s must be at least %s characters", field, param)
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf("%s must contain at least %s item(s)", field, param)
	default:
		return fmt.Sprintf("%s must be at least %s", field, param)
	}
}

func maxMessage(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	switch fe.Kind() {
	case reflect.String:
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf("%s must contain at most %s item(s)", field, param)
	default:
		return fmt.Sprintf("%s must be at most %s", field, param)
	}
}
