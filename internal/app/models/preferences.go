package models

// NotificationToggles are the channel toggles shared by both roles. Pointers
// distinguish "not supplied" from an explicit false so merging can fall back
// to defaults per field.
type NotificationToggles struct {
	Email *bool `json:"email,omitempty"`
	SMS   *bool `json:"sms,omitempty"`
	Push  *bool `json:"push,omitempty"`
}

// BasePreferences are the preference fields common to both roles.
type BasePreferences struct {
	Notifications *NotificationToggles `json:"notifications,omitempty"`
	Theme         string               `json:"theme,omitempty" validate:"omitempty,oneof=light dark system"`
	Language      string               `json:"language,omitempty" validate:"omitempty,oneof=en es fr de tr"`
}

// StudentPreferences carries caller-supplied overrides for the student variant.
type StudentPreferences struct {
	BasePreferences
	AssignmentReminders *bool `json:"assignmentReminders,omitempty"`
	GradeNotifications  *bool `json:"gradeNotifications,omitempty"`
	CourseUpdates       *bool `json:"courseUpdates,omitempty"`
	ShowGPA             *bool `json:"showGpa,omitempty"`
	ShowEnrollmentYear  *bool `json:"showEnrollmentYear,omitempty"`
}

// InstructorPreferences carries caller-supplied overrides for the instructor variant.
type InstructorPreferences struct {
	BasePreferences
	NewEnrollmentAlerts *bool `json:"newEnrollmentAlerts,omitempty"`
	SubmissionAlerts    *bool `json:"submissionAlerts,omitempty"`
	OfficeHoursAlerts   *bool `json:"officeHoursAlerts,omitempty"`
	ShowOfficeLocation  *bool `json:"showOfficeLocation,omitempty"`
}

// MergedNotifications is the fully resolved notification toggle set.
type MergedNotifications struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
	Push  bool `json:"push"`
}

// MergedStudentPreferences is the fully resolved student preference object:
// every field has a concrete value, caller overrides applied over defaults.
type MergedStudentPreferences struct {
	Notifications       MergedNotifications `json:"notifications"`
	Theme               string              `json:"theme"`
	Language            string              `json:"language"`
	AssignmentReminders bool                `json:"assignmentReminders"`
	GradeNotifications  bool                `json:"gradeNotifications"`
	CourseUpdates       bool                `json:"courseUpdates"`
	ShowGPA             bool                `json:"showGpa"`
	ShowEnrollmentYear  bool                `json:"showEnrollmentYear"`
}

// MergedInstructorPreferences is the fully resolved instructor preference object.
type MergedInstructorPreferences struct {
	Notifications       MergedNotifications `json:"notifications"`
	Theme               string              `json:"theme"`
	Language            string              `json:"language"`
	NewEnrollmentAlerts bool                `json:"newEnrollmentAlerts"`
	SubmissionAlerts    bool                `json:"submissionAlerts"`
	OfficeHoursAlerts   bool                `json:"officeHoursAlerts"`
	ShowOfficeLocation  bool                `json:"showOfficeLocation"`
}

func defaultNotifications() MergedNotifications {
	return MergedNotifications{Email: true, SMS: false, Push: true}
}

// DefaultStudentPreferences returns the fixed student defaults.
func DefaultStudentPreferences() MergedStudentPreferences {
	return MergedStudentPreferences{
		Notifications:       defaultNotifications(),
		Theme:               "light",
		Language:            "en",
		AssignmentReminders: true,
		GradeNotifications:  true,
		CourseUpdates:       true,
		ShowGPA:             false,
		ShowEnrollmentYear:  true,
	}
}

// DefaultInstructorPreferences returns the fixed instructor defaults.
func DefaultInstructorPreferences() MergedInstructorPreferences {
	return MergedInstructorPreferences{
		Notifications:       defaultNotifications(),
		Theme:               "light",
		Language:            "en",
		NewEnrollmentAlerts: true,
		SubmissionAlerts:    true,
		OfficeHoursAlerts:   true,
		ShowOfficeLocation:  true,
	}
}

func mergeNotifications(merged *MergedNotifications, in *NotificationToggles) {
	// An absent nested object falls back entirely to defaults.
	if in == nil {
		return
	}
	overrideBool(&merged.Email, in.Email)
	overrideBool(&merged.SMS, in.SMS)
	overrideBool(&merged.Push, in.Push)
}

func overrideBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func overrideString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

// MergeStudentPreferences overlays caller-supplied overrides on the student
// defaults. A nil input yields the defaults unchanged.
func MergeStudentPreferences(in *StudentPreferences) MergedStudentPreferences {
	merged := DefaultStudentPreferences()
	if in == nil {
		return merged
	}
	mergeNotifications(&merged.Notifications, in.Notifications)
	overrideString(&merged.Theme, in.Theme)
	overrideString(&merged.Language, in.Language)
	overrideBool(&merged.AssignmentReminders, in.AssignmentReminders)
	overrideBool(&merged.GradeNotifications, in.GradeNotifications)
	overrideBool(&merged.CourseUpdates, in.CourseUpdates)
	overrideBool(&merged.ShowGPA, in.ShowGPA)
	overrideBool(&merged.ShowEnrollmentYear, in.ShowEnrollmentYear)
	return merged
}

// MergeInstructorPreferences overlays caller-supplied overrides on the
// instructor defaults. A nil input yields the defaults unchanged.
func MergeInstructorPreferences(in *InstructorPreferences) MergedInstructorPreferences {
	merged := DefaultInstructorPreferences()
	if in == nil {
		return merged
	}
	mergeNotifications(&merged.Notifications, in.Notifications)
	overrideString(&merged.Theme, in.Theme)
	overrideString(&merged.Language, in.Language)
	overrideBool(&merged.NewEnrollmentAlerts, in.NewEnrollmentAlerts)
	overrideBool(&merged.SubmissionAlerts, in.SubmissionAlerts)
	overrideBool(&merged.OfficeHoursAlerts, in.OfficeHoursAlerts)
	overrideBool(&merged.ShowOfficeLocation, in.ShowOfficeLocation)
	return merged
}
