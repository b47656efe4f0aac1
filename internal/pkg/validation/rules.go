package validation

import (
	"regexp"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Username charset: lowercase alphanumerics plus dot, underscore, hyphen
	UsernamePattern = `^[a-z0-9._\-]+$`

	// Names: letters, spaces, hyphens and apostrophes only
	PersonNamePattern = `^[A-Za-z][A-Za-z '\-]*$`

	// Role-scoped identifiers: uppercase alphanumerics
	IdentifierPattern = `^[A-Z0-9]+$`
)

// compiledPatterns caches compiled regex patterns
var compiledPatterns = struct {
	Username   *regexp.Regexp
	PersonName *regexp.Regexp
	Identifier *regexp.Regexp
}{
	Username:   regexp.MustCompile(UsernamePattern),
	PersonName: regexp.MustCompile(PersonNamePattern),
	Identifier: regexp.MustCompile(IdentifierPattern),
}

// registerCustomRules wires the custom validators used by the signup schemas.
func registerCustomRules(v *validator.Validate) {
	_ = v.RegisterValidation("username_charset", func(fl validator.FieldLevel) bool {
		return compiledPatterns.Username.MatchString(fl.Field().String())
	})

	_ = v.RegisterValidation("person_name", func(fl validator.FieldLevel) bool {
		return compiledPatterns.PersonName.MatchString(fl.Field().String())
	})

	_ = v.RegisterValidation("upper_alnum", func(fl validator.FieldLevel) bool {
		return compiledPatterns.Identifier.MatchString(fl.Field().String())
	})

	_ = v.RegisterValidation("password_strength", validatePasswordStrength)

	// Moving upper bound: the enrollment year may be at most one year ahead.
	_ = v.RegisterValidation("enrollment_year_max", func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= int64(time.Now().Year()+1)
	})
}

// validatePasswordStrength requires at least one lowercase letter, one
// uppercase letter, one digit and one symbol.
func validatePasswordStrength(fl validator.FieldLevel) bool {
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}
