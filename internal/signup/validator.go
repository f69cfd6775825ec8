package signup

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// emailPattern is a structural single-@ check, not RFC 5322.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validator checks signup fields in a fixed order and stops at the first failure.
// It performs no I/O and is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// NewValidator registers the signup specific tags on a fresh validator instance.
func NewValidator() (*Validator, error) {
	v := validator.New()
	tags := map[string]validator.Func{
		"full_name": func(fl validator.FieldLevel) bool {
			return len(strings.Fields(fl.Field().String())) >= 2
		},
		"signup_email": func(fl validator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		},
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("failed to register %q validation: %w", tag, err)
		}
	}
	return &Validator{validate: v}, nil
}

type rule struct {
	field   Field
	code    Code
	message string
	check   func() error
}

// Validate runs the field rules for req. Full name and email are trimmed first;
// passwords are compared exactly as entered.
func (v *Validator) Validate(req SignupRequest) ValidationResult {
	fullName := req.TrimmedFullName()
	email := req.TrimmedEmail()

	rules := []rule{
		{FieldFullName, CodeEmpty, MsgFullNameRequired, func() error { return v.validate.Var(fullName, "required") }},
		{FieldFullName, CodeIncompleteName, MsgFullNameIncomplete, func() error { return v.validate.Var(fullName, "full_name") }},
		{FieldEmail, CodeEmpty, MsgEmailRequired, func() error { return v.validate.Var(email, "required") }},
		{FieldEmail, CodeMalformed, MsgEmailMalformed, func() error { return v.validate.Var(email, "signup_email") }},
		{FieldPassword, CodeEmpty, MsgPasswordRequired, func() error { return v.validate.Var(req.Password, "required") }},
		{FieldConfirmPassword, CodeEmpty, MsgConfirmRequired, func() error { return v.validate.Var(req.ConfirmPassword, "required") }},
		{FieldConfirmPassword, CodeMismatch, MsgPasswordMismatch, func() error {
			return v.validate.VarWithValue(req.ConfirmPassword, req.Password, "eqfield")
		}},
	}

	for _, r := range rules {
		if err := r.check(); err != nil {
			return ValidationResult{Field: r.field, Status: StatusError, Code: r.code, Message: r.message}
		}
	}
	return ValidationResult{Status: StatusOK}
}
