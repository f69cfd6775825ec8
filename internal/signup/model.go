// File: internal/signup/model.go
package signup

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode/utf8"
)

// Field identifies a signup form field.
type Field string

const (
	FieldFullName        Field = "full_name"
	FieldEmail           Field = "email"
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirm_password"
)

// Code is the machine readable reason attached to a field error.
type Code string

const (
	CodeEmpty          Code = "EMPTY"
	CodeIncompleteName Code = "INCOMPLETE_NAME"
	CodeMalformed      Code = "MALFORMED"
	CodeMismatch       Code = "MISMATCH"
	CodeAlreadyInUse   Code = "ALREADY_IN_USE"
	CodeTooWeak        Code = "TOO_WEAK"
	CodeInvalid        Code = "INVALID"
)

// User facing messages, as shown by the mobile client.
const (
	MsgFullNameRequired   = "*Full Name is required."
	MsgFullNameIncomplete = "*Must include forename and surname."
	MsgEmailRequired      = "*Email is required."
	MsgEmailMalformed     = "Please enter a valid email address."
	MsgEmailInUse         = "Email already in use. Please try another one."
	MsgEmailInvalid       = "Invalid email format."
	MsgPasswordRequired   = "*Password is required."
	MsgPasswordTooWeak    = "Password is too weak! Try a stronger one."
	MsgConfirmRequired    = "*Please confirm your password."
	MsgPasswordMismatch   = "Passwords do not match!"
	MsgLoginAgain         = "Please log in again."
	MsgSignupTimedOut     = "Sign up is taking too long. Please try again."
)

// SignupRequest is one submit attempt. Values are kept exactly as entered.
type SignupRequest struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
	// SessionID scopes the session hint lookup; it may be empty.
	SessionID string
}

// TrimmedFullName returns the full name with surrounding whitespace removed.
func (r SignupRequest) TrimmedFullName() string { return strings.TrimSpace(r.FullName) }

// TrimmedEmail returns the email with surrounding whitespace removed.
func (r SignupRequest) TrimmedEmail() string { return strings.TrimSpace(r.Email) }

// maskEmail keeps the first character of the local part and the domain, for logs.
func maskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	_, size := utf8.DecodeRuneInString(email)
	return email[:size] + "***" + email[at:]
}

// fingerprint identifies the submitted credentials without keeping them readable.
func (r SignupRequest) fingerprint() string {
	sum := sha256.Sum256([]byte(r.TrimmedFullName() + "\x00" + r.TrimmedEmail() + "\x00" + r.Password))
	return hex.EncodeToString(sum[:])
}

// Status is the result of validating a single field.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// ValidationResult reports the first failing field, or StatusOK.
type ValidationResult struct {
	Field   Field
	Status  Status
	Code    Code
	Message string
}

// OK reports whether validation passed.
func (r ValidationResult) OK() bool { return r.Status == StatusOK }

// Destination is the screen the client should navigate to after signup.
type Destination string

const (
	DestinationAvatarSelection Destination = "avatar-selection"
	DestinationLogin           Destination = "login"
)

// OutcomeKind discriminates Outcome.
type OutcomeKind string

const (
	OutcomeSuccess    OutcomeKind = "success"
	OutcomeFieldError OutcomeKind = "field_error"
	OutcomeFatalError OutcomeKind = "fatal_error"
)

// Outcome is the single result of a provisioning attempt. Which fields are
// meaningful depends on Kind.
type Outcome struct {
	Kind OutcomeKind

	// Success
	Destination Destination
	Params      map[string]string
	Prompt      string
	UID         string

	// FieldError
	Field Field
	Code  Code

	// FieldError and FatalError
	Message string
}

// Success builds a successful outcome.
func Success(destination Destination, params map[string]string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Destination: destination, Params: params}
}

// FieldError builds a field scoped error outcome.
func FieldError(field Field, code Code, message string) Outcome {
	return Outcome{Kind: OutcomeFieldError, Field: field, Code: code, Message: message}
}

// FatalError builds an outcome for failures that are not tied to a field.
func FatalError(message string) Outcome {
	return Outcome{Kind: OutcomeFatalError, Message: message}
}

func fieldErrorFrom(result ValidationResult) Outcome {
	return FieldError(result.Field, result.Code, result.Message)
}
