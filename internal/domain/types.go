package domain

import (
	"errors"
	"fmt"
	"time"
)

// Firestore field names shared by the profile document and the duplicate query.
const (
	FieldEmail = "email"

	// GamerIDHintKey is the session hint that remembers an in-progress gamer flow.
	GamerIDHintKey = "gamerId"
)

// Identity is the account record owned by the identity provider.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
}

// ProfileDocument is the application-level profile stored at users/{uid}.
type ProfileDocument struct {
	FullName    string    `firestore:"fullName" json:"full_name"`
	Email       string    `firestore:"email" json:"email"`
	Profile     string    `firestore:"profile" json:"profile"`
	FriendsList []string  `firestore:"friends_list" json:"friends_list"`
	HostedGames []string  `firestore:"hosted_games" json:"hosted_games"`
	JoinedGames []string  `firestore:"joined_games" json:"joined_games"`
	CreatedAt   time.Time `firestore:"createdAt" json:"created_at"`
}

// NewProfileDocument builds a fresh document. The lists are non-nil so they are
// stored as empty arrays rather than nulls.
func NewProfileDocument(fullName, email, profile string, createdAt time.Time) ProfileDocument {
	return ProfileDocument{
		FullName:    fullName,
		Email:       email,
		Profile:     profile,
		FriendsList: []string{},
		HostedGames: []string{},
		JoinedGames: []string{},
		CreatedAt:   createdAt,
	}
}

// ProviderErrorKind is the closed set of identity provider failures the signup
// workflow reacts to.
type ProviderErrorKind int

const (
	ProviderErrorUnknown ProviderErrorKind = iota
	ProviderErrorWeakPassword
	ProviderErrorInvalidEmail
	ProviderErrorEmailExists
)

func (k ProviderErrorKind) String() string {
	switch k {
	case ProviderErrorWeakPassword:
		return "weak-password"
	case ProviderErrorInvalidEmail:
		return "invalid-email"
	case ProviderErrorEmailExists:
		return "email-already-in-use"
	default:
		return "unknown"
	}
}

// ProviderError is returned by identity provider adapters. Provider specific codes
// are translated into a Kind at the adapter; Message keeps the provider's text.
type ProviderError struct {
	Kind    ProviderErrorKind
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("identity provider error (%s): %s", e.Kind, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ErrDocumentExists is returned by datastore adapters when a create targets an
// existing key.
var ErrDocumentExists = errors.New("document already exists")

// InconsistencyStep names the provisioning step whose write did not land.
type InconsistencyStep string

const (
	StepDisplayName     InconsistencyStep = "display_name"
	StepProfileDocument InconsistencyStep = "profile_document"
)

// Inconsistency describes an identity whose follow-up write failed.
type Inconsistency struct {
	UID         string
	Email       string
	Step        InconsistencyStep
	DisplayName string
	Document    *ProfileDocument
	Reason      string
}

// SignupEvent is the audit record of one provisioning attempt. It never
// carries credentials.
type SignupEvent struct {
	Email       string    `json:"email"`
	UID         string    `json:"uid,omitempty"`
	Outcome     string    `json:"outcome"`
	Field       string    `json:"field,omitempty"`
	Code        string    `json:"code,omitempty"`
	Destination string    `json:"destination,omitempty"`
	Degraded    []string  `json:"degraded,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
