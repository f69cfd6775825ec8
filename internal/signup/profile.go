package signup

import (
	"fmt"
	"math/rand/v2"
)

// ProfileIDs is the closed set of avatar identifiers a new account can receive.
var ProfileIDs = func() []string {
	ids := make([]string, 12)
	for i := range ids {
		ids[i] = fmt.Sprintf("%02d", i+1)
	}
	return ids
}()

// RandomProfilePicker picks uniformly from ProfileIDs.
type RandomProfilePicker struct{}

// NewRandomProfilePicker returns the default picker.
func NewRandomProfilePicker() *RandomProfilePicker { return &RandomProfilePicker{} }

// Pick returns one of "01".."12".
func (RandomProfilePicker) Pick() string {
	return ProfileIDs[rand.IntN(len(ProfileIDs))]
}
