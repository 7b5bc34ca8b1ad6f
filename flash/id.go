package flash

import "github.com/google/uuid"

// newFakeID generates the correlation tag attached to each Fake instance.
func newFakeID() string {
	return uuid.NewString()
}
