package domain

import "context"

// UserDirectory resolves a user ID to a contact address. User accounts are
// owned by an external system; this is the only user data the booking core
// ever reads.
type UserDirectory interface {
	EmailByUserId(ctx context.Context, userID int) (string, error)
}
