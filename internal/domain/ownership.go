package domain

import "github.com/google/uuid"

// Owned is implemented by every resource scoped to a single identity.
type Owned interface {
	OwnerID() uuid.UUID
}

// AssertOwned fails with ErrForbidden unless requester owns resource.
func AssertOwned(resource Owned, requester uuid.UUID) error {
	if resource == nil || resource.OwnerID() != requester {
		return ErrForbidden
	}
	return nil
}
