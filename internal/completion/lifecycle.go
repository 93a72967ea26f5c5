package completion

import (
	"fmt"

	"teamup-app/internal/model"
	"teamup-app/internal/store"
)

// Finalizer deactivates the listing linked to a completion record. It runs
// exactly once per record, from the confirm call that wins the
// pending-to-confirmed transition.
type Finalizer interface {
	Finalize(completion model.Completion) error
}

// Lifecycle deactivates listings through the listing store's idempotent
// updates, so a duplicated call is a no-op rather than an error.
type Lifecycle struct {
	store store.Store
}

func NewLifecycle(st store.Store) *Lifecycle {
	return &Lifecycle{store: st}
}

func (l *Lifecycle) Finalize(completion model.Completion) error {
	kind, id := completion.ListingRef()
	if id == "" {
		return nil
	}
	switch kind {
	case model.ListingVacancy:
		if err := l.store.MarkListingFilled(id); err != nil {
			return fmt.Errorf("mark vacancy %s filled: %w", id, err)
		}
	case model.ListingPlayerAvail, model.ListingChildAvail:
		if err := l.store.MarkListingInactive(id); err != nil {
			return fmt.Errorf("mark listing %s inactive: %w", id, err)
		}
	}
	return nil
}
