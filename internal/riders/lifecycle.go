package riders

import (
	"context"
	"errors"
	"fmt"

	"github.com/parceldrop/parceldrop-backend/internal/models"
)

var (
	ErrNotFound       = errors.New("rider application not found")
	ErrInvalidStatus  = errors.New("invalid rider status")
	ErrAlreadyDecided = errors.New("rider application already decided")
)

// Store is the persistence surface of the lifecycle. Approve must update the
// application status and promote the applicant's user role atomically.
type Store interface {
	ByID(ctx context.Context, id uint) (*models.Rider, error)
	Approve(ctx context.Context, rider *models.Rider) error
	Reject(ctx context.Context, rider *models.Rider) error
}

// Lifecycle governs rider application transitions: pending moves to approved
// or rejected, both terminal. Approval also promotes the applicant to the
// rider role, which is the only path a user can reach that role through.
type Lifecycle struct {
	store Store
}

func NewLifecycle(store Store) *Lifecycle {
	return &Lifecycle{store: store}
}

// Transition applies an admin decision to a pending application.
func (l *Lifecycle) Transition(ctx context.Context, id uint, newStatus string) (*models.Rider, error) {
	if newStatus != models.RiderStatusApproved && newStatus != models.RiderStatusRejected {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, newStatus)
	}

	rider, err := l.store.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if rider.Status != models.RiderStatusPending {
		return nil, fmt.Errorf("%w: status is %q", ErrAlreadyDecided, rider.Status)
	}

	if newStatus == models.RiderStatusApproved {
		if err := l.store.Approve(ctx, rider); err != nil {
			return nil, err
		}
	} else {
		if err := l.store.Reject(ctx, rider); err != nil {
			return nil, err
		}
	}

	rider.Status = newStatus
	return rider, nil
}
