package ports

import (
	"context"
	"sandbox-delivery-service/internal/domain"
)

// Port: storage for sandbox delivery records.
// Implementations hand out copies; callers never share state with the store.
type DeliveryRepository interface {
	// Return the record for id. ok is false when no record exists.
	Get(ctx context.Context, id string) (d *domain.SandboxDelivery, ok bool, err error)
	// Insert or replace a record.
	Save(ctx context.Context, d *domain.SandboxDelivery) error
	// Remove a record. Removing a missing id is not an error.
	Delete(ctx context.Context, id string) error
	// Return all records in creation order.
	List(ctx context.Context) ([]*domain.SandboxDelivery, error)
}
