package services

import (
	"context"
	"fmt"
	"log"
	"sandbox-delivery-service/internal/apperr"
	"sandbox-delivery-service/internal/domain"
	"sandbox-delivery-service/internal/platform/obs"
	"sandbox-delivery-service/internal/ports"
	"strings"
	"sync"
	"time"
)

// Age assumed for a convention-matching id whose timestamp cannot be parsed.
const fallbackAge = 10 * time.Minute

type CreateDeliveryRequest struct {
	OrderID string
	// Either a formatted string or a structured {street, city, state, zip} object.
	PickupAddress  any
	DropoffAddress any
	OrderValue     float64
	Items          []domain.Item
}

// DeliveryStatusView is a delivery as seen at one instant.
// Dasher is set once the effective status reaches dasher_confirmed.
type DeliveryStatusView struct {
	DeliveryID            string
	OrderID               string
	Status                domain.Status
	TrackingURL           string
	PickupAddress         string
	DropoffAddress        string
	EstimatedPickupTime   time.Time
	EstimatedDeliveryTime time.Time
	Fee                   float64
	Dasher                *domain.Dasher
	Events                []domain.StatusEvent
	// Synthesized views are built from the id alone and are not stored.
	Synthesized bool
}

// OverrideResult acknowledges a manual status change.
// Applied is false when the id did not resolve to a stored delivery.
type OverrideResult struct {
	Applied bool
}

// SandboxStore owns simulated deliveries and derives their status from the
// time elapsed since creation. Writes, including events recorded on read,
// are serialized by mu.
type SandboxStore struct {
	mu   sync.Mutex
	repo ports.DeliveryRepository
	now  func() time.Time
}

// NewSandboxStore returns a store backed by repo. A nil clock uses time.Now.
func NewSandboxStore(repo ports.DeliveryRepository, clock func() time.Time) *SandboxStore {
	if repo == nil {
		panic("services.NewSandboxStore: nil repository")
	}
	if clock == nil {
		clock = time.Now
	}
	return &SandboxStore{repo: repo, now: clock}
}

func (s *SandboxStore) Create(ctx context.Context, req CreateDeliveryRequest) (*domain.SandboxDelivery, error) {
	orderID := strings.TrimSpace(req.OrderID)
	if orderID == "" {
		return nil, apperr.Invalid("orderId", "is required")
	}
	if strings.Contains(orderID, "/") {
		return nil, apperr.Invalid("orderId", "must not contain '/'")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := s.now()

	// Same order created twice within one millisecond: bump the id timestamp.
	idAt := createdAt
	id := domain.NewDeliveryID(orderID, idAt)
	for {
		_, exists, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("create delivery: check id %q: %w", id, err)
		}
		if !exists {
			break
		}
		idAt = idAt.Add(time.Millisecond)
		id = domain.NewDeliveryID(orderID, idAt)
	}

	d := domain.NewSandboxDelivery(
		id,
		orderID,
		createdAt,
		domain.FlattenAddress(req.PickupAddress),
		domain.FlattenAddress(req.DropoffAddress),
	)
	d.OrderValue = req.OrderValue
	d.Items = append([]domain.Item(nil), req.Items...)

	if err := s.repo.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("create delivery: save %q: %w", id, err)
	}

	log.Printf("request_id=%s sandbox delivery created id=%s order_id=%s", obs.RequestID(ctx), id, orderID)
	return d.Clone(), nil
}

// GetStatus resolves id against the registry first, then falls back to
// synthesizing a transient view from the id when it follows the sandbox
// naming convention.
func (s *SandboxStore) GetStatus(ctx context.Context, id string) (DeliveryStatusView, error) {
	view, ok, err := s.lookup(ctx, id)
	if err != nil {
		return DeliveryStatusView{}, fmt.Errorf("get delivery status: %w", err)
	}
	if ok {
		return view, nil
	}

	if !domain.IsSandboxID(id) {
		return DeliveryStatusView{}, fmt.Errorf("get delivery status: %q: %w", id, apperr.ErrNotFound)
	}
	return s.synthesize(id), nil
}

// lookup is the registry path of GetStatus.
func (s *SandboxStore) lookup(ctx context.Context, id string) (DeliveryStatusView, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok, err := s.repo.Get(ctx, id)
	if err != nil || !ok {
		return DeliveryStatusView{}, false, err
	}

	now := s.now()
	if err := s.observe(ctx, d, now); err != nil {
		return DeliveryStatusView{}, false, err
	}
	return viewOf(d, now), true, nil
}

// synthesize is the convention path of GetStatus. Nothing is stored.
func (s *SandboxStore) synthesize(id string) DeliveryStatusView {
	now := s.now()

	orderID, createdAt, ok := domain.ParseDeliveryID(id)
	if !ok {
		createdAt = now.Add(-fallbackAge)
	}

	d := domain.NewSandboxDelivery(id, orderID, createdAt, "", "")
	d.Observe(now)

	view := viewOf(d, now)
	view.Synthesized = true
	return view
}

// List returns every stored delivery with its status computed fresh.
func (s *SandboxStore) List(ctx context.Context) ([]DeliveryStatusView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}

	now := s.now()
	out := make([]DeliveryStatusView, 0, len(records))
	for _, d := range records {
		if err := s.observe(ctx, d, now); err != nil {
			return nil, fmt.Errorf("list deliveries: %w", err)
		}
		out = append(out, viewOf(d, now))
	}
	return out, nil
}

// SetManualStatus forces the status of id, bypassing time derivation from
// then on. A non-empty simulateError fails the call without touching any
// record. Unknown ids succeed with Applied=false.
func (s *SandboxStore) SetManualStatus(ctx context.Context, id, status, simulateError string) (OverrideResult, error) {
	if simulateError != "" {
		return OverrideResult{}, &apperr.SimulatedError{Reason: simulateError}
	}
	if strings.TrimSpace(id) == "" {
		return OverrideResult{}, apperr.Invalid("deliveryId", "is required")
	}
	st, ok := domain.ParseStatus(status)
	if !ok {
		return OverrideResult{}, apperr.Invalid("status", fmt.Sprintf("unknown status %q", status))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, found, err := s.repo.Get(ctx, id)
	if err != nil {
		return OverrideResult{}, fmt.Errorf("set manual status: get %q: %w", id, err)
	}
	if !found {
		log.Printf("request_id=%s sandbox override ignored id=%s status=%s reason=unknown_id", obs.RequestID(ctx), id, st)
		return OverrideResult{Applied: false}, nil
	}

	d.Status = st
	d.Overridden = true
	d.Events = append(d.Events, domain.StatusEvent{Status: st, Timestamp: s.now()})

	if err := s.repo.Save(ctx, d); err != nil {
		return OverrideResult{}, fmt.Errorf("set manual status: save %q: %w", id, err)
	}

	log.Printf("request_id=%s sandbox override applied id=%s status=%s", obs.RequestID(ctx), id, st)
	return OverrideResult{Applied: true}, nil
}

// Delete removes id. Missing ids are not an error.
func (s *SandboxStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete delivery: %w", err)
	}
	return nil
}

// observe records newly reached stages on d and persists them. Callers hold mu.
func (s *SandboxStore) observe(ctx context.Context, d *domain.SandboxDelivery, now time.Time) error {
	if !d.Observe(now) {
		return nil
	}
	if err := s.repo.Save(ctx, d); err != nil {
		return fmt.Errorf("record observed status %q: %w", d.ID, err)
	}
	return nil
}

func viewOf(d *domain.SandboxDelivery, now time.Time) DeliveryStatusView {
	status := d.EffectiveStatus(now)

	view := DeliveryStatusView{
		DeliveryID:            d.ID,
		OrderID:               d.OrderID,
		Status:                status,
		TrackingURL:           domain.TrackingURL(d.ID),
		PickupAddress:         d.PickupAddress,
		DropoffAddress:        d.DropoffAddress,
		EstimatedPickupTime:   d.EstimatedPickupTime,
		EstimatedDeliveryTime: d.EstimatedDeliveryTime,
		Fee:                   d.Fee,
		Events:                append([]domain.StatusEvent(nil), d.Events...),
	}
	if status.AtOrAfter(domain.StatusDasherConfirmed) {
		dasher := domain.SandboxDasher
		view.Dasher = &dasher
	}
	return view
}
