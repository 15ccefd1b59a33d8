package domain

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DeliveryIDPrefix = "sandbox-"

	BaseFee     = 5.99
	DistanceFee = 2.50

	PickupEstimate   = 15 * time.Minute
	DeliveryEstimate = 45 * time.Minute

	// Last year RFC 3339 timestamps can carry.
	maxYear = 9999
)

// A single recorded status transition.
type StatusEvent struct {
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// A line of the order the delivery carries. Stored as given.
type Item struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price,omitempty"`
}

// Represents a simulated delivery owned by the sandbox store.
// CreatedAt and the estimates are fixed at creation. Status is only
// meaningful when Overridden is set; otherwise the effective status is
// derived from CreatedAt on every read. Events is append-only.
type SandboxDelivery struct {
	ID                    string        `json:"id"`
	OrderID               string        `json:"orderId"`
	CreatedAt             time.Time     `json:"createdAt"`
	PickupAddress         string        `json:"pickupAddress"`
	DropoffAddress        string        `json:"dropoffAddress"`
	EstimatedPickupTime   time.Time     `json:"estimatedPickupTime"`
	EstimatedDeliveryTime time.Time     `json:"estimatedDeliveryTime"`
	Fee                   float64       `json:"fee"`
	OrderValue            float64       `json:"orderValue"`
	Items                 []Item        `json:"items,omitempty"`
	Status                Status        `json:"status"`
	Overridden            bool          `json:"overridden"`
	Events                []StatusEvent `json:"events"`
}

// The simulated courier attached once a dasher is assigned.
type Dasher struct {
	Name  string
	Phone string
}

var SandboxDasher = Dasher{Name: "Alex (Sandbox)", Phone: "+1 (555) 010-0199"}

// NewSandboxDelivery builds a fresh record created at createdAt.
func NewSandboxDelivery(id, orderID string, createdAt time.Time, pickup, dropoff string) *SandboxDelivery {
	return &SandboxDelivery{
		ID:                    id,
		OrderID:               orderID,
		CreatedAt:             createdAt,
		PickupAddress:         pickup,
		DropoffAddress:        dropoff,
		EstimatedPickupTime:   createdAt.Add(PickupEstimate),
		EstimatedDeliveryTime: createdAt.Add(DeliveryEstimate),
		Fee:                   SandboxFee(),
		Status:                StatusCreated,
		Events:                []StatusEvent{{Status: StatusCreated, Timestamp: createdAt}},
	}
}

// SandboxFee is deterministic: base fee plus a fixed distance fee, in cents precision.
func SandboxFee() float64 {
	return math.Round((BaseFee+DistanceFee)*100) / 100
}

// EffectiveStatus returns the manual override if one was set, otherwise the
// status derived from the elapsed time.
func (d *SandboxDelivery) EffectiveStatus(now time.Time) Status {
	if d.Overridden {
		return d.Status
	}
	return ResolveStatus(d.CreatedAt, now)
}

// LastEvent returns the most recent recorded event.
func (d *SandboxDelivery) LastEvent() (StatusEvent, bool) {
	if len(d.Events) == 0 {
		return StatusEvent{}, false
	}
	return d.Events[len(d.Events)-1], true
}

// Observe appends the scheduled events of every stage reached by now that
// comes after the last recorded event. It reports whether anything was added.
// Overridden deliveries are left untouched.
func (d *SandboxDelivery) Observe(now time.Time) bool {
	if d.Overridden {
		return false
	}

	lastRank := -1
	if last, ok := d.LastEvent(); ok {
		lastRank = last.Status.Rank()
	}

	added := false
	for _, ev := range Timeline(d.CreatedAt, ResolveStatus(d.CreatedAt, now)) {
		if ev.Status.Rank() <= lastRank {
			continue
		}
		d.Events = append(d.Events, ev)
		added = true
	}
	return added
}

// Clone returns a deep copy so callers never share the events slice.
func (d *SandboxDelivery) Clone() *SandboxDelivery {
	c := *d
	c.Items = append([]Item(nil), d.Items...)
	c.Events = append([]StatusEvent(nil), d.Events...)
	return &c
}

// NewDeliveryID returns "sandbox-{orderID}-{unixMillis}".
func NewDeliveryID(orderID string, createdAt time.Time) string {
	return fmt.Sprintf("%s%s-%d", DeliveryIDPrefix, orderID, createdAt.UnixMilli())
}

// IsSandboxID reports whether id follows the sandbox naming convention.
func IsSandboxID(id string) bool {
	return strings.HasPrefix(id, DeliveryIDPrefix)
}

// ParseDeliveryID splits a sandbox id into its order id and creation time.
// ok is false when the trailing timestamp segment is missing or not a
// non-negative millisecond count; orderID is still returned best-effort.
func ParseDeliveryID(id string) (orderID string, createdAt time.Time, ok bool) {
	if !IsSandboxID(id) {
		return "", time.Time{}, false
	}

	rest := strings.TrimPrefix(id, DeliveryIDPrefix)
	i := strings.LastIndex(rest, "-")
	if i < 0 {
		return rest, time.Time{}, false
	}

	ms, err := strconv.ParseInt(rest[i+1:], 10, 64)
	if err != nil || ms < 0 {
		return rest, time.Time{}, false
	}

	// Every derived timestamp, up to the delivery estimate, must stay encodable.
	createdAt = time.UnixMilli(ms)
	if createdAt.Add(DeliveryEstimate).UTC().Year() > maxYear {
		return rest, time.Time{}, false
	}

	return rest[:i], createdAt, true
}

// TrackingURL is a local path, never an externally resolvable URL.
// The id is path-escaped so it always stays a single segment.
func TrackingURL(id string) string {
	return "/orders/track/" + url.PathEscape(id) + "?sandbox=true"
}
