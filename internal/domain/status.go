package domain

import "time"

// Status is a delivery lifecycle label. The set is closed and ordered.
type Status string

const (
	StatusCreated           Status = "created"
	StatusConfirmed         Status = "confirmed"
	StatusDasherConfirmed   Status = "dasher_confirmed"
	StatusDasherAtStore     Status = "dasher_at_store"
	StatusPickedUp          Status = "picked_up"
	StatusEnrouteToConsumer Status = "enroute_to_consumer"
	StatusArrivedAtConsumer Status = "arrived_at_consumer"
	StatusDelivered         Status = "delivered"
)

// Stage is a single entry of the progression table: the status a delivery
// enters once MinutesFromStart minutes have elapsed since creation.
type Stage struct {
	Status           Status
	MinutesFromStart int
}

// Sorted ascending by MinutesFromStart, first entry at 0.
var progression = []Stage{
	{Status: StatusCreated, MinutesFromStart: 0},
	{Status: StatusConfirmed, MinutesFromStart: 2},
	{Status: StatusDasherConfirmed, MinutesFromStart: 5},
	{Status: StatusDasherAtStore, MinutesFromStart: 10},
	{Status: StatusPickedUp, MinutesFromStart: 15},
	{Status: StatusEnrouteToConsumer, MinutesFromStart: 20},
	{Status: StatusArrivedAtConsumer, MinutesFromStart: 35},
	{Status: StatusDelivered, MinutesFromStart: 40},
}

// Stages returns a copy of the progression table.
func Stages() []Stage {
	out := make([]Stage, len(progression))
	copy(out, progression)
	return out
}

// ParseStatus reports whether s is one of the known lifecycle labels.
func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	if st.Rank() < 0 {
		return "", false
	}
	return st, true
}

// Rank returns the position of s in the progression, or -1 if unknown.
func (s Status) Rank() int {
	for i, st := range progression {
		if st.Status == s {
			return i
		}
	}
	return -1
}

// AtOrAfter reports whether s is at or past other in the progression.
// Unknown statuses are never at or after anything.
func (s Status) AtOrAfter(other Status) bool {
	r := s.Rank()
	return r >= 0 && r >= other.Rank()
}

// ResolveStatus maps the time elapsed between createdAt and now to the
// current lifecycle status. A now before createdAt resolves to the first stage.
func ResolveStatus(createdAt, now time.Time) Status {
	elapsed := now.Sub(createdAt)

	current := progression[0].Status
	for _, st := range progression {
		if elapsed < st.offset() {
			break
		}
		current = st.Status
	}

	return current
}

// Timeline returns the scheduled events for every stage up to and including
// upTo, timestamped at createdAt plus the stage offset.
func Timeline(createdAt time.Time, upTo Status) []StatusEvent {
	limit := upTo.Rank()
	events := make([]StatusEvent, 0, limit+1)
	for i := 0; i <= limit; i++ {
		st := progression[i]
		events = append(events, StatusEvent{
			Status:    st.Status,
			Timestamp: createdAt.Add(st.offset()),
		})
	}
	return events
}

func (st Stage) offset() time.Duration {
	return time.Duration(st.MinutesFromStart) * time.Minute
}
