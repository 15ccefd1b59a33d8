package domain

import (
	"testing"
	"time"
)

func TestNewSandboxDelivery(t *testing.T) {
	created := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	id := NewDeliveryID("o1", created)

	d := NewSandboxDelivery(id, "o1", created, "1 Main St", "2 Oak Ave")

	if d.ID != "sandbox-o1-1767254400000" {
		t.Fatalf("id = %q", d.ID)
	}
	if !d.EstimatedPickupTime.Equal(created.Add(15 * time.Minute)) {
		t.Errorf("pickup estimate = %v", d.EstimatedPickupTime)
	}
	if !d.EstimatedDeliveryTime.Equal(created.Add(45 * time.Minute)) {
		t.Errorf("delivery estimate = %v", d.EstimatedDeliveryTime)
	}
	if d.Fee != 8.49 {
		t.Errorf("fee = %v, want 8.49", d.Fee)
	}
	if len(d.Events) != 1 || d.Events[0].Status != StatusCreated || !d.Events[0].Timestamp.Equal(created) {
		t.Errorf("events = %+v", d.Events)
	}
}

func TestEffectiveStatusOverride(t *testing.T) {
	created := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	d := NewSandboxDelivery("sandbox-o1-1", "o1", created, "", "")

	if got := d.EffectiveStatus(created.Add(16 * time.Minute)); got != StatusPickedUp {
		t.Fatalf("derived status = %q", got)
	}

	d.Status = StatusConfirmed
	d.Overridden = true
	if got := d.EffectiveStatus(created.Add(time.Hour)); got != StatusConfirmed {
		t.Fatalf("override ignored: %q", got)
	}
}

func TestObserveAppendsScheduledEvents(t *testing.T) {
	created := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	d := NewSandboxDelivery("sandbox-o1-1", "o1", created, "", "")

	if d.Observe(created.Add(time.Minute)) {
		t.Fatal("nothing new should be observed after one minute")
	}

	if !d.Observe(created.Add(11 * time.Minute)) {
		t.Fatal("expected new events")
	}
	if len(d.Events) != 4 {
		t.Fatalf("expected 4 events, got %+v", d.Events)
	}
	if !d.Events[2].Timestamp.Equal(created.Add(5 * time.Minute)) {
		t.Fatalf("dasher_confirmed timestamp = %v", d.Events[2].Timestamp)
	}

	// Observing an earlier instant never truncates or reorders.
	d.Observe(created)
	if len(d.Events) != 4 {
		t.Fatalf("events changed on earlier observe: %+v", d.Events)
	}

	d.Overridden = true
	if d.Observe(created.Add(time.Hour)) {
		t.Fatal("overridden delivery must not record derived events")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	d := NewSandboxDelivery("sandbox-o1-1", "o1", time.Now(), "", "")
	c := d.Clone()
	c.Events = append(c.Events, StatusEvent{Status: StatusDelivered})
	c.Events[0].Status = StatusDelivered

	if len(d.Events) != 1 || d.Events[0].Status != StatusCreated {
		t.Fatalf("original mutated through clone: %+v", d.Events)
	}
}

func TestParseDeliveryID(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		wantOrder string
		wantMS    int64
		wantOK    bool
	}{
		{name: "simple", id: "sandbox-o1-1767254400000", wantOrder: "o1", wantMS: 1767254400000, wantOK: true},
		{name: "dashed_order", id: "sandbox-ord-42-a-1767254400000", wantOrder: "ord-42-a", wantMS: 1767254400000, wantOK: true},
		{name: "bad_timestamp", id: "sandbox-abc-notatime", wantOrder: "abc", wantOK: false},
		{name: "no_segment", id: "sandbox-abc", wantOrder: "abc", wantOK: false},
		{name: "foreign", id: "dd-123", wantOK: false},
		{name: "max_int64", id: "sandbox-abc-9223372036854775807", wantOrder: "abc", wantOK: false},
		{name: "estimate_past_9999", id: "sandbox-abc-253402300799999", wantOrder: "abc", wantOK: false},
		{name: "last_encodable", id: "sandbox-abc-253402297199999", wantOrder: "abc", wantMS: 253402297199999, wantOK: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			order, created, ok := ParseDeliveryID(tt.id)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if order != tt.wantOrder {
				t.Fatalf("order = %q, want %q", order, tt.wantOrder)
			}
			if ok && created.UnixMilli() != tt.wantMS {
				t.Fatalf("created = %d, want %d", created.UnixMilli(), tt.wantMS)
			}
		})
	}
}

func TestTrackingURL(t *testing.T) {
	if got := TrackingURL("sandbox-o1-5"); got != "/orders/track/sandbox-o1-5?sandbox=true" {
		t.Fatalf("TrackingURL = %q", got)
	}
	if got := TrackingURL("sandbox-a/b?c-5"); got != "/orders/track/sandbox-a%2Fb%3Fc-5?sandbox=true" {
		t.Fatalf("TrackingURL escaped = %q", got)
	}
}
