package repositories

import (
	"context"
	"os"
	"sandbox-delivery-service/internal/domain"
	"sandbox-delivery-service/internal/platform/db"
	"sandbox-delivery-service/internal/ports"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jaswdr/faker"
	"github.com/redis/go-redis/v9"
)

var fake = faker.New()

func newFakeDelivery(createdAt time.Time) *domain.SandboxDelivery {
	orderID := "ord" + strings.ReplaceAll(fake.UUID().V4(), "-", "")[:10]
	pickup := domain.Address{
		Street: fake.Address().StreetAddress(),
		City:   fake.Address().City(),
		State:  fake.Address().StateAbbr(),
		Zip:    fake.Address().PostCode(),
	}
	d := domain.NewSandboxDelivery(
		domain.NewDeliveryID(orderID, createdAt),
		orderID,
		createdAt,
		pickup.String(),
		fake.Address().Address(),
	)
	d.OrderValue = fake.Float64(2, 10, 120)
	d.Items = []domain.Item{{Name: fake.Lorem().Word(), Quantity: fake.IntBetween(1, 4)}}
	return d
}

// exerciseRepository runs the behavior every DeliveryRepository must share.
func exerciseRepository(t *testing.T, repo ports.DeliveryRepository) {
	t.Helper()
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	first := newFakeDelivery(base)
	second := newFakeDelivery(base.Add(time.Second))

	if _, ok, err := repo.Get(ctx, first.ID); err != nil || ok {
		t.Fatalf("Get on empty repo: ok=%v err=%v", ok, err)
	}

	for _, d := range []*domain.SandboxDelivery{first, second} {
		if err := repo.Save(ctx, d); err != nil {
			t.Fatalf("Save(%s): %v", d.ID, err)
		}
	}

	got, ok, err := repo.Get(ctx, first.ID)
	if err != nil || !ok {
		t.Fatalf("Get(%s): ok=%v err=%v", first.ID, ok, err)
	}
	if got.OrderID != first.OrderID || got.PickupAddress != first.PickupAddress {
		t.Fatalf("Get returned %+v, want %+v", got, first)
	}
	if !got.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("CreatedAt = %v, want %v", got.CreatedAt, first.CreatedAt)
	}
	if len(got.Items) != 1 || got.Items[0] != first.Items[0] {
		t.Fatalf("items = %+v, want %+v", got.Items, first.Items)
	}

	// Mutating a returned record must not leak into the repository.
	got.Events = append(got.Events, domain.StatusEvent{Status: domain.StatusDelivered, Timestamp: base})
	again, _, _ := repo.Get(ctx, first.ID)
	if len(again.Events) != 1 {
		t.Fatalf("repository shares state with caller: %+v", again.Events)
	}

	// Re-saving keeps the original position in the listing.
	first.Status = domain.StatusPickedUp
	first.Overridden = true
	first.Events = append(first.Events, domain.StatusEvent{Status: domain.StatusPickedUp, Timestamp: base.Add(time.Minute)})
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("re-Save: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != first.ID || list[1].ID != second.ID {
		t.Fatalf("List order = %v", ids(list))
	}
	if !list[0].Overridden || list[0].Status != domain.StatusPickedUp || len(list[0].Events) != 2 {
		t.Fatalf("re-Save not persisted: %+v", list[0])
	}

	if err := repo.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete twice: %v", err)
	}

	list, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("List after delete: %v", err)
	}
	if len(list) != 1 || list[0].ID != second.ID {
		t.Fatalf("List after delete = %v", ids(list))
	}
	if err := repo.Delete(ctx, second.ID); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
}

func ids(ds []*domain.SandboxDelivery) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.ID)
	}
	return out
}

func TestMemoryDeliveryRepository(t *testing.T) {
	exerciseRepository(t, NewMemoryDeliveryRepository())
}

func TestRedisDeliveryRepository(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	exerciseRepository(t, NewRedisDeliveryRepository(client))
}

func TestRedisDeliveryRepositorySkipsDanglingIndex(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	repo := NewRedisDeliveryRepository(client)
	ctx := context.Background()

	d := newFakeDelivery(time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC))
	if err := repo.Save(ctx, d); err != nil {
		t.Fatalf("Save: %v", err)
	}
	mr.Del(redisDeliveryKeyPrefix + d.ID)

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected dangling index entry to be skipped, got %v", ids(list))
	}
}

func TestNilBackends(t *testing.T) {
	ctx := context.Background()

	if _, _, err := NewRedisDeliveryRepository(nil).Get(ctx, "x"); err == nil {
		t.Fatal("expected error for nil redis client")
	}
	if _, err := NewPostgresDeliveryRepository(nil).List(ctx); err == nil {
		t.Fatal("expected error for nil postgres DB")
	}
	if err := InitSchema(nil); err == nil {
		t.Fatal("expected error for nil DB in InitSchema")
	}
}

func TestPostgresDeliveryRepository(t *testing.T) {
	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		t.Skip("DATABASE_URL not set")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := InitSchema(conn); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	if _, err := conn.Exec(`DELETE FROM sandbox_deliveries;`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	exerciseRepository(t, NewPostgresDeliveryRepository(conn))
}
