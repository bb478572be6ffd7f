package registry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-notify-backend/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:regdb_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Event{}, &domain.Template{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedEvent(t *testing.T, db *gorm.DB, key string, active bool) {
	t.Helper()
	if err := db.Create(&domain.Event{
		ID: uuid.NewString(), Key: key, Name: key, Active: active,
	}).Error; err != nil {
		t.Fatalf("seed event %s: %v", key, err)
	}
}

func seedTemplate(t *testing.T, db *gorm.DB, eventKey string, role domain.Role, title string, updatedAt time.Time) {
	t.Helper()
	tpl := &domain.Template{
		ID: uuid.NewString(), EventKey: eventKey, RecipientRole: role,
		Active: true, ToastEnabled: true, ToastTitle: title,
	}
	if err := db.Create(tpl).Error; err != nil {
		t.Fatalf("seed template: %v", err)
	}
	// UpdateColumn bypasses the autoupdate hook so the test controls order.
	if err := db.Model(tpl).UpdateColumn("updated_at", updatedAt).Error; err != nil {
		t.Fatalf("set updated_at: %v", err)
	}
}

func TestResolve_KnownAndUnknown(t *testing.T) {
	db := newTestDB(t)
	seedEvent(t, db, "booking.created", true)
	seedEvent(t, db, "legacy.event", false)
	seedTemplate(t, db, "booking.created", domain.RoleCustomer, "Booked", time.Now())

	reg, err := Load(context.Background(), db)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	ev, tpl, err := reg.Resolve("booking.created", domain.RoleCustomer)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ev.Key != "booking.created" || tpl.ToastTitle != "Booked" {
		t.Fatalf("wrong rows: %+v %+v", ev, tpl)
	}

	if _, _, err := reg.Resolve("ghost.event", domain.RoleCustomer); !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("missing key err = %v; want ErrUnknownEvent", err)
	}
	// Inactive events are invisible to the snapshot.
	if _, _, err := reg.Resolve("legacy.event", domain.RoleCustomer); !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("inactive event err = %v; want ErrUnknownEvent", err)
	}
	// Event exists but the role has no template.
	if _, _, err := reg.Resolve("booking.created", domain.RoleAdmin); !errors.Is(err, ErrNoTemplate) {
		t.Fatalf("missing role err = %v; want ErrNoTemplate", err)
	}
}

func TestReload_NewestTemplateWinsAndSnapshotReplaced(t *testing.T) {
	db := newTestDB(t)
	seedEvent(t, db, "review.received", true)
	seedTemplate(t, db, "review.received", domain.RoleProvider, "old", time.Now().Add(-time.Hour))
	seedTemplate(t, db, "review.received", domain.RoleProvider, "new", time.Now())

	reg, err := Load(context.Background(), db)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	_, tpl, err := reg.Resolve("review.received", domain.RoleProvider)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if tpl.ToastTitle != "new" {
		t.Fatalf("expected the most recently updated template, got %q", tpl.ToastTitle)
	}

	// Deactivate the event; a reload must drop it from the snapshot.
	if err := db.Model(&domain.Event{}).Where("key = ?", "review.received").
		Update("active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if err := reg.Reload(context.Background(), db); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reg.Has("review.received") {
		t.Fatal("deactivated event survived reload")
	}
}

func TestEventKeysAndHas(t *testing.T) {
	db := newTestDB(t)
	seedEvent(t, db, "a.one", true)
	seedEvent(t, db, "b.two", true)

	reg, err := Load(context.Background(), db)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	keys := reg.EventKeys()
	if len(keys) != 2 {
		t.Fatalf("EventKeys = %v", keys)
	}
	if !reg.Has("a.one") || reg.Has("z.none") {
		t.Fatal("Has answers wrong")
	}
}
