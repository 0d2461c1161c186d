package views

import (
	"errors"
	"testing"
	"time"

	"github.com/dafoggo/klinh-admin/internal/models"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m, dir
}

func TestManager_AddPersists(t *testing.T) {
	m, dir := newTestManager(t)

	view, err := m.Add("  Featured chairs ", "chairs on the home page", "products", "filters=%5B%5D")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if view.Name != "Featured chairs" || view.ID == "" {
		t.Errorf("unexpected view %+v", view)
	}

	reloaded, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	got, err := reloaded.Find("featured CHAIRS")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got.ID != view.ID || got.Query != "filters=%5B%5D" {
		t.Errorf("unexpected reloaded view %+v", got)
	}
}

func TestManager_AddValidation(t *testing.T) {
	m, _ := newTestManager(t)
	if _, err := m.Add("", "", "products", ""); err == nil {
		t.Error("expected empty name to fail")
	}
	if _, err := m.Add("bad", "", "products", "a=%zz"); err == nil {
		t.Error("expected invalid query to fail")
	}
	if _, err := m.Add("Drafts", "", "products", ""); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := m.Add("drafts", "", "products", ""); err == nil {
		t.Error("expected duplicate name to fail")
	}
}

func TestManager_NotFound(t *testing.T) {
	m, _ := newTestManager(t)
	if _, err := m.Find("nope"); !errors.Is(err, ErrViewNotFound) {
		t.Errorf("expected ErrViewNotFound, got %v", err)
	}
	if err := m.Delete("nope"); !errors.Is(err, ErrViewNotFound) {
		t.Errorf("expected ErrViewNotFound, got %v", err)
	}
}

func TestManager_UsageOrdering(t *testing.T) {
	m, _ := newTestManager(t)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	a, _ := m.Add("A", "", "products", "")
	b, _ := m.Add("B", "", "products", "")
	_ = m.RecordUsage(b.ID)
	_ = m.RecordUsage(b.ID)
	_ = m.RecordUsage(a.ID)

	if most := m.GetMostUsed(1); len(most) != 1 || most[0].ID != b.ID {
		t.Errorf("expected B most used, got %+v", most)
	}
	if recent := m.GetRecent(1); len(recent) != 1 || recent[0].ID != a.ID {
		t.Errorf("expected A most recent, got %+v", recent)
	}
}

func TestManager_UpdateAndDelete(t *testing.T) {
	m, _ := newTestManager(t)
	v, _ := m.Add("Archive", "", "products", "")

	if err := m.Update(v.ID, "filters=x"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := m.Get(v.ID)
	if got.Query != "filters=x" {
		t.Errorf("expected updated query, got %q", got.Query)
	}

	if err := m.Delete(v.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(m.GetAll()) != 0 {
		t.Error("expected no views left")
	}
}

func TestURL(t *testing.T) {
	if got := URL("/products", models.SavedView{Query: "filters=x"}); got != "/products?filters=x" {
		t.Errorf("unexpected URL %q", got)
	}
	if got := URL("/products", models.SavedView{}); got != "/products" {
		t.Errorf("unexpected URL %q", got)
	}
}

func TestManager_Search(t *testing.T) {
	m, _ := newTestManager(t)
	_, _ = m.Add("Low stock", "restock soon", "products", "")
	_, _ = m.Add("Featured", "", "products", "")

	if got := m.Search("RESTOCK"); len(got) != 1 || got[0].Name != "Low stock" {
		t.Errorf("unexpected search result %+v", got)
	}
	if got := m.Search(""); len(got) != 2 {
		t.Errorf("expected all views, got %d", len(got))
	}
}
