package services_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"

	"farmlink/internal/apperr"
	"farmlink/internal/domain"
	"farmlink/internal/repos"
	"farmlink/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// Drop the demo seed so counts are deterministic
	db.MustExec(`DELETE FROM crops`)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func fp(v float64) *float64 { return &v }
func sp(v string) *string   { return &v }

func newCropService(db *sqlx.DB) *services.CropService {
	return services.NewCropService(repos.NewCropRepo(db))
}

func seedCrop(t *testing.T, svc *services.CropService, name string, price, qty float64, ownerEmail string) domain.Crop {
	t.Helper()
	c, err := svc.Create(services.CropInput{
		Name: name, Type: "grain", PricePerUnit: fp(price), Unit: "kg", Quantity: fp(qty),
		Description: "freshly harvested " + name, Location: "Karnal", Image: "crops/" + name + ".jpg",
		OwnerEmail: ownerEmail, OwnerName: "Seller",
	})
	if err != nil {
		t.Fatalf("seed crop %s: %v", name, err)
	}
	return c
}

func wantKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("want apperr kind %d, got %v", kind, err)
	}
	if ae.Kind != kind {
		t.Fatalf("want kind %d, got %d (%s)", kind, ae.Kind, ae.Message)
	}
}

func TestCropCreateValidation(t *testing.T) {
	svc := newCropService(memdb(t))

	base := func() services.CropInput {
		return services.CropInput{
			Name: "Basmati Rice", Type: "grain", PricePerUnit: fp(42.5), Unit: "kg",
			Quantity: fp(500), Description: "aged basmati", Location: "Karnal",
			Image: "crops/basmati.jpg", OwnerEmail: "seller@farmlink.test", OwnerName: "Seller",
		}
	}

	cases := []struct {
		name   string
		mutate func(*services.CropInput)
	}{
		{"zero price", func(in *services.CropInput) { in.PricePerUnit = fp(0) }},
		{"negative price", func(in *services.CropInput) { in.PricePerUnit = fp(-5) }},
		{"missing price", func(in *services.CropInput) { in.PricePerUnit = nil }},
		{"negative quantity", func(in *services.CropInput) { in.Quantity = fp(-1) }},
		{"missing quantity", func(in *services.CropInput) { in.Quantity = nil }},
		{"missing name", func(in *services.CropInput) { in.Name = "  " }},
		{"missing owner email", func(in *services.CropInput) { in.OwnerEmail = "" }},
		{"bad owner email", func(in *services.CropInput) { in.OwnerEmail = "not-an-email" }},
	}
	for _, tc := range cases {
		in := base()
		tc.mutate(&in)
		_, err := svc.Create(in)
		if err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
		wantKind(t, err, apperr.Validation)
	}

	c, err := svc.Create(base())
	if err != nil {
		t.Fatal(err)
	}
	if c.ID == "" || c.CreatedAt == "" || c.UpdatedAt == "" {
		t.Fatalf("missing id/timestamps: %+v", c)
	}
	if c.PricePerUnit != 42.5 || c.Quantity != 500 {
		t.Fatalf("stored numbers differ from input: %+v", c)
	}
	if len(c.Interests) != 0 {
		t.Fatalf("new crop should have no interests, got %d", len(c.Interests))
	}
}

func TestCropSearchAndOwnerFilter(t *testing.T) {
	svc := newCropService(memdb(t))
	seedCrop(t, svc, "Basmati Rice", 42.5, 500, "alice@farmlink.test")
	seedCrop(t, svc, "Alphonso Mango", 180, 60, "bob@farmlink.test")
	seedCrop(t, svc, "Red Onion", 18, 900, "alice@farmlink.test")

	// case-insensitive substring across fields, OR semantics
	out, err := svc.List("RICE", "", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Name != "Basmati Rice" {
		t.Fatalf("search RICE: %+v", out)
	}

	// location matches too
	out, err = svc.List("karnal", "", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("search karnal should match all seeded crops, got %d", len(out))
	}

	// exact owner filter, case-insensitive
	out, err = svc.List("", "ALICE@farmlink.test", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("owner filter: want 2, got %d", len(out))
	}

	// newest first
	out, err = svc.List("", "", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 || out[0].Name != "Red Onion" {
		t.Fatalf("expected newest first, got %+v", out)
	}

	// owner-scoped list requires an email
	if _, err := svc.ListOwned("", ""); err == nil {
		t.Fatal("expected validation error for missing ownerEmail")
	}
}

func TestCropSearchTreatsMetacharactersLiterally(t *testing.T) {
	svc := newCropService(memdb(t))
	seedCrop(t, svc, "Basmati Rice", 42.5, 500, "alice@farmlink.test")
	if _, err := svc.Create(services.CropInput{
		Name: "Red Onion", Type: "vegetable", PricePerUnit: fp(18), Unit: "kg", Quantity: fp(900),
		Description: "grade A, 50%_premium lot", Location: "Nashik", Image: "crops/onion.jpg",
		OwnerEmail: "bob@farmlink.test", OwnerName: "Bob",
	}); err != nil {
		t.Fatal(err)
	}

	// % and _ must not act as LIKE wildcards
	out, err := svc.List("B%e", "", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("wildcard leaked: %%-pattern matched %d crops", len(out))
	}
	out, err = svc.List("B_smati", "", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("wildcard leaked: _-pattern matched %d crops", len(out))
	}

	// literal metacharacters in stored fields still match
	out, err = svc.List("50%_premium", "", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Name != "Red Onion" {
		t.Fatalf("literal %%/_ search: %+v", out)
	}

	// over-long patterns are clamped, not executed verbatim
	out, err = svc.List(strings.Repeat("%a", 200), "", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("long pattern matched %d crops", len(out))
	}
}

func TestCropUpdate(t *testing.T) {
	svc := newCropService(memdb(t))
	c := seedCrop(t, svc, "Basmati Rice", 42.5, 500, "alice@farmlink.test")

	// empty subset
	_, err := svc.Update(c.ID, services.CropUpdate{})
	wantKind(t, err, apperr.Validation)

	// out-of-range numerics
	_, err = svc.Update(c.ID, services.CropUpdate{PricePerUnit: fp(0)})
	wantKind(t, err, apperr.Validation)
	_, err = svc.Update(c.ID, services.CropUpdate{Quantity: fp(-2)})
	wantKind(t, err, apperr.Validation)

	// unknown crop
	_, err = svc.Update("no-such-crop", services.CropUpdate{Name: sp("X")})
	wantKind(t, err, apperr.NotFound)

	// merge
	got, err := svc.Update(c.ID, services.CropUpdate{Name: sp("Aged Basmati"), Quantity: fp(450)})
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Aged Basmati" || got.Quantity != 450 || got.PricePerUnit != 42.5 {
		t.Fatalf("merge went wrong: %+v", got)
	}
	if got.UpdatedAt == c.UpdatedAt {
		t.Fatal("updated_at not refreshed")
	}

	// owner-scoped update only matches the real owner
	_, err = svc.UpdateOwned(c.ID, "bob@farmlink.test", services.CropUpdate{Name: sp("Stolen")})
	wantKind(t, err, apperr.NotFound)
	got, err = svc.UpdateOwned(c.ID, "ALICE@farmlink.test", services.CropUpdate{Name: sp("Basmati Premium")})
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Basmati Premium" {
		t.Fatalf("owner-scoped update: %+v", got)
	}
}

func TestCropDelete(t *testing.T) {
	svc := newCropService(memdb(t))
	c := seedCrop(t, svc, "Basmati Rice", 42.5, 500, "alice@farmlink.test")

	if err := svc.Delete(c.ID); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Get(c.ID)
	wantKind(t, err, apperr.NotFound)
	err = svc.Delete(c.ID)
	wantKind(t, err, apperr.NotFound)
}
