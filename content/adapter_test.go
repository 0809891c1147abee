package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/eringen/folio/docstore"
)

func setupTestAdapter(t *testing.T) (*Adapter, *docstore.SQLite) {
	t.Helper()
	store, err := docstore.NewSQLite(filepath.Join(t.TempDir(), "content.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewAdapter(store, "test-site", "main"), store
}

func TestLoadNotFound(t *testing.T) {
	a, _ := setupTestAdapter(t)

	if _, err := a.Load(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSeedThenLoadReturnsDefault(t *testing.T) {
	a, _ := setupTestAdapter(t)
	ctx := context.Background()

	got, seeded, err := a.LoadOrSeed(ctx, Default())
	if err != nil {
		t.Fatalf("LoadOrSeed failed: %v", err)
	}
	if !seeded {
		t.Error("expected first load to seed")
	}
	if !reflect.DeepEqual(got, Default()) {
		t.Errorf("seeded content differs from default")
	}

	loaded, err := a.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, Default()) {
		t.Errorf("loaded content differs from default:\n got %+v\nwant %+v", loaded, Default())
	}

	_, seeded, err = a.LoadOrSeed(ctx, Default())
	if err != nil {
		t.Fatalf("second LoadOrSeed failed: %v", err)
	}
	if seeded {
		t.Error("second load should not seed again")
	}
}

func TestWriteReplacesWholeDocument(t *testing.T) {
	a, _ := setupTestAdapter(t)
	ctx := context.Background()

	if _, _, err := a.LoadOrSeed(ctx, Default()); err != nil {
		t.Fatalf("LoadOrSeed failed: %v", err)
	}
	updated := Default()
	updated.Projects = []Project{}
	updated.PersonalInfo.Name = "Changed"
	if err := a.Write(ctx, updated); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := a.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(got, updated) {
		t.Errorf("got %+v, want %+v", got, updated)
	}
}

func TestWriteCreatesMissingDocument(t *testing.T) {
	a, _ := setupTestAdapter(t)
	ctx := context.Background()

	if err := a.Write(ctx, Default()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := a.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
}

func TestLoadBackfillsProfilePic(t *testing.T) {
	a, store := setupTestAdapter(t)
	ctx := context.Background()

	old := Default()
	old.PersonalInfo.ProfilePic = ""
	if err := store.SetDocument(ctx, a.Path(), old); err != nil {
		t.Fatalf("SetDocument failed: %v", err)
	}

	got, seeded, err := a.LoadOrSeed(ctx, Default())
	if err != nil {
		t.Fatalf("LoadOrSeed failed: %v", err)
	}
	if seeded {
		t.Error("existing document should not be reseeded")
	}
	if got.PersonalInfo.ProfilePic != Default().PersonalInfo.ProfilePic {
		t.Errorf("ProfilePic = %q", got.PersonalInfo.ProfilePic)
	}
}

func TestLoadNormalizesMissingSections(t *testing.T) {
	a, store := setupTestAdapter(t)
	ctx := context.Background()

	if err := store.SetDocument(ctx, a.Path(), map[string]any{"personalInfo": map[string]any{"name": "x"}}); err != nil {
		t.Fatalf("SetDocument failed: %v", err)
	}
	got, err := a.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.SkillCategories == nil || got.Projects == nil {
		t.Errorf("missing sections should load as empty lists: %+v", got)
	}
}

func TestUnavailableStore(t *testing.T) {
	a := NewAdapter(docstore.Unavailable{}, "site", "main")

	if _, _, err := a.LoadOrSeed(context.Background(), Default()); !errors.Is(err, docstore.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if err := a.Write(context.Background(), Default()); !errors.Is(err, docstore.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestLoadSeedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	body := `personalInfo:
  name: Seeded
  social:
    email: mailto:me@example.com
skillCategories:
  - title: Languages
    skills: [Go, C]
projects:
  - title: One
    link: https://example.com
    description: First
    tech: [Go]
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	c, err := LoadSeed(path)
	if err != nil {
		t.Fatalf("LoadSeed failed: %v", err)
	}
	if c.PersonalInfo.Name != "Seeded" || c.PersonalInfo.Social.EmailAddress() != "me@example.com" {
		t.Errorf("PersonalInfo = %+v", c.PersonalInfo)
	}
	if len(c.SkillCategories) != 1 || len(c.SkillCategories[0].Skills) != 2 {
		t.Errorf("SkillCategories = %+v", c.SkillCategories)
	}
	if len(c.Projects) != 1 || c.Projects[0].Tech[0] != "Go" {
		t.Errorf("Projects = %+v", c.Projects)
	}
}
