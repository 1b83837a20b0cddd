package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/RailCraft/internal/model"
)

func TestSaveAndLoadCustomProfiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.json")

	profiles := []model.GCodeProfile{
		{
			Name:          "ShopMill",
			Description:   "Shop drill press retrofit",
			StartCode:     []string{"G90", "G21"},
			SpindleStart:  "M3 S%d",
			SpindleStop:   "M5",
			RapidMove:     "G0",
			FeedMove:      "G1",
			PeckCycle:     "G83",
			CancelCycle:   "G80",
			EndCode:       []string{"M2"},
			CommentPrefix: ";",
			DecimalPlaces: 3,
		},
		{
			Name:          "Fanuc",
			Description:   "Fanuc style",
			StartCode:     []string{"G90", "G21", "G17"},
			SpindleStart:  "M3 S%d",
			SpindleStop:   "M5",
			RapidMove:     "G00",
			FeedMove:      "G01",
			PeckCycle:     "G83",
			CancelCycle:   "G80",
			EndCode:       []string{"M30"},
			CommentPrefix: "(",
			CommentSuffix: ")",
			DecimalPlaces: 4,
		},
	}

	if err := SaveCustomProfiles(path, profiles); err != nil {
		t.Fatalf("SaveCustomProfiles: %v", err)
	}

	loaded, err := LoadCustomProfiles(path)
	if err != nil {
		t.Fatalf("LoadCustomProfiles: %v", err)
	}

	if len(loaded) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(loaded))
	}
	if loaded[0].Name != "ShopMill" {
		t.Errorf("expected name ShopMill, got %s", loaded[0].Name)
	}
	if loaded[1].CommentSuffix != ")" {
		t.Errorf("expected comment suffix ), got %q", loaded[1].CommentSuffix)
	}

	// Custom profiles shadow the built-ins of the same name
	if got := model.ResolveProfile("Fanuc", loaded); got.RapidMove != "G00" {
		t.Errorf("expected custom Fanuc profile, got %+v", got)
	}
	if got := model.ResolveProfile("Grbl", loaded); got.Name != "Grbl" {
		t.Errorf("expected built-in Grbl, got %s", got.Name)
	}
}

func TestLoadCustomProfilesNonExistent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.json")

	profiles, err := LoadCustomProfiles(path)
	if err != nil {
		t.Fatalf("expected no error for nonexistent file, got: %v", err)
	}
	if len(profiles) != 0 {
		t.Fatalf("expected 0 profiles for nonexistent file, got %d", len(profiles))
	}
}

func TestLoadCustomProfilesInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")

	if err := os.WriteFile(path, []byte("not valid json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadCustomProfiles(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestLoadCustomProfilesUnnamed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.json")

	if err := os.WriteFile(path, []byte(`[{"name":"ok"},{"description":"no name"}]`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadCustomProfiles(path); err == nil {
		t.Fatal("expected error for a profile without a name")
	}
}

func TestImportProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shared.json")

	if err := os.WriteFile(path, []byte(`{"name":"Shared","start_code":["G90","G21"],"decimal_places":2}`), 0644); err != nil {
		t.Fatal(err)
	}

	imported, err := ImportProfile(path)
	if err != nil {
		t.Fatalf("ImportProfile: %v", err)
	}
	if imported.Name != "Shared" {
		t.Errorf("expected name Shared, got %s", imported.Name)
	}
	if len(imported.StartCode) != 2 {
		t.Errorf("expected 2 start codes, got %d", len(imported.StartCode))
	}
}

func TestImportProfileNoName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "noname.json")

	if err := os.WriteFile(path, []byte(`{"description": "no name"}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ImportProfile(path); err == nil {
		t.Fatal("expected error for profile without name")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	path := filepath.Join(dir, "profiles.json")

	if err := SaveCustomProfiles(path, []model.GCodeProfile{}); err != nil {
		t.Fatalf("SaveCustomProfiles should create directories: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("file was not created in nested directory")
	}
}
