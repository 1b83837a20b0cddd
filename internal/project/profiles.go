package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/RailCraft/internal/model"
)

// DefaultProfilesPath returns the default file path for custom drilling profiles.
func DefaultProfilesPath() string {
	return filepath.Join(DefaultConfigDir(), "profiles.json")
}

// SaveCustomProfiles saves custom profiles to a JSON file.
func SaveCustomProfiles(path string, profiles []model.GCodeProfile) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadCustomProfiles loads custom profiles from a JSON file.
// Returns an empty slice if the file does not exist.
func LoadCustomProfiles(path string) ([]model.GCodeProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.GCodeProfile{}, nil
		}
		return nil, err
	}

	var profiles []model.GCodeProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, err
	}
	for i, p := range profiles {
		if p.Name == "" {
			return nil, fmt.Errorf("custom profile %d has no name", i+1)
		}
	}
	return profiles, nil
}

// ImportProfile imports a single profile from a JSON file.
func ImportProfile(path string) (model.GCodeProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.GCodeProfile{}, err
	}

	var profile model.GCodeProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return model.GCodeProfile{}, err
	}
	if profile.Name == "" {
		return model.GCodeProfile{}, errors.New("imported profile has no name")
	}
	return profile, nil
}
