package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Per-domain fixture file names inside the data directory.
const (
	ChallengesFile   = "atlas_challenges.json"
	TechnologiesFile = "navigate_technologies.json"
	ProjectsFile     = "cpc_projects.json"
	StakeholdersFile = "cpc_stakeholders.json"
)

// Load reads all domain record files from dir. A missing file yields an empty
// slice for that domain; a malformed file is an error.
func Load(dir string) (*Dataset, error) {
	ds := &Dataset{}

	if err := loadFile(dir, ChallengesFile, &ds.Challenges); err != nil {
		return nil, err
	}
	if err := loadFile(dir, TechnologiesFile, &ds.Technologies); err != nil {
		return nil, err
	}
	if err := loadFile(dir, ProjectsFile, &ds.Projects); err != nil {
		return nil, err
	}
	if err := loadFile(dir, StakeholdersFile, &ds.Stakeholders); err != nil {
		return nil, err
	}

	return ds, nil
}

func loadFile(dir, name string, out any) error {
	path := filepath.Join(dir, name)

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
