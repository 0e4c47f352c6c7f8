package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"superstore/pkg/contracts/domain"
)

// ManifestFile is the manifest name inside the output directory
const ManifestFile = "report.json"

// Manifest records what a report run produced. It is the single file a
// consumer needs to read to locate every artifact.
type Manifest struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Duration    string             `json:"duration"`
	Dataset     domain.DatasetInfo `json:"dataset"`
	Summary     domain.Summary     `json:"summary"`

	// Regression is nil when the fit was skipped for lack of data;
	// RegressionError then carries the reason.
	Regression      *domain.RegressionReport `json:"regression,omitempty"`
	RegressionError string                   `json:"regression_error,omitempty"`

	Stages    []StageResult `json:"stages"`
	Artifacts []Artifact    `json:"artifacts"`
	Status    string        `json:"status"`
}

// StageResult tracks the execution of a single report stage
type StageResult struct {
	Name     string `json:"name"`
	Duration string `json:"duration"`
	Status   string `json:"status"`
}

// Artifact is one file produced by a report run
type Artifact struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
}

// SaveToFile writes the manifest as indented JSON
func (m *Manifest) SaveToFile(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest file: %w", err)
	}

	return nil
}

// LoadManifestFromFile reads a manifest written by a previous run
func LoadManifestFromFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest file: %w", err)
	}

	return &manifest, nil
}
