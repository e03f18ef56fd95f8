package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/maauso/acoustic-partition/internal/partition"
)

// ManifestFile is the name of the manifest written at the root of every variant.
const ManifestFile = "manifest.json"

// ClassSummary records how one class was partitioned.
type ClassSummary struct {
	Index      int    `json:"index"`
	Name       string `json:"name"`
	Available  int    `json:"available"`
	Train      int    `json:"train"`
	Validation int    `json:"validation"`
	Test       int    `json:"test"`
}

// Manifest describes how a variant was produced.
type Manifest struct {
	RunID          string          `json:"run_id"`
	Variant        string          `json:"variant"`
	SNRdB          *float64        `json:"snr_db,omitempty"`
	ShuffleSeed    uint64          `json:"shuffle_seed"`
	FirstNoiseSeed uint64          `json:"first_noise_seed,omitempty"`
	NextNoiseSeed  uint64          `json:"next_noise_seed,omitempty"`
	QuotaPerClass  partition.Quota `json:"quota_per_class"`
	Counts         map[Subset]int  `json:"counts"`
	Classes        []ClassSummary  `json:"classes"`
	CreatedAt      time.Time       `json:"created_at"`
}

// WriteManifest writes m as indented JSON into dir.
func WriteManifest(dir string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// ReadManifest reads the manifest of a variant tree.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile)) // #nosec G304 - dir is a variant tree
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}
