package index

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// manifest is a small sidecar written next to the snapshot. It carries the
// counts the snapshot format does not expose, so status reporting does not
// have to scan the index.
type manifest struct {
	Documents  int       `json:"documents"`
	Dimensions int       `json:"dimensions"`
	CreatedAt  time.Time `json:"created_at"`
}

func manifestPath(snapshotPath string) string {
	return snapshotPath + ".manifest.json"
}

func writeManifest(path string, m manifest) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

func readManifest(path string) (manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Documents < 0 || m.Dimensions <= 0 {
		return manifest{}, fmt.Errorf("invalid manifest: documents=%d dimensions=%d", m.Documents, m.Dimensions)
	}
	return m, nil
}
