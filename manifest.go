package spritesort

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
)

// ManifestFile is the name of the manifest written into the destination root.
const ManifestFile = "manifest.json"

// ManifestEntry records where one sprite went and what it looks like.
type ManifestEntry struct {
	Name        string     `json:"name"`
	ID          EntityID   `json:"id"`
	Category    Category   `json:"category"`
	Attributes  []string   `json:"attributes,omitempty"`
	Image       *ImageInfo `json:"image,omitempty"`
	ProbeError  string     `json:"probe_error,omitempty"`
	DuplicateOf string     `json:"duplicate_of,omitempty"`
}

// Manifest collects entries from concurrent workers.
type Manifest struct {
	mu      sync.Mutex
	entries []ManifestEntry
}

// Add appends e.
func (m *Manifest) Add(e ManifestEntry) {
	m.mu.Lock()
	m.entries = append(m.entries, e)
	m.mu.Unlock()
}

// Entries returns the entries sorted by category then name, with DuplicateOf
// set on every entry whose hash matches an earlier entry of the same category.
func (m *Manifest) Entries() []ManifestEntry {
	m.mu.Lock()
	out := make([]ManifestEntry, len(m.entries))
	copy(out, m.entries)
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})

	for i := range out {
		out[i].DuplicateOf = ""
		if !hashed(out[i]) {
			continue
		}
		for j := i - 1; j >= 0 && out[j].Category == out[i].Category; j-- {
			prev := out[j]
			if prev.DuplicateOf != "" || !hashed(prev) {
				continue
			}
			if sameSprite(*prev.Image.DHash, *out[i].Image.DHash) {
				out[i].DuplicateOf = prev.Name
			}
		}
	}
	return out
}

// hashed reports whether e was probed and carries a dHash. A zero hash is
// valid for flat sprites.
func hashed(e ManifestEntry) bool {
	return e.ProbeError == "" && e.Image != nil && e.Image.DHash != nil
}

// WriteFile writes the sorted entries as indented JSON.
func (m *Manifest) WriteFile(path string) error {
	data, err := json.MarshalIndent(struct {
		Entries []ManifestEntry `json:"entries"`
	}{m.Entries()}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
