// Package manifest records the complete set of outputs written by one build.
package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// SiteManifest represents a complete record of a build's inputs and outputs.
type SiteManifest struct {
	ID         string       `json:"id"`
	Timestamp  time.Time    `json:"timestamp"`
	Inputs     Inputs       `json:"inputs"`
	Pages      []PageEntry  `json:"pages"`
	Assets     []AssetEntry `json:"assets,omitempty"`
	Status     string       `json:"status"`
	DurationMS int64        `json:"duration_ms"`
}

// Inputs captures the build's inputs.
type Inputs struct {
	SourceRoot string `json:"source_root"`
	BasePath   string `json:"base_path,omitempty"`
	ConfigHash string `json:"config_hash"`
}

// PageEntry is one rendered page.
type PageEntry struct {
	Source     string   `json:"source"`
	Output     string   `json:"output"`
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	Date       string   `json:"date"`
	Categories []string `json:"categories,omitempty"`
	SHA256     string   `json:"sha256"`
}

// AssetEntry is one verbatim-copied static asset.
type AssetEntry struct {
	Source string `json:"source"`
	Output string `json:"output"`
	SHA256 string `json:"sha256"`
}

// Build statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// New creates a manifest for a starting build.
func New(sourceRoot, basePath, configHash string) *SiteManifest {
	return &SiteManifest{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Inputs: Inputs{
			SourceRoot: sourceRoot,
			BasePath:   basePath,
			ConfigHash: configHash,
		},
	}
}

// AddPage records a rendered page and its content hash.
func (m *SiteManifest) AddPage(entry PageEntry, content []byte) {
	entry.SHA256 = hashBytes(content)
	m.Pages = append(m.Pages, entry)
}

// AddAsset records a copied asset and its content hash.
func (m *SiteManifest) AddAsset(source, output string, content []byte) {
	m.Assets = append(m.Assets, AssetEntry{
		Source: source,
		Output: output,
		SHA256: hashBytes(content),
	})
}

// OutputPaths returns all written output paths, sorted.
func (m *SiteManifest) OutputPaths() []string {
	paths := make([]string, 0, len(m.Pages)+len(m.Assets))
	for _, p := range m.Pages {
		paths = append(paths, p.Output)
	}
	for _, a := range m.Assets {
		paths = append(paths, a.Output)
	}
	sort.Strings(paths)
	return paths
}

// ToJSON serializes the manifest to JSON.
func (m *SiteManifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a manifest from JSON.
func FromJSON(data []byte) (*SiteManifest, error) {
	var m SiteManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Hash computes a deterministic hash of the manifest's inputs and outputs.
// Two builds over identical inputs yield identical hashes, regardless of
// build id or timestamp.
func (m *SiteManifest) Hash() (string, error) {
	pages := make([]PageEntry, len(m.Pages))
	copy(pages, m.Pages)
	sort.Slice(pages, func(i, j int) bool { return pages[i].Output < pages[j].Output })

	assets := make([]AssetEntry, len(m.Assets))
	copy(assets, m.Assets)
	sort.Slice(assets, func(i, j int) bool { return assets[i].Output < assets[j].Output })

	hashInput := struct {
		Inputs Inputs       `json:"inputs"`
		Pages  []PageEntry  `json:"pages"`
		Assets []AssetEntry `json:"assets"`
	}{
		Inputs: m.Inputs,
		Pages:  pages,
		Assets: assets,
	}

	data, err := json.Marshal(hashInput)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// Snapshot serializes the manifest for writing into the output tree. The
// snapshot deliberately omits build id, timestamp, and duration so identical
// inputs produce byte-identical output trees; the full record (including id
// and timing) lives in the build history store instead.
func (m *SiteManifest) Snapshot() ([]byte, error) {
	siteHash, err := m.Hash()
	if err != nil {
		return nil, err
	}

	pages := make([]PageEntry, len(m.Pages))
	copy(pages, m.Pages)
	sort.Slice(pages, func(i, j int) bool { return pages[i].Output < pages[j].Output })

	assets := make([]AssetEntry, len(m.Assets))
	copy(assets, m.Assets)
	sort.Slice(assets, func(i, j int) bool { return assets[i].Output < assets[j].Output })

	snapshot := struct {
		Inputs   Inputs       `json:"inputs"`
		SiteHash string       `json:"site_hash"`
		Pages    []PageEntry  `json:"pages"`
		Assets   []AssetEntry `json:"assets,omitempty"`
	}{
		Inputs:   m.Inputs,
		SiteHash: siteHash,
		Pages:    pages,
		Assets:   assets,
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

func hashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return fmt.Sprintf("%x", sum)
}
