// Package catalog maps binary version signatures to release descriptions.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/danmuck/aeprobe/internal/signature"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

var ErrUnsupportedFormat = errors.New("catalog: unsupported format")

// Entry is one catalog line as stored on disk.
type Entry struct {
	Hex     string `json:"hex" toml:"hex"`
	Version string `json:"version" toml:"version"`
}

type tomlFile struct {
	Build []Entry `toml:"build"`
}

// Catalog is read-only after construction and safe for concurrent lookups.
type Catalog struct {
	entries map[signature.Signature]string
}

// New builds a catalog from entries. Entries with malformed hex are skipped
// and reported; a later duplicate signature replaces an earlier one.
func New(entries []Entry) (*Catalog, []error) {
	c := &Catalog{entries: make(map[signature.Signature]string, len(entries))}
	var skipped []error
	for i, e := range entries {
		sig, err := signature.ParseHex(e.Hex)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("catalog: entry %d: %w", i, err))
			continue
		}
		c.entries[sig] = e.Version
	}
	return c, skipped
}

// Empty returns a catalog that matches nothing.
func Empty() *Catalog {
	return &Catalog{entries: map[signature.Signature]string{}}
}

func (c *Catalog) Lookup(sig signature.Signature) (string, bool) {
	if c == nil {
		return "", false
	}
	v, ok := c.entries[sig]
	return v, ok
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Load reads a .json list of {hex, version} objects or a .toml file of
// [[build]] tables.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog load failed (%s): %w", path, err)
	}
	var entries []Entry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("catalog parse failed (%s): %w", path, err)
		}
	case ".toml":
		var f tomlFile
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("catalog parse failed (%s): %w", path, err)
		}
		entries = f.Build
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	c, skipped := New(entries)
	for _, err := range skipped {
		log.Warn().Msgf("catalog.Load path=%s skipped: %v", path, err)
	}
	log.Debug().Msgf("catalog.Load path=%s entries=%d skipped=%d", path, c.Len(), len(skipped))
	return c, nil
}

// LoadOrEmpty never fails: an unreadable catalog degrades to Empty, which
// turns every lookup into an unknown version.
func LoadOrEmpty(path string) *Catalog {
	if strings.TrimSpace(path) == "" {
		return Empty()
	}
	c, err := Load(path)
	if err != nil {
		log.Warn().Msgf("catalog.LoadOrEmpty using empty catalog: %v", err)
		return Empty()
	}
	return c
}
