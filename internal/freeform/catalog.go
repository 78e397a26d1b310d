// Package freeform resolves free-form search phrases such as "Drinking Water"
// to the tags and element types of a matching preset.
package freeform

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultPresetsPath = "defaults/presets.yaml"

//go:embed defaults/presets.yaml
var defaultPresetsFS embed.FS

// Preset describes a named kind of map feature.
type Preset struct {
	Name     string            `json:"name"`
	Terms    []string          `json:"terms,omitempty"`
	Tags     map[string]string `json:"tags"`
	Geometry []string          `json:"geometry"`
}

type presetsFile struct {
	Presets []presetEntry `yaml:"presets"`
}

type presetEntry struct {
	Name     string            `yaml:"name"`
	Terms    []string          `yaml:"terms"`
	Tags     map[string]string `yaml:"tags"`
	Geometry []string          `yaml:"geometry"`
}

// Catalog is an ordered set of presets indexed by normalized name and term.
type Catalog struct {
	presets []Preset
	byName  map[string]int
	byTerm  map[string]int
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		byName: make(map[string]int),
		byTerm: make(map[string]int),
	}
}

// LoadDefault loads the embedded preset catalog.
func LoadDefault() (*Catalog, error) {
	return loadFromFS(defaultPresetsFS, defaultPresetsPath)
}

// Load loads the embedded catalog and layers the given preset files on top
// of it, in order. A preset in a later file replaces an earlier preset with
// the same name.
func Load(files ...string) (*Catalog, error) {
	catalog, err := LoadDefault()
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		presets, err := LoadFile(file)
		if err != nil {
			return nil, err
		}
		catalog.Add(presets...)
	}
	return catalog, nil
}

// LoadFile reads and validates a preset YAML file.
func LoadFile(path string) ([]Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset file %s: %w", path, err)
	}
	return Parse(data, path)
}

func loadFromFS(fsys fs.FS, name string) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}
	presets, err := Parse(data, name)
	if err != nil {
		return nil, err
	}
	catalog := NewCatalog()
	catalog.Add(presets...)
	return catalog, nil
}

// Parse decodes and validates preset YAML. source names the document in
// error messages.
func Parse(data []byte, source string) ([]Preset, error) {
	var file presetsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse preset file %s: %w", source, err)
	}

	presets := make([]Preset, 0, len(file.Presets))
	seen := make(map[string]bool, len(file.Presets))
	for i, entry := range file.Presets {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return nil, fmt.Errorf("%s: preset %d is missing name", source, i)
		}
		key := normalize(name)
		if key == "" {
			return nil, fmt.Errorf("%s: preset name %q has no searchable characters", source, name)
		}
		if seen[key] {
			return nil, fmt.Errorf("%s: duplicate preset name %q", source, name)
		}
		seen[key] = true

		if len(entry.Tags) == 0 {
			return nil, fmt.Errorf("%s: preset %q has no tags", source, name)
		}
		for k := range entry.Tags {
			if k == "" {
				return nil, fmt.Errorf("%s: preset %q has an empty tag key", source, name)
			}
		}
		if len(entry.Geometry) == 0 {
			return nil, fmt.Errorf("%s: preset %q has no geometry", source, name)
		}
		for _, g := range entry.Geometry {
			if _, ok := geometryTypes[g]; !ok {
				return nil, fmt.Errorf("%s: preset %q has unknown geometry %q", source, name, g)
			}
		}

		terms := make([]string, 0, len(entry.Terms))
		for _, term := range entry.Terms {
			if term = strings.TrimSpace(term); term != "" {
				terms = append(terms, term)
			}
		}

		presets = append(presets, Preset{
			Name:     name,
			Terms:    terms,
			Tags:     entry.Tags,
			Geometry: entry.Geometry,
		})
	}
	return presets, nil
}

// Add appends presets to the catalog. A preset whose normalized name is
// already present replaces the existing one in place.
func (c *Catalog) Add(presets ...Preset) {
	for _, p := range presets {
		key := normalize(p.Name)
		if i, ok := c.byName[key]; ok {
			c.presets[i] = p
		} else {
			c.byName[key] = len(c.presets)
			c.presets = append(c.presets, p)
		}
	}
	c.reindexTerms()
}

// Terms are indexed after names; the first preset to claim a term keeps it.
func (c *Catalog) reindexTerms() {
	c.byTerm = make(map[string]int)
	for i, p := range c.presets {
		for _, term := range p.Terms {
			key := normalize(term)
			if _, isName := c.byName[key]; isName {
				continue
			}
			if _, taken := c.byTerm[key]; !taken {
				c.byTerm[key] = i
			}
		}
	}
}

// Len returns the number of presets in the catalog.
func (c *Catalog) Len() int {
	return len(c.presets)
}

// Presets returns the catalog's presets sorted by name.
func (c *Catalog) Presets() []Preset {
	out := make([]Preset, len(c.presets))
	copy(out, c.presets)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// Lookup finds a preset by name or search term, ignoring case and
// punctuation.
func (c *Catalog) Lookup(phrase string) (Preset, bool) {
	key := normalize(phrase)
	if key == "" {
		return Preset{}, false
	}
	for _, candidate := range append([]string{key}, singulars(key)...) {
		if i, ok := c.byName[candidate]; ok {
			return c.presets[i], true
		}
		if i, ok := c.byTerm[candidate]; ok {
			return c.presets[i], true
		}
	}
	return Preset{}, false
}
