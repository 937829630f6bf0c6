// Package presets loads named starting configurations from YAML.
package presets

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"revforecast-api/internal/models"
	"revforecast-api/internal/projection"
)

//go:embed presets.yaml
var defaultPresets []byte

var ErrPresetNotFound = errors.New("preset not found")

type Preset struct {
	Name        string                `json:"name" yaml:"name"`
	Description string                `json:"description" yaml:"description"`
	Config      models.ScenarioConfig `json:"config" yaml:"config"`
	MixCurve    []float64             `json:"mixCurve,omitempty" yaml:"mixCurve"`
}

// Request turns the preset into a projection request
func (p Preset) Request() models.ProjectionRequest {
	curve := append([]float64(nil), p.MixCurve...)
	return models.ProjectionRequest{Config: p.Config, MixCurve: curve}
}

type file struct {
	Presets []Preset `yaml:"presets"`
}

// Catalog is an ordered, read-only set of presets
type Catalog struct {
	order []string
	items map[string]Preset
}

// Load reads presets from path, or the built-in set when path is empty.
func Load(path string) (*Catalog, error) {
	data := defaultPresets
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read presets: %w", err)
		}
	}
	return Parse(data)
}

// Parse decodes a presets document. Every preset must have a unique name
// and a config the engine accepts.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}

	c := &Catalog{items: make(map[string]Preset, len(f.Presets))}
	for _, p := range f.Presets {
		if p.Name == "" {
			return nil, errors.New("parse presets: preset without a name")
		}
		if _, dup := c.items[p.Name]; dup {
			return nil, fmt.Errorf("parse presets: duplicate preset %q", p.Name)
		}
		if p.Config.VolumeModel == "" {
			p.Config.VolumeModel = models.VolumeCapacity
		}
		if _, err := projection.ScheduleFor(p.Config, p.MixCurve); err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.Name, err)
		}
		if err := projection.Validate(p.Config); err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.Name, err)
		}
		c.order = append(c.order, p.Name)
		c.items[p.Name] = p
	}
	return c, nil
}

func (c *Catalog) Get(name string) (Preset, error) {
	p, ok := c.items[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}
	return p, nil
}

// All returns presets in file order
func (c *Catalog) All() []Preset {
	out := make([]Preset, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.items[name])
	}
	return out
}

func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}
