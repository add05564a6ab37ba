// Package scene loads yaml scene manifests and spawns their entities at
// STARTUP. A Movement system moves anything with a Velocity.
package scene

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"gopkg.in/yaml.v3"
)

// EntityDef is one entity in a scene file.
type EntityDef struct {
	Name     string  `yaml:"name"`
	Glyph    string  `yaml:"glyph"`
	Color    string  `yaml:"color"` // tcell color name or #rrggbb; empty = terminal default
	Layer    int     `yaml:"layer"`
	X        int     `yaml:"x"`
	Y        int     `yaml:"y"`
	Velocity *VelDef `yaml:"velocity"`
}

type VelDef struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Scene is a parsed scene file.
type Scene struct {
	Entities []EntityDef `yaml:"entities"`
}

// Style is the tcell style for the entity's color.
func (d *EntityDef) Style() tcell.Style {
	st := tcell.StyleDefault
	if d.Color != "" {
		st = st.Foreground(tcell.GetColor(d.Color))
	}
	return st
}

// Load parses the scene at path.
func Load(path string) (*Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}

	var s Scene
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}
	for i := range s.Entities {
		d := &s.Entities[i]
		if d.Glyph == "" {
			return nil, fmt.Errorf("scene: %s: entity %d (%q) has no glyph", path, i, d.Name)
		}
		if d.Color != "" && tcell.GetColor(d.Color) == tcell.ColorDefault {
			return nil, fmt.Errorf("scene: %s: entity %q: unknown color %q", path, d.Name, d.Color)
		}
	}
	return &s, nil
}
