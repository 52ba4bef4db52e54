package scene

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Color is an RGB color in linear space.
//
// In scene files a color may be written as a {r, g, b} mapping or an [r, g, b]
// list, both linear, or as a "#rrggbb" string, which is read as sRGB and
// linearized.
type Color struct {
	R float64 `json:"r" yaml:"r"`
	G float64 `json:"g" yaml:"g"`
	B float64 `json:"b" yaml:"b"`
}

// Hex parses an sRGB hex color into linear space.
func Hex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.LinearRgb()
	return Color{R: r, G: g, B: b}, nil
}

func fromList(rgb []float64) (Color, error) {
	if len(rgb) != 3 {
		return Color{}, fmt.Errorf("color list needs 3 components, got %d", len(rgb))
	}
	return Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}

// fromMap reads the {r, g, b} form. Missing channels are zero, unknown keys are
// rejected like unknown fields elsewhere in a scene file.
func fromMap(m map[string]float64) (Color, error) {
	var c Color
	for k, val := range m {
		switch k {
		case "r":
			c.R = val
		case "g":
			c.G = val
		case "b":
			c.B = val
		default:
			return Color{}, fmt.Errorf("color has unknown channel %q", k)
		}
	}
	return c, nil
}

func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	var err error
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*c, err = Hex(s)
	case yaml.SequenceNode:
		var rgb []float64
		if err := node.Decode(&rgb); err != nil {
			return err
		}
		*c, err = fromList(rgb)
	default:
		var m map[string]float64
		if err := node.Decode(&m); err != nil {
			return err
		}
		*c, err = fromMap(m)
	}
	return err
}

func (c *Color) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty color")
	}

	var err error
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c, err = Hex(s)
	case '[':
		var rgb []float64
		if err := json.Unmarshal(data, &rgb); err != nil {
			return err
		}
		*c, err = fromList(rgb)
	default:
		var m map[string]float64
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		*c, err = fromMap(m)
	}
	return err
}
