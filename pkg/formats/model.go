package formats

import (
	"encoding/json"
	"fmt"
)

// Full cube bounds in model space.
var (
	CubeMin = [3]float64{0, 0, 0}
	CubeMax = [3]float64{16, 16, 16}
)

// Model is a parsed block model record.
type Model struct {
	Parent           string                      `json:"parent,omitempty"`
	AmbientOcclusion *bool                       `json:"ambientocclusion,omitempty"`
	Display          map[string]DisplayTransform `json:"display,omitempty"`
	Textures         map[string]string           `json:"textures,omitempty"`
	Elements         []Element                   `json:"elements,omitempty"`
}

// DisplayTransform positions the model in a particular context (gui, hand, ...).
type DisplayTransform struct {
	Rotation    *[3]float64 `json:"rotation,omitempty"`
	Translation *[3]float64 `json:"translation,omitempty"`
	Scale       *[3]float64 `json:"scale,omitempty"`
}

// Element is an axis-aligned box in the 0-16 model space.
type Element struct {
	Name          string           `json:"name,omitempty"`
	From          [3]float64       `json:"from"`
	To            [3]float64       `json:"to"`
	Rotation      *ElementRotation `json:"rotation,omitempty"`
	Shade         *bool            `json:"shade,omitempty"`
	LightEmission int              `json:"light_emission,omitempty"`
	Faces         map[string]Face  `json:"faces,omitempty"`
}

// ElementRotation tilts an element about a single axis.
type ElementRotation struct {
	Origin  [3]float64 `json:"origin"`
	Axis    string     `json:"axis"`
	Angle   float64    `json:"angle"`
	Rescale bool       `json:"rescale,omitempty"`
}

// Face is one textured side of an element.
type Face struct {
	UV        *[4]float64 `json:"uv,omitempty"`
	Texture   string      `json:"texture"`
	CullFace  string      `json:"cullface,omitempty"`
	Rotation  int         `json:"rotation,omitempty"`
	TintIndex *int        `json:"tintindex,omitempty"`
}

// IsFullCube reports whether the element spans exactly (0,0,0)-(16,16,16).
func (e *Element) IsFullCube() bool {
	return e.From == CubeMin && e.To == CubeMax
}

// HasParent reports whether the model inherits from another model.
func (m *Model) HasParent() bool {
	return m.Parent != ""
}

// IsVacuous reports whether the model declares nothing at all:
// no parent, no texture bindings and no elements.
func (m *Model) IsVacuous() bool {
	return m.Parent == "" && len(m.Textures) == 0 && len(m.Elements) == 0
}

// ParseModel validates and decodes a model JSON document.
// References are normalized with NormalizeName.
func ParseModel(data []byte) (*Model, error) {
	if err := ValidateModel(data); err != nil {
		return nil, err
	}

	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding model: %w", err)
	}
	m.normalize()
	return &m, nil
}

func (m *Model) normalize() {
	m.Parent = NormalizeName(m.Parent)
	for k, v := range m.Textures {
		m.Textures[k] = NormalizeName(v)
	}
	for i := range m.Elements {
		for dir, f := range m.Elements[i].Faces {
			f.Texture = NormalizeName(f.Texture)
			m.Elements[i].Faces[dir] = f
		}
	}
}
