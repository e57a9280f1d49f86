package formats

import (
	"errors"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"minecraft:block/stone", "stone"},
		{"block/cube_all", "cube_all"},
		{"stone", "stone"},
		{"#all", "#all"},
		{"builtin/generated", "builtin/generated"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseModel(t *testing.T) {
	data := []byte(`{
	  "parent": "minecraft:block/block",
	  "textures": { "particle": "#down", "down": "minecraft:block/dirt" },
	  "elements": [
	    {
	      "from": [0, 0, 0],
	      "to": [16, 16, 16],
	      "faces": {
	        "down":  { "texture": "#down", "cullface": "down" },
	        "up":    { "texture": "#up", "rotation": 90, "tintindex": 0 },
	        "north": { "texture": "block/side", "uv": [0, 0, 16, 16] }
	      }
	    },
	    {
	      "from": [0, 0, 0],
	      "to": [16, 8, 16],
	      "rotation": { "origin": [8, 8, 8], "axis": "y", "angle": 45 }
	    }
	  ]
	}`)

	m, err := ParseModel(data)
	if err != nil {
		t.Fatalf("ParseModel: %v", err)
	}
	if m.Parent != "block" {
		t.Errorf("parent = %q, want %q", m.Parent, "block")
	}
	if m.Textures["down"] != "dirt" || m.Textures["particle"] != "#down" {
		t.Errorf("textures = %v", m.Textures)
	}
	if len(m.Elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(m.Elements))
	}
	if !m.Elements[0].IsFullCube() {
		t.Error("element 0 should be a full cube")
	}
	if m.Elements[1].IsFullCube() {
		t.Error("element 1 should not be a full cube")
	}
	up := m.Elements[0].Faces["up"]
	if up.Rotation != 90 || up.TintIndex == nil || *up.TintIndex != 0 {
		t.Errorf("up face = %+v", up)
	}
	if north := m.Elements[0].Faces["north"]; north.Texture != "side" || north.UV == nil {
		t.Errorf("north face = %+v", north)
	}
	if m.Elements[1].Rotation == nil || m.Elements[1].Rotation.Axis != "y" {
		t.Errorf("element rotation = %+v", m.Elements[1].Rotation)
	}
}

func TestParseModel_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"element without to", `{"elements": [{"from": [0,0,0]}]}`},
		{"short vector", `{"elements": [{"from": [0,0], "to": [16,16,16]}]}`},
		{"face without texture", `{"elements": [{"from": [0,0,0], "to": [1,1,1], "faces": {"up": {}}}]}`},
		{"unknown face", `{"elements": [{"from": [0,0,0], "to": [1,1,1], "faces": {"top": {"texture": "#a"}}}]}`},
		{"texture not a string", `{"textures": {"all": 3}}`},
		{"not an object", `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseModel([]byte(tt.data))
			if !errors.Is(err, ErrSchemaViolation) {
				t.Errorf("got %v, want ErrSchemaViolation", err)
			}
		})
	}
}

func TestParseModel_InvalidJSON(t *testing.T) {
	if _, err := ParseModel([]byte(`{"parent": `)); err == nil {
		t.Error("expected error for truncated JSON")
	}
}

func TestModelIsVacuous(t *testing.T) {
	tests := []struct {
		name  string
		model Model
		want  bool
	}{
		{"empty", Model{}, true},
		{"parent", Model{Parent: "block"}, false},
		{"textures", Model{Textures: map[string]string{"particle": "air"}}, false},
		{"elements", Model{Elements: []Element{{To: CubeMax}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.model.IsVacuous(); got != tt.want {
				t.Errorf("IsVacuous() = %v, want %v", got, tt.want)
			}
		})
	}
}
