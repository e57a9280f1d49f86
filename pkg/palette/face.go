package palette

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Tagged string codec markers.
const (
	tagSep      = "#"
	tagRotation = "r="
	tagFlipX    = "fx"
	tagFlipY    = "fy"
)

// FaceTexture is a texture reference with in-plane orientation.
type FaceTexture struct {
	Path     string
	Rotation Rotation
	FlipX    bool
	FlipY    bool
}

// NewFaceTexture returns an unrotated, unflipped face texture.
func NewFaceTexture(path string) FaceTexture {
	return FaceTexture{Path: path}
}

// AddRotation returns a copy of f rotated in-plane by r. Flip state is kept.
func (f FaceTexture) AddRotation(r Rotation) FaceTexture {
	f.Rotation = f.Rotation.Add(r)
	return f
}

// String encodes f as "<path>[#r=<deg>][#fx][#fy]".
func (f FaceTexture) String() string {
	var sb strings.Builder
	sb.WriteString(f.Path)
	if f.Rotation != Rotate0 {
		sb.WriteString(tagSep)
		sb.WriteString(tagRotation)
		sb.WriteString(f.Rotation.String())
	}
	if f.FlipX {
		sb.WriteString(tagSep)
		sb.WriteString(tagFlipX)
	}
	if f.FlipY {
		sb.WriteString(tagSep)
		sb.WriteString(tagFlipY)
	}
	return sb.String()
}

// ParseFaceTexture decodes the tagged string form produced by String.
func ParseFaceTexture(s string) (FaceTexture, error) {
	path, tags, hasTags := strings.Cut(s, tagSep)
	f := FaceTexture{Path: path}
	if !hasTags {
		return f, nil
	}

	for _, tag := range strings.Split(tags, tagSep) {
		switch {
		case tag == "":
			continue
		case strings.HasPrefix(tag, tagRotation):
			r, err := ParseRotation(strings.TrimPrefix(tag, tagRotation))
			if err != nil {
				return FaceTexture{}, fmt.Errorf("face %q: %w", s, err)
			}
			f.Rotation = r
		case tag == tagFlipX:
			f.FlipX = true
		case tag == tagFlipY:
			f.FlipY = true
		default:
			return FaceTexture{}, fmt.Errorf("face %q: %w: %q", s, ErrUnknownFaceTag, tag)
		}
	}
	return f, nil
}

// MarshalJSON encodes the face as its tagged string.
func (f FaceTexture) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// UnmarshalJSON decodes the tagged string form.
func (f *FaceTexture) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseFaceTexture(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
