package formats

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Blockstate format errors.
var (
	ErrInvalidVariant   = errors.New("invalid variant: expected model object or array")
	ErrInvalidCondition = errors.New("invalid multipart condition")
)

// Condition group keys.
const (
	conditionOr  = "OR"
	conditionAnd = "AND"
)

// BlockState is a parsed blockstate record. Exactly one of Variants or
// Multipart is normally populated.
type BlockState struct {
	Variants  map[string]Variant `json:"variants,omitempty"`
	Multipart []MultipartCase    `json:"multipart,omitempty"`
}

// IsVariants reports whether the block is keyed by property variants.
func (b *BlockState) IsVariants() bool {
	return len(b.Variants) > 0
}

// IsMultipart reports whether the block is composed from multipart cases.
func (b *BlockState) IsMultipart() bool {
	return len(b.Multipart) > 0
}

// VariantKeys returns the declared variant keys, sorted.
func (b *BlockState) VariantKeys() []string {
	keys := make([]string, 0, len(b.Variants))
	for k := range b.Variants {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Models returns every model reference in the blockstate.
func (b *BlockState) Models() []ModelRef {
	var refs []ModelRef
	for _, k := range b.VariantKeys() {
		refs = append(refs, b.Variants[k].Models()...)
	}
	for _, c := range b.Multipart {
		refs = append(refs, c.Apply.Models()...)
	}
	return refs
}

// ApplicableModels returns the models of every multipart case whose
// condition holds for state, in declaration order.
func (b *BlockState) ApplicableModels(state map[string]string) []ModelRef {
	var refs []ModelRef
	for _, c := range b.Multipart {
		if c.When.Matches(state) {
			refs = append(refs, c.Apply.Models()...)
		}
	}
	return refs
}

// ModelRef references a model with an optional whole-block rotation.
type ModelRef struct {
	Model  string `json:"model"`
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
	Z      int    `json:"z,omitempty"`
	UVLock bool   `json:"uvlock,omitempty"`
	Weight int    `json:"weight,omitempty"`
}

// UnmarshalJSON decodes a model reference; weight defaults to 1.
func (r *ModelRef) UnmarshalJSON(data []byte) error {
	type plain ModelRef
	ref := plain{Weight: 1}
	if err := json.Unmarshal(data, &ref); err != nil {
		return err
	}
	*r = ModelRef(ref)
	return nil
}

// VariantKind tells a single model apart from a weighted list.
type VariantKind int

const (
	VariantSingle VariantKind = iota
	VariantMultiple
)

// Variant is either a single model or a list of weighted alternatives.
type Variant struct {
	kind VariantKind
	refs []ModelRef
}

// Single returns a variant holding one model.
func Single(ref ModelRef) Variant {
	return Variant{kind: VariantSingle, refs: []ModelRef{ref}}
}

// Multiple returns a variant holding weighted alternatives.
func Multiple(refs ...ModelRef) Variant {
	return Variant{kind: VariantMultiple, refs: refs}
}

// Kind returns how the variant was declared.
func (v Variant) Kind() VariantKind {
	return v.kind
}

// Models returns the model references, in declaration order.
func (v Variant) Models() []ModelRef {
	return v.refs
}

// UnmarshalJSON accepts either a model object or an array of them.
func (v *Variant) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ErrInvalidVariant
	}

	switch data[0] {
	case '{':
		var ref ModelRef
		if err := json.Unmarshal(data, &ref); err != nil {
			return err
		}
		*v = Single(ref)
	case '[':
		var refs []ModelRef
		if err := json.Unmarshal(data, &refs); err != nil {
			return err
		}
		*v = Multiple(refs...)
	default:
		return ErrInvalidVariant
	}
	return nil
}

// MarshalJSON writes the variant in the shape it was declared.
func (v Variant) MarshalJSON() ([]byte, error) {
	if v.kind == VariantSingle && len(v.refs) == 1 {
		return json.Marshal(v.refs[0])
	}
	return json.Marshal(v.refs)
}

// MultipartCase applies a model when its condition holds.
type MultipartCase struct {
	When  *Condition `json:"when,omitempty"`
	Apply Variant    `json:"apply"`
}

// PropertyMatch maps property names to "|"-separated accepted values.
type PropertyMatch map[string]string

// Values returns the accepted values of property, or nil if absent.
func (p PropertyMatch) Values(property string) []string {
	v, ok := p[property]
	if !ok {
		return nil
	}
	return strings.Split(v, "|")
}

// Names returns the property names, sorted.
func (p PropertyMatch) Names() []string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Matches reports whether every property of p accepts state's value.
func (p PropertyMatch) Matches(state map[string]string) bool {
	for name := range p {
		got, ok := state[name]
		if !ok {
			return false
		}
		accepted := false
		for _, v := range p.Values(name) {
			if v == got {
				accepted = true
				break
			}
		}
		if !accepted {
			return false
		}
	}
	return true
}

// UnmarshalJSON accepts string, boolean and numeric property values.
func (p *PropertyMatch) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(PropertyMatch, len(raw))
	for name, v := range raw {
		s, err := scalarString(v)
		if err != nil {
			return fmt.Errorf("%w: property %q: %v", ErrInvalidCondition, name, err)
		}
		out[name] = s
	}
	*p = out
	return nil
}

func scalarString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b), nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("unsupported value %s", raw)
}

// ConditionKind is the shape of a multipart condition.
type ConditionKind int

const (
	ConditionProperties ConditionKind = iota
	ConditionOr
	ConditionAnd
)

// String returns the condition kind name.
func (k ConditionKind) String() string {
	switch k {
	case ConditionProperties:
		return "properties"
	case ConditionOr:
		return conditionOr
	case ConditionAnd:
		return conditionAnd
	default:
		return fmt.Sprintf("ConditionKind(%d)", int(k))
	}
}

// Condition gates a multipart case. Properties conditions use Match;
// OR/AND groupings use Terms.
type Condition struct {
	Kind  ConditionKind
	Match PropertyMatch
	Terms []PropertyMatch
}

// Clauses returns every property match in the condition.
func (c *Condition) Clauses() []PropertyMatch {
	if c == nil {
		return nil
	}
	if c.Kind == ConditionProperties {
		return []PropertyMatch{c.Match}
	}
	return c.Terms
}

// Matches reports whether the condition holds for state.
// A nil condition always holds.
func (c *Condition) Matches(state map[string]string) bool {
	if c == nil {
		return true
	}
	switch c.Kind {
	case ConditionOr:
		for _, t := range c.Terms {
			if t.Matches(state) {
				return true
			}
		}
		return false
	case ConditionAnd:
		for _, t := range c.Terms {
			if !t.Matches(state) {
				return false
			}
		}
		return true
	default:
		return c.Match.Matches(state)
	}
}

// UnmarshalJSON decodes a property map or an OR/AND grouping.
func (c *Condition) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCondition, err)
	}

	for _, group := range []struct {
		key  string
		kind ConditionKind
	}{{conditionOr, ConditionOr}, {conditionAnd, ConditionAnd}} {
		terms, ok := raw[group.key]
		if !ok {
			continue
		}
		if len(raw) != 1 {
			return fmt.Errorf("%w: %s mixed with properties", ErrInvalidCondition, group.key)
		}
		var matches []PropertyMatch
		if err := json.Unmarshal(terms, &matches); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidCondition, group.key, err)
		}
		*c = Condition{Kind: group.kind, Terms: matches}
		return nil
	}

	var match PropertyMatch
	if err := json.Unmarshal(data, &match); err != nil {
		return err
	}
	*c = Condition{Kind: ConditionProperties, Match: match}
	return nil
}

// MarshalJSON writes the condition back in its declared shape.
func (c Condition) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case ConditionOr:
		return json.Marshal(map[string][]PropertyMatch{conditionOr: c.Terms})
	case ConditionAnd:
		return json.Marshal(map[string][]PropertyMatch{conditionAnd: c.Terms})
	default:
		return json.Marshal(map[string]string(c.Match))
	}
}

// ParseBlockState validates and decodes a blockstate JSON document.
// Model references are normalized with NormalizeName.
func ParseBlockState(data []byte) (*BlockState, error) {
	if err := ValidateBlockState(data); err != nil {
		return nil, err
	}

	var b BlockState
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decoding blockstate: %w", err)
	}
	b.normalize()
	return &b, nil
}

func (b *BlockState) normalize() {
	for k, v := range b.Variants {
		b.Variants[k] = v.normalized()
	}
	for i := range b.Multipart {
		b.Multipart[i].Apply = b.Multipart[i].Apply.normalized()
	}
}

func (v Variant) normalized() Variant {
	refs := make([]ModelRef, len(v.refs))
	for i, r := range v.refs {
		r.Model = NormalizeName(r.Model)
		refs[i] = r
	}
	return Variant{kind: v.kind, refs: refs}
}
