package variants

import (
	"sort"

	"github.com/Faultbox/mcpalette/pkg/formats"
)

// Boolean literals widened to a full domain when only one is observed.
const (
	literalTrue  = "true"
	literalFalse = "false"
)

// Enumerate returns every variant key of a blockstate in lexicographic order.
//
// Variant blocks yield their declared keys unchanged. Multipart blocks yield
// the Cartesian product of the property domains observed across all
// conditions. A block with neither yields a single empty key.
func Enumerate(bs *formats.BlockState) []Key {
	switch {
	case bs.IsVariants():
		return declaredKeys(bs)
	case bs.IsMultipart():
		return product(Domains(bs.Multipart))
	default:
		return []Key{nil}
	}
}

// declaredKeys parses each declared key so callers can read its properties.
// Keys that are not name=value pairs are kept as literals.
func declaredKeys(bs *formats.BlockState) []Key {
	names := bs.VariantKeys()
	keys := make([]Key, 0, len(names))
	for _, name := range names {
		k, err := ParseKey(name)
		if err != nil {
			k = Literal(name)
		}
		keys = append(keys, k)
	}
	return keys
}

// Domain is the sorted set of values observed for one property.
type Domain struct {
	Name   string
	Values []string
}

// Domains infers the value domain of every property referenced by the
// multipart conditions, sorted by property name. A property only ever seen
// as "true" or only as "false" ranges over both.
func Domains(cases []formats.MultipartCase) []Domain {
	observed := make(map[string]map[string]bool)
	for _, c := range cases {
		for _, clause := range c.When.Clauses() {
			for _, name := range clause.Names() {
				set, ok := observed[name]
				if !ok {
					set = make(map[string]bool)
					observed[name] = set
				}
				for _, v := range clause.Values(name) {
					set[v] = true
				}
			}
		}
	}

	domains := make([]Domain, 0, len(observed))
	for name, set := range observed {
		if len(set) == 1 {
			switch {
			case set[literalTrue]:
				set[literalFalse] = true
			case set[literalFalse]:
				set[literalTrue] = true
			}
		}
		values := make([]string, 0, len(set))
		for v := range set {
			values = append(values, v)
		}
		sort.Strings(values)
		domains = append(domains, Domain{Name: name, Values: values})
	}
	sort.Slice(domains, func(i, j int) bool {
		return domains[i].Name < domains[j].Name
	})
	return domains
}

// product expands domains into keys, the first domain varying slowest.
func product(domains []Domain) []Key {
	keys := []Key{nil}
	for _, d := range domains {
		next := make([]Key, 0, len(keys)*len(d.Values))
		for _, k := range keys {
			for _, v := range d.Values {
				ext := make(Key, len(k), len(k)+1)
				copy(ext, k)
				next = append(next, append(ext, Property{Name: d.Name, Value: v}))
			}
		}
		keys = next
	}
	return keys
}

// BlockVariant is one (block, key) pair.
type BlockVariant struct {
	Name string
	Key  Key
}

// ID returns the block name, suffixed with "#key" when the key is not empty.
func (v BlockVariant) ID() string {
	if v.Key.IsEmpty() {
		return v.Name
	}
	return v.Name + "#" + v.Key.String()
}

// All enumerates every variant of every block, sorted by block name then key.
func All(blockstates map[string]*formats.BlockState) []BlockVariant {
	var out []BlockVariant
	for name, bs := range blockstates {
		for _, k := range Enumerate(bs) {
			out = append(out, BlockVariant{Name: name, Key: k})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Key.String() < out[j].Key.String()
	})
	return out
}
