// Package formats provides parsers for Minecraft block asset records:
// blockstate definitions and block models.
package formats

import "strings"

// Name prefixes stripped from model, parent and texture references.
var namePrefixes = []string{"minecraft:block/", "block/"}

// BuiltinPrefix marks parents that are provided by the game, not by a model file.
const BuiltinPrefix = "builtin/"

// NormalizeName strips the block namespace prefix from a reference, so that
// "minecraft:block/stone" and "block/stone" both become "stone".
// Texture variable references ("#all") are returned unchanged.
func NormalizeName(name string) string {
	if strings.HasPrefix(name, "#") {
		return name
	}
	for _, p := range namePrefixes {
		if strings.HasPrefix(name, p) {
			return strings.TrimPrefix(name, p)
		}
	}
	return name
}

// IsBuiltin reports whether name refers to a builtin model.
func IsBuiltin(name string) bool {
	return strings.HasPrefix(name, BuiltinPrefix)
}
