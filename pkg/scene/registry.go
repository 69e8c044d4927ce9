package scene

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// builtins maps scene names to their constructors
var builtins = map[string]func(seed int64) *Scene{
	"default": func(int64) *Scene { return NewDefaultScene() },
	"random": func(seed int64) *Scene {
		return NewRandomScene(rand.New(rand.NewSource(seed)))
	},
	"spheregrid": func(int64) *Scene { return NewSphereGridScene() },
}

// seeded lists the built-ins whose contents depend on the seed
var seeded = map[string]bool{"random": true}

// BuiltinNames returns the names of the built-in scenes in sorted order
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsSceneFile reports whether name refers to a YAML scene file
func IsSceneFile(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}

// Create builds a scene by built-in name or loads it from a YAML file path.
// The seed only affects generated scenes.
func Create(name string, seed int64) (*Scene, error) {
	if IsSceneFile(name) {
		return Load(name)
	}
	if build, ok := builtins[name]; ok {
		return build(seed), nil
	}
	return nil, fmt.Errorf("unknown scene %q (available: %s, or a .yaml file)", name, strings.Join(BuiltinNames(), ", "))
}
