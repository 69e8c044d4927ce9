package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scene source types
const (
	TypeBuiltin = "builtin"
	TypeFile    = "file"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID       string `json:"id"`                 // Value accepted by Create
	Name     string `json:"name"`               // Display name
	Type     string `json:"type"`               // "builtin" or "file"
	FilePath string `json:"filePath,omitempty"` // Path to YAML file (file type only)
	Objects  int    `json:"objects"`            // Object count, -1 if generated or unreadable
}

// ListSceneFiles returns the built-in scenes followed by every YAML scene in
// dir, sorted by name. A missing directory yields only the built-ins.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	scenes := builtinInfos()

	if dir == "" {
		return scenes, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return scenes, nil
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
		}
		files = append(files, matches...)
	}

	found := make([]SceneInfo, 0, len(files))
	for _, path := range files {
		found = append(found, describeFile(path))
	}
	sort.Slice(found, func(i, j int) bool {
		return found[i].Name < found[j].Name
	})

	return append(scenes, found...), nil
}

func builtinInfos() []SceneInfo {
	infos := make([]SceneInfo, 0, len(builtins))
	for _, name := range BuiltinNames() {
		objects := -1
		if !seeded[name] {
			objects = len(builtins[name](0).Objects)
		}
		infos = append(infos, SceneInfo{
			ID:      name,
			Name:    titleCase(name),
			Type:    TypeBuiltin,
			Objects: objects,
		})
	}
	return infos
}

// describeFile falls back to the file name when the scene cannot be loaded
func describeFile(path string) SceneInfo {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	info := SceneInfo{
		ID:       path,
		Name:     titleCase(base),
		Type:     TypeFile,
		FilePath: path,
		Objects:  -1,
	}

	s, err := Load(path)
	if err != nil {
		return info
	}
	if s.Name != "" && s.Name != base {
		info.Name = s.Name
	}
	info.Objects = len(s.Objects)
	return info
}

// titleCase converts a filename-style string to title case
// e.g., "two-mirrors" -> "Two Mirrors"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		words[i] = strings.ToUpper(string(runes[0])) + strings.ToLower(string(runes[1:]))
	}

	return strings.Join(words, " ")
}
