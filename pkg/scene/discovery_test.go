package scene

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"two-mirrors", "Two Mirrors"},
		{"gold_sphere", "Gold Sphere"},
		{"default", "Default"},
		{"UPPER-case", "Upper Case"},
		{"élan-vital", "Élan Vital"},
		{"über_SCENE", "Über Scene"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestListSceneFiles_MissingDir(t *testing.T) {
	scenes, err := ListSceneFiles(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(scenes) != len(BuiltinNames()) {
		t.Fatalf("Expected only built-ins, got %d scenes", len(scenes))
	}
	for _, info := range scenes {
		if info.Type != TypeBuiltin {
			t.Errorf("Unexpected scene type %q", info.Type)
		}
	}
	expected := []struct {
		id      string
		objects int
	}{
		{"default", 4},
		{"random", -1},
		{"spheregrid", 101},
	}
	for i, want := range expected {
		if scenes[i].ID != want.id || scenes[i].Objects != want.objects {
			t.Errorf("Scene %d: expected %s/%d, got %+v", i, want.id, want.objects, scenes[i])
		}
	}
}

func TestListSceneFiles(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b-scene.yaml": "objects:\n  - sphere: {center: [0, 0, -1], radius: 0.5}\n    material: {type: diffuse, albedo: [1, 1, 1]}\n",
		"a-scene.yml":  "name: Alpha\nobjects: []\n",
		"broken.yaml":  "objects: [",
		"notes.txt":    "not a scene",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	scenes, err := ListSceneFiles(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var found []SceneInfo
	for _, info := range scenes {
		if info.Type == TypeFile {
			found = append(found, info)
		}
	}
	if len(found) != 3 {
		t.Fatalf("Expected 3 scene files, got %d: %+v", len(found), found)
	}

	expected := []struct {
		name    string
		objects int
	}{
		{"Alpha", 0},
		{"B Scene", 1},
		{"Broken", -1},
	}
	for i, want := range expected {
		if found[i].Name != want.name || found[i].Objects != want.objects {
			t.Errorf("Scene %d: expected %s/%d, got %+v", i, want.name, want.objects, found[i])
		}
		if found[i].ID != found[i].FilePath {
			t.Errorf("File scene ID should be its path, got %+v", found[i])
		}
	}
}
