package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestDiscover(t *testing.T) {
	root := filepath.Join(t.TempDir(), "docs")
	writeFile(t, filepath.Join(root, "module-2-simulation", "01-gazebo.mdx"), "g")
	writeFile(t, filepath.Join(root, "module-1-ros2", "02-topics.mdx"), "t")
	writeFile(t, filepath.Join(root, "module-1-ros2", "01-nodes.mdx"), "n")
	writeFile(t, filepath.Join(root, "module-1-ros2", "notes.md"), "ignored: only mdx in modules")
	writeFile(t, filepath.Join(root, "assets", "diagram.mdx"), "ignored: not a module dir")
	writeFile(t, filepath.Join(root, "intro.md"), "i")
	writeFile(t, filepath.Join(root, "glossary.mdx"), "g")
	writeFile(t, filepath.Join(root, "sidebar.js"), "ignored")

	files, err := Discover(root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "module-1-ros2", "01-nodes.mdx"),
		filepath.Join(root, "module-1-ros2", "02-topics.mdx"),
		filepath.Join(root, "module-2-simulation", "01-gazebo.mdx"),
		filepath.Join(root, "glossary.mdx"),
		filepath.Join(root, "intro.md"),
	}, files)
}

func TestDiscoverMissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestLoadModuleNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modules.yaml")
	writeFile(t, path, "modules:\n  module-1-ros2: \"ROS 2 Basics\"\n  module-5-capstone: \"Capstone\"\n")

	names, err := LoadModuleNames(path)
	require.NoError(t, err)

	assert.Equal(t, "ROS 2 Basics", names["module-1-ros2"])
	assert.Equal(t, "Capstone", names["module-5-capstone"])
	assert.Equal(t, "Module 3: NVIDIA Isaac Platform", names["module-3-isaac"])
	assert.Equal(t, "Module 1: ROS 2 Fundamentals", DefaultModuleNames["module-1-ros2"])
}

func TestLoadModuleNamesDefaults(t *testing.T) {
	names, err := LoadModuleNames("")
	require.NoError(t, err)
	assert.Equal(t, DefaultModuleNames, names)
}
