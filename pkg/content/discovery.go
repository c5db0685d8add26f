package content

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const moduleDirPrefix = "module-"

// DefaultModuleNames maps content directories to the labels shown to readers.
var DefaultModuleNames = map[string]string{
	"module-1-ros2":       "Module 1: ROS 2 Fundamentals",
	"module-2-simulation": "Module 2: Digital Twin Simulation",
	"module-3-isaac":      "Module 3: NVIDIA Isaac Platform",
	"module-4-vla":        "Module 4: Vision-Language-Action Models",
}

// Discover lists the files to ingest under root: every *.mdx inside a module-*
// directory, then the top-level *.mdx and *.md files. Each group is sorted.
func Discover(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var moduleFiles, topLevel []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			if !strings.HasPrefix(name, moduleDirPrefix) {
				continue
			}
			matches, err := filepath.Glob(filepath.Join(root, name, "*.mdx"))
			if err != nil {
				return nil, err
			}
			moduleFiles = append(moduleFiles, matches...)
			continue
		}

		switch filepath.Ext(name) {
		case ".mdx", ".md":
			topLevel = append(topLevel, filepath.Join(root, name))
		}
	}

	sort.Strings(moduleFiles)
	sort.Strings(topLevel)
	return append(moduleFiles, topLevel...), nil
}

// LoadModuleNames reads a YAML mapping of directory name to label and layers it
// over DefaultModuleNames. An empty path returns the defaults.
func LoadModuleNames(path string) (map[string]string, error) {
	names := make(map[string]string, len(DefaultModuleNames))
	for k, v := range DefaultModuleNames {
		names[k] = v
	}
	if path == "" {
		return names, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read module names: %w", err)
	}

	var overrides struct {
		Modules map[string]string `yaml:"modules"`
	}
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parse module names: %w", err)
	}
	for k, v := range overrides.Modules {
		names[k] = v
	}
	return names, nil
}
