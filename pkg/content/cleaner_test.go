package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleChapter = "---\ntitle: \"ROS 2 Nodes\"\nsidebar_position: 2\n---\n" +
	"import Tabs from '@theme/Tabs';\n\n# Nodes\n\n<Tabs>\n<TabItem value=\"py\">\n\n" +
	"```python\nrclpy.init()\n```\n\n</TabItem>\n</Tabs>\n\n<!-- draft note -->\n\n\n\n" +
	"A node is {props.name} a process."

func TestClean(t *testing.T) {
	got := Clean(sampleChapter)

	assert.Equal(t, "# Nodes\n\n```\nrclpy.init()\n```\n\nA node is  a process.", got)
	assert.NotContains(t, got, "\n\n\n")
}

func TestCleanOnlyMarkup(t *testing.T) {
	assert.Empty(t, Clean("import X from 'y';\n<Hero title=\"x\" />\n<!-- nothing -->\n"))
}

func TestCleanKeepsLowercaseHTML(t *testing.T) {
	assert.Equal(t, "<b>bold</b> text", Clean("<b>bold</b> text"))
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		filename string
		want     string
	}{
		{"front matter quoted", sampleChapter, "02-nodes.mdx", "ROS 2 Nodes"},
		{"front matter single quotes", "---\ntitle: 'Isaac Sim'\n---\nbody", "x.mdx", "Isaac Sim"},
		{"heading", "Intro text\n# Digital Twins\nMore", "x.mdx", "Digital Twins"},
		{"filename with prefix", "no headings here", "03-urdf_robot-models.mdx", "Urdf Robot Models"},
		{"filename without prefix", "plain", "INTRO.md", "Intro"},
		{"filename with digits", "plain", "ros2-basics.mdx", "Ros2 Basics"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTitle(tt.raw, tt.filename))
		})
	}
}
