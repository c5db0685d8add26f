package content

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"physical-ai-textbook-be/pkg/embedding"
	"physical-ai-textbook-be/pkg/vectorindex"
)

func newTestPipeline(t *testing.T, root string) (*Pipeline, *vectorindex.Index) {
	t.Helper()
	idx := vectorindex.New(context.Background(), vectorindex.NewMemoryStore(), embedding.NewHashingProvider(64),
		vectorindex.Config{Collection: "physical_ai_textbook", Dimension: 64}, nil)
	require.True(t, idx.Initialized())

	return NewPipeline(idx, PipelineConfig{Root: root, ChunkSize: 120, ChunkOverlap: 20}, nil), idx
}

func seedDocs(t *testing.T) string {
	root := filepath.Join(t.TempDir(), "docs")
	writeFile(t, filepath.Join(root, "module-1-ros2", "01-nodes.mdx"),
		"---\ntitle: Nodes\n---\n"+strings.Repeat("A node is a process that performs computation. ", 8))
	writeFile(t, filepath.Join(root, "module-9-extra", "01-bonus.mdx"), "# Bonus\nShort bonus chapter.")
	writeFile(t, filepath.Join(root, "intro.md"), "# Welcome\nPhysical AI connects models to bodies.")
	writeFile(t, filepath.Join(root, "empty.mdx"), "import X from 'x';\n<Hero />\n")
	return root
}

func TestPipelineIngestBuildsMetadata(t *testing.T) {
	root := seedDocs(t)
	p, idx := newTestPipeline(t, root)
	ctx := context.Background()

	result := p.Ingest(ctx, IngestOptions{})

	require.True(t, result.Success, result.Error)
	assert.Equal(t, 4, result.FilesFound)
	assert.Equal(t, 3, result.FilesProcessed)
	assert.Equal(t, result.ChunksCreated, result.DocumentsAdded)
	assert.Equal(t, int64(result.ChunksCreated), result.TotalInStore)

	q, err := idx.EmbedQuery(ctx, "welcome physical ai")
	require.NoError(t, err)
	matches := idx.Query(ctx, q, 50, map[string]string{"filename": "intro.md"})
	require.Len(t, matches, 1)
	m := matches[0]
	assert.Equal(t, "docs/intro_chunk_0", m.ID)
	assert.Equal(t, "docs/intro.md", m.Metadata["source"])
	assert.Equal(t, "docs", m.Metadata["module"])
	assert.Equal(t, "Welcome", m.Metadata["title"])
	assert.Equal(t, 1, m.Metadata["total_chunks"])

	ros := idx.Query(ctx, q, 50, map[string]string{"module_dir": "module-1-ros2"})
	require.Greater(t, len(ros), 1)
	assert.Equal(t, "Module 1: ROS 2 Fundamentals", ros[0].Metadata["module"])
	assert.Equal(t, "docs/module-1-ros2/01-nodes.mdx", ros[0].Metadata["source"])

	extra := idx.Query(ctx, q, 50, map[string]string{"module_dir": "module-9-extra"})
	require.Len(t, extra, 1)
	assert.Equal(t, "module-9-extra", extra[0].Metadata["module"])
}

func TestPipelineIngestIsIdempotent(t *testing.T) {
	root := seedDocs(t)
	p, idx := newTestPipeline(t, root)
	ctx := context.Background()

	chunkZero := func() string {
		t.Helper()
		q, err := idx.EmbedQuery(ctx, "node")
		require.NoError(t, err)
		for _, m := range idx.Query(ctx, q, 50, map[string]string{"filename": "01-nodes.mdx"}) {
			if m.ID == "module-1-ros2/01-nodes_chunk_0" {
				return m.Content
			}
		}
		t.Fatal("chunk module-1-ros2/01-nodes_chunk_0 not stored")
		return ""
	}

	first := p.Ingest(ctx, IngestOptions{})
	require.True(t, first.Success)
	assert.Contains(t, chunkZero(), "A node is a process")

	writeFile(t, filepath.Join(root, "module-1-ros2", "01-nodes.mdx"),
		"---\ntitle: Nodes\n---\n"+strings.Repeat("A topic is a named bus for typed messages now. ", 8))

	second := p.Ingest(ctx, IngestOptions{})
	require.True(t, second.Success)
	assert.Equal(t, first.TotalInStore, second.TotalInStore)
	updated := chunkZero()
	assert.Contains(t, updated, "A topic is a named bus")
	assert.NotContains(t, updated, "A node is a process")

	cleared := p.Ingest(ctx, IngestOptions{ClearExisting: true})
	assert.Equal(t, first.TotalInStore, cleared.TotalInStore)
}

func TestPipelineIngestMissingRootLeavesStoreAlone(t *testing.T) {
	ctx := context.Background()
	p, idx := newTestPipeline(t, seedDocs(t))
	require.True(t, p.Ingest(ctx, IngestOptions{}).Success)
	before := idx.Count(ctx)

	missing := NewPipeline(idx, PipelineConfig{Root: filepath.Join(t.TempDir(), "gone")}, nil)
	result := missing.Ingest(ctx, IngestOptions{ClearExisting: true})

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "Docs directory not found")
	assert.Equal(t, before, idx.Count(ctx))
}

func TestPipelineIngestRejectsConcurrentRun(t *testing.T) {
	p, _ := newTestPipeline(t, seedDocs(t))
	p.mu.Lock()
	defer p.mu.Unlock()

	result := p.Ingest(context.Background(), IngestOptions{})

	assert.False(t, result.Success)
	assert.Equal(t, "ingestion already in progress", result.Error)
}
