package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"physical-ai-textbook-be/pkg/embedding"
	"physical-ai-textbook-be/pkg/llm"
	"physical-ai-textbook-be/pkg/vectorindex"
)

type fakeModel struct {
	reply   string
	err     error
	prompts []string
	block   bool
}

func (f *fakeModel) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.Generate(ctx, history[len(history)-1].Content, options...)
}

func (f *fakeModel) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

// spyIndex records whether retrieval was attempted.
type spyIndex struct {
	*vectorindex.Index
	queried bool
}

func (s *spyIndex) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	s.queried = true
	return s.Index.EmbedQuery(ctx, text)
}

func newIndex(t *testing.T) *vectorindex.Index {
	t.Helper()
	idx := vectorindex.New(context.Background(), vectorindex.NewMemoryStore(), embedding.NewHashingProvider(128),
		vectorindex.Config{Collection: "physical_ai_textbook", Dimension: 128}, nil)
	require.True(t, idx.Initialized())
	return idx
}

func seedIndex(t *testing.T, idx *vectorindex.Index) {
	t.Helper()
	ctx := context.Background()
	n := idx.AddBatch(ctx, idx.Embed(ctx, []vectorindex.Document{
		{
			ID:      "module-1-ros2/01-nodes_chunk_0",
			Content: "A ROS 2 node is a process that publishes and subscribes to topics.",
			Metadata: map[string]any{
				"module": "Module 1: ROS 2 Fundamentals", "title": "Nodes", "source": "docs/module-1-ros2/01-nodes.mdx",
			},
		},
		{
			ID:      "module-2-simulation/01-gazebo_chunk_0",
			Content: "Gazebo simulates rigid body physics for robot models described in URDF.",
			Metadata: map[string]any{
				"module": "Module 2: Digital Twin Simulation", "title": "Gazebo", "source": "docs/module-2-simulation/01-gazebo.mdx",
			},
		},
	}))
	require.Equal(t, 2, n)
}

var errBoom = errors.New("boom")
