package rag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrieverSearch(t *testing.T) {
	idx := newIndex(t)
	seedIndex(t, idx)
	r := NewRetriever(idx, nil)

	passages := r.Search(context.Background(), "ROS 2 node topics", 2, nil)

	require.Len(t, passages, 2)
	assert.Equal(t, "module-1-ros2/01-nodes_chunk_0", passages[0].ID)
	assert.Equal(t, "Module 1: ROS 2 Fundamentals", passages[0].Module)
	assert.Equal(t, "Nodes", passages[0].Title)
	assert.LessOrEqual(t, passages[0].Distance, passages[1].Distance)
}

func TestRetrieverEmptyIndex(t *testing.T) {
	assert.Empty(t, NewRetriever(newIndex(t), nil).Search(context.Background(), "anything", 4, nil))
}

func TestMetaString(t *testing.T) {
	m := map[string]any{"title": "Nodes", "chunk_index": float64(2), "module": ""}

	assert.Equal(t, "Nodes", metaString(m, "title", ""))
	assert.Equal(t, "2", metaString(m, "chunk_index", ""))
	assert.Equal(t, "textbook", metaString(m, "source", "textbook"))
	assert.Equal(t, "x", metaString(m, "module", "x"))
}
