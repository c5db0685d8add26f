package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cosine(a, b []float32) float64 {
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}

func TestHashingProviderIsDeterministicAndNormalized(t *testing.T) {
	p := NewHashingProvider(64)

	a, err := p.Generate(context.Background(), "ROS 2 nodes publish topics", TaskRetrievalDocument)
	require.NoError(t, err)
	b, err := p.Generate(context.Background(), "ros 2 nodes publish topics", TaskRetrievalQuery)
	require.NoError(t, err)

	require.Len(t, a.Embedding.Values, 64)
	assert.Equal(t, a.Embedding.Values, b.Embedding.Values)
	assert.InDelta(t, 1.0, math.Sqrt(cosine(a.Embedding.Values, a.Embedding.Values)), 1e-5)
}

func TestHashingProviderRanksOverlapHigher(t *testing.T) {
	p := NewHashingProvider(0)
	ctx := context.Background()

	q, _ := p.Generate(ctx, "gazebo physics simulation", TaskRetrievalQuery)
	near, _ := p.Generate(ctx, "Gazebo runs the physics simulation of the robot", TaskRetrievalDocument)
	far, _ := p.Generate(ctx, "vision language action models map words to motor commands", TaskRetrievalDocument)

	assert.Len(t, q.Embedding.Values, DefaultHashingDimension)
	assert.Greater(t, cosine(q.Embedding.Values, near.Embedding.Values), cosine(q.Embedding.Values, far.Embedding.Values))
}

func TestHashingProviderHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHashingProvider(8).Generate(ctx, "text", "")
	assert.ErrorIs(t, err, context.Canceled)
}
