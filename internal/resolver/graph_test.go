package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtcgo/tokenpipe/internal/resolver"
)

func TestGraph_TopologicalSort(t *testing.T) {
	g := resolver.NewGraph()
	g.AddEdge("child", "parent")
	g.AddEdge("grandchild", "child")

	order, err := g.TopologicalSort()
	require.NoError(t, err)

	pos := map[string]int{}
	for i, n := range order {
		pos[n] = i
	}
	assert.Less(t, pos["parent"], pos["child"])
	assert.Less(t, pos["child"], pos["grandchild"])
}

func TestGraph_HasCycle(t *testing.T) {
	g := resolver.NewGraph()
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")
	assert.True(t, g.HasCycle())
	assert.NotEmpty(t, g.FindCycle())
}

func TestGraph_NoCycle(t *testing.T) {
	g := resolver.NewGraph()
	g.AddEdge("a", "b")
	assert.False(t, g.HasCycle())
	assert.Nil(t, g.FindCycle())
}
