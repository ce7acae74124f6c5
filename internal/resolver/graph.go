// Package resolver implements the pipeline's alias resolver (stage 7) and
// $extends group-inheritance pass: expanding curly-brace and $ref aliases
// against a permutation's flattened table, and merging inherited group
// extensions before flattening.
package resolver

import (
	"fmt"
)

// Graph is a directed graph used to order $extends inheritance: an edge
// from a child group to its parent means the child must be processed
// after the parent. Kept generic over string nodes so both the group-path
// graph here and any future ordering need can share it.
type Graph struct {
	dependencies map[string][]string
	nodes        map[string]bool
}

// NewGraph creates an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		dependencies: make(map[string][]string),
		nodes:        make(map[string]bool),
	}
}

// AddEdge records that from depends on to (to must be processed first).
func (g *Graph) AddEdge(from, to string) {
	g.nodes[from] = true
	g.nodes[to] = true
	g.dependencies[from] = append(g.dependencies[from], to)
}

// HasCycle reports whether the graph contains a circular dependency.
func (g *Graph) HasCycle() bool {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	for node := range g.nodes {
		if g.hasCycleDFS(node, visited, recStack) {
			return true
		}
	}
	return false
}

func (g *Graph) hasCycleDFS(node string, visited, recStack map[string]bool) bool {
	if recStack[node] {
		return true
	}
	if visited[node] {
		return false
	}
	visited[node] = true
	recStack[node] = true
	for _, dep := range g.dependencies[node] {
		if g.hasCycleDFS(dep, visited, recStack) {
			return true
		}
	}
	recStack[node] = false
	return false
}

// FindCycle returns a cycle's node path if one exists, or nil.
func (g *Graph) FindCycle() []string {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)

	for node := range g.nodes {
		if cycle := g.findCycleDFS(node, visited, recStack, nil); cycle != nil {
			return cycle
		}
	}
	return nil
}

func (g *Graph) findCycleDFS(node string, visited, recStack map[string]bool, path []string) []string {
	if recStack[node] {
		cycleStart := -1
		for i, n := range path {
			if n == node {
				cycleStart = i
				break
			}
		}
		if cycleStart == -1 {
			panic(fmt.Sprintf("cycle detection invariant violated: node %q in recStack but not in path %v", node, path))
		}
		return append(path[cycleStart:], node)
	}
	if visited[node] {
		return nil
	}

	visited[node] = true
	recStack[node] = true
	path = append(path, node)

	for _, dep := range g.dependencies[node] {
		if cycle := g.findCycleDFS(dep, visited, recStack, path); cycle != nil {
			return cycle
		}
	}

	recStack[node] = false
	return nil
}

// TopologicalSort returns nodes in dependency order (dependencies first).
func (g *Graph) TopologicalSort() ([]string, error) {
	if cycle := g.FindCycle(); cycle != nil {
		return nil, fmt.Errorf("circular dependency: %v", cycle)
	}

	visited := make(map[string]bool)
	var result []string
	for node := range g.nodes {
		if !visited[node] {
			g.topologicalSortDFS(node, visited, &result)
		}
	}
	return result, nil
}

func (g *Graph) topologicalSortDFS(node string, visited map[string]bool, result *[]string) {
	visited[node] = true
	for _, dep := range g.dependencies[node] {
		if !visited[dep] {
			g.topologicalSortDFS(dep, visited, result)
		}
	}
	*result = append(*result, node)
}
