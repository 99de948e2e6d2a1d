package cst

import (
	"testing"

	"github.com/hdlfmt/svfmt/token"
	"github.com/stretchr/testify/assert"
)

func TestWalkVisitsInSourceOrder(t *testing.T) {
	leaf1 := Leaf(0, 0, 1)
	leaf2 := Leaf(1, 1, 2)
	root := NewNode(ModuleDeclaration, leaf1, leaf2)

	var visited []Kind
	Inspect(root, func(n *Node, _ *Node) bool {
		visited = append(visited, n.Kind)
		return true
	})
	assert.Equal(t, []Kind{ModuleDeclaration, Token, Token}, visited)
}

func TestWalkStopsDescentWhenVisitorReturnsFalse(t *testing.T) {
	leaf := Leaf(0, 0, 1)
	child := NewNode(PortDeclaration, leaf)
	root := NewNode(ModuleDeclaration, child)

	var visited []Kind
	Inspect(root, func(n *Node, _ *Node) bool {
		visited = append(visited, n.Kind)
		return n.Kind != PortDeclaration
	})
	assert.Equal(t, []Kind{ModuleDeclaration, PortDeclaration}, visited)
}

func TestFirstToken(t *testing.T) {
	stream := &token.Stream{Tokens: []token.Token{
		{Kind: token.Identifier, Text: "a"},
		{Kind: token.Identifier, Text: "b"},
	}}
	root := NewNode(ModuleDeclaration, Leaf(0, 0, 1), Leaf(1, 1, 2))
	tok, ok := FirstToken(root, stream)
	assert.True(t, ok)
	assert.Equal(t, "a", tok.Text)
}

func TestFirstTokenEmptyNode(t *testing.T) {
	stream := &token.Stream{}
	root := NewNode(ModuleDeclaration)
	_, ok := FirstToken(root, stream)
	assert.False(t, ok)
}

func TestNewNodeSpansChildren(t *testing.T) {
	root := NewNode(ModuleDeclaration, Leaf(0, 10, 20), Leaf(1, 20, 35))
	assert.Equal(t, 10, root.Start)
	assert.Equal(t, 35, root.End)
}
