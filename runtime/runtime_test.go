package runtime

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeMarshalJSON(t *testing.T) {
	n := NewNode("N", LC{1, 4})
	n.Set("v", "42")

	b, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"N","lc":[1,4],"v":"42"}`, string(b))
}

func TestNodeAppendBuildsList(t *testing.T) {
	n := NewNode("List", LC{1, 1})
	n.Append("items", "a")
	n.Append("items", "b")

	v, ok := n.Get("items")
	require.True(t, ok)
	assert.Equal(t, []any{"a", "b"}, v)
}

func TestKeyReduceCollapsesSingleField(t *testing.T) {
	n := NewNode("Wrap", LC{1, 1})
	n.Set("left", "x")
	assert.Equal(t, "x", n.KeyReduce("left"))

	n.Set("right", "y")
	assert.Same(t, n, n.KeyReduce("left").(*Node))
}

func TestFlipReparents(t *testing.T) {
	child := NewNode("Child", LC{1, 1})
	parent := NewNode("Parent", LC{1, 1})
	parent.Set("p", child)

	result := parent.Flip("p")
	newRoot, ok := result.(*Node)
	require.True(t, ok)
	assert.Same(t, child, newRoot)

	back, ok := newRoot.Get("p")
	require.True(t, ok)
	assert.Same(t, parent, back)
}

func TestMergeCopiesFieldsAndKind(t *testing.T) {
	n := NewNode("Number", LC{1, 1})
	child := NewNode("FLOAT", LC{1, 1})
	child.Set("value", "3.14")

	n.Merge(child)
	assert.Equal(t, "FLOAT", n.Kind)
	v, ok := n.Get("value")
	require.True(t, ok)
	assert.Equal(t, "3.14", v)
}

func TestFieldProjectsValueAndLC(t *testing.T) {
	n := NewNode("INT", LC{2, 5})
	n.Set("value", "42")

	v, err := Field(n, "value")
	require.NoError(t, err)
	assert.Equal(t, "42", v)

	lc, err := Field(n, "lc")
	require.NoError(t, err)
	assert.Equal(t, LC{2, 5}, lc)

	_, err = Field(n, "missing")
	assert.Error(t, err)
}

func TestScopeStackDeclareDuplicate(t *testing.T) {
	var s ScopeStack
	s.Push()
	n1 := NewNode("Let", LC{1, 1})
	require.NoError(t, s.Declare("a", n1, LC{1, 1}))

	n2 := NewNode("Let", LC{1, 10})
	err := s.Declare("a", n2, LC{1, 10})
	require.Error(t, err)
	var dup *DuplicateDeclareError
	assert.ErrorAs(t, err, &dup)
	assert.Equal(t, "a", dup.Name)
	s.Pop()
}

func TestCursorSkipAndMatch(t *testing.T) {
	kinds := []TokenKind{
		{Name: "WS", Pattern: regexp.MustCompile(`^\s+`), Skip: true},
		{Name: "INT", Pattern: regexp.MustCompile(`^[0-9]+`)},
	}
	c := NewCursor("s", []byte("   42"), kinds)
	c.Skip()
	assert.True(t, c.Peek("INT"))
	tok, ok := c.Match("INT")
	require.True(t, ok)
	assert.Equal(t, "42", tok.Value)
	assert.True(t, c.Eof())
}

func TestCursorCheckpointRestore(t *testing.T) {
	kinds := []TokenKind{
		{Name: "A", Pattern: regexp.MustCompile(`^a`)},
		{Name: "B", Pattern: regexp.MustCompile(`^b`)},
	}
	c := NewCursor("s", []byte("ab"), kinds)
	cp := c.Save()
	_, ok := c.Match("A")
	require.True(t, ok)
	assert.False(t, c.Peek("A"))

	c.Restore(cp)
	assert.True(t, c.Peek("A"))
}

func TestCursorGroupIndexSelectsValue(t *testing.T) {
	kinds := []TokenKind{
		{Name: "KV", Pattern: regexp.MustCompile(`^([a-z]+)=([0-9]+)`), GroupIndex: 2},
	}
	c := NewCursor("s", []byte("x=42"), kinds)
	tok, ok := c.Match("KV")
	require.True(t, ok)
	assert.Equal(t, "x=42", tok.Text)
	assert.Equal(t, "42", tok.Value)
}
</content>
