package link

import (
	"testing"

	"github.com/specialistvlad/scriptgraph/internal/graphid"
	"github.com/specialistvlad/scriptgraph/internal/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver is a static table of live ports.
type fakeResolver struct {
	dirs     map[PortRef]node.Direction
	renaming map[PortRef]bool
	anchors  map[PortRef]node.Point
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		dirs:     make(map[PortRef]node.Direction),
		renaming: make(map[PortRef]bool),
		anchors:  make(map[PortRef]node.Point),
	}
}

func (f *fakeResolver) add(n, p string, dir node.Direction) PortRef {
	ref := PortRef{Node: graphid.NodeID(n), Port: graphid.PortID(p)}
	f.dirs[ref] = dir
	return ref
}

func (f *fakeResolver) Direction(ref PortRef) (node.Direction, bool) {
	d, ok := f.dirs[ref]
	return d, ok
}

func (f *fakeResolver) IsRenaming(ref PortRef) bool { return f.renaming[ref] }

func (f *fakeResolver) anchor(ref PortRef) (node.Point, bool) {
	p, ok := f.anchors[ref]
	return p, ok
}

func TestClick_OutputThenInput(t *testing.T) {
	r := newFakeResolver()
	out := r.add("A", "Output1", node.Output)
	in := r.add("B", "Input1", node.Input)
	var c Controller

	outcome, l := c.Click(r, out)
	assert.Equal(t, Started, outcome)
	assert.Nil(t, l)
	pending, ok := c.Pending()
	require.True(t, ok)
	assert.Equal(t, out, pending)

	outcome, l = c.Click(r, in)
	require.Equal(t, Linked, outcome)
	require.NotNil(t, l)
	assert.Equal(t, out, l.Start)
	assert.Equal(t, in, l.End)
	assert.NotEmpty(t, l.ID)
	_, ok = c.Pending()
	assert.False(t, ok)
}

func TestClick_InputThenOutputKeepsDirection(t *testing.T) {
	r := newFakeResolver()
	out := r.add("A", "o", node.Output)
	in := r.add("B", "i", node.Input)
	var c Controller

	c.Click(r, in)
	outcome, l := c.Click(r, out)

	require.Equal(t, Linked, outcome)
	assert.Equal(t, out, l.Start)
	assert.Equal(t, in, l.End)
}

func TestClick_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		first   func(r *fakeResolver) PortRef
		second  func(r *fakeResolver) PortRef
		outcome Outcome
	}{
		{
			name:    "same node",
			first:   func(r *fakeResolver) PortRef { return r.add("A", "o", node.Output) },
			second:  func(r *fakeResolver) PortRef { return r.add("A", "i", node.Input) },
			outcome: RejectedSelfLoop,
		},
		{
			name:    "two outputs",
			first:   func(r *fakeResolver) PortRef { return r.add("A", "o", node.Output) },
			second:  func(r *fakeResolver) PortRef { return r.add("B", "o", node.Output) },
			outcome: RejectedSameDirection,
		},
		{
			name:    "two inputs",
			first:   func(r *fakeResolver) PortRef { return r.add("A", "i", node.Input) },
			second:  func(r *fakeResolver) PortRef { return r.add("B", "i", node.Input) },
			outcome: RejectedSameDirection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newFakeResolver()
			a, b := tt.first(r), tt.second(r)
			var c Controller

			c.Click(r, a)
			outcome, l := c.Click(r, b)

			assert.Equal(t, tt.outcome, outcome)
			assert.True(t, outcome.Rejected())
			assert.Nil(t, l)
			_, ok := c.Pending()
			assert.False(t, ok, "rejection must clear the selection")
		})
	}
}

func TestClick_SamePortTwiceStaysPending(t *testing.T) {
	r := newFakeResolver()
	out := r.add("A", "o", node.Output)
	var c Controller

	c.Click(r, out)
	outcome, l := c.Click(r, out)

	assert.Equal(t, Started, outcome)
	assert.Nil(t, l)
	pending, ok := c.Pending()
	require.True(t, ok)
	assert.Equal(t, out, pending)
}

func TestClick_IgnoredWhenUnresolvedOrRenaming(t *testing.T) {
	r := newFakeResolver()
	out := r.add("A", "o", node.Output)
	var c Controller

	outcome, _ := c.Click(r, PortRef{Node: "ghost", Port: "p"})
	assert.Equal(t, Ignored, outcome)

	r.renaming[out] = true
	outcome, _ = c.Click(r, out)
	assert.Equal(t, Ignored, outcome)
	_, ok := c.Pending()
	assert.False(t, ok)
}

func TestClick_StaleFirstEndpointRestarts(t *testing.T) {
	r := newFakeResolver()
	out := r.add("A", "o", node.Output)
	in := r.add("B", "i", node.Input)
	var c Controller

	c.Click(r, out)
	delete(r.dirs, out)
	outcome, l := c.Click(r, in)

	assert.Equal(t, Started, outcome)
	assert.Nil(t, l)
	pending, _ := c.Pending()
	assert.Equal(t, in, pending)
}

func TestCancel(t *testing.T) {
	r := newFakeResolver()
	out := r.add("A", "o", node.Output)
	other := r.add("B", "i", node.Input)
	var c Controller

	assert.False(t, c.Cancel())
	c.Click(r, out)
	assert.False(t, c.CancelIf(other))
	assert.True(t, c.CancelIf(out))
	_, ok := c.Pending()
	assert.False(t, ok)

	c.Click(r, out)
	assert.True(t, c.Cancel())
	_, ok = c.Pending()
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	r := newFakeResolver()
	out := r.add("A", "o", node.Output)
	var c Controller

	c.Click(r, out)
	assert.False(t, c.Validate(r))
	delete(r.dirs, out)
	assert.True(t, c.Validate(r))
	_, ok := c.Pending()
	assert.False(t, ok)
}

func TestPreview(t *testing.T) {
	r := newFakeResolver()
	out := r.add("A", "o", node.Output)
	r.anchors[out] = node.Point{X: 10, Y: 20}
	var c Controller

	_, ok := c.Preview(r.anchor, node.Point{X: 1, Y: 1})
	assert.False(t, ok)

	c.Click(r, out)
	seg, ok := c.Preview(r.anchor, node.Point{X: 50, Y: 60})
	require.True(t, ok)
	assert.Equal(t, Segment{From: node.Point{X: 10, Y: 20}, To: node.Point{X: 50, Y: 60}}, seg)

	seg, _ = c.Preview(r.anchor, node.Point{X: 70, Y: 80})
	assert.Equal(t, node.Point{X: 70, Y: 80}, seg.To, "preview follows the pointer")
}

func TestPair(t *testing.T) {
	a := PortRef{Node: "A", Port: "o"}
	b := PortRef{Node: "B", Port: "i"}

	l, err := Pair(b, node.Input, a, node.Output)
	require.NoError(t, err)
	assert.Equal(t, a, l.Start)
	assert.Equal(t, b, l.End)
	assert.True(t, l.Touches("A"))
	assert.True(t, l.Touches("B"))
	assert.False(t, l.Touches("C"))

	_, err = Pair(a, node.Output, PortRef{Node: "A", Port: "i"}, node.Input)
	assert.ErrorIs(t, err, ErrSelfLoop)
	assert.ErrorIs(t, err, ErrInvalidPairing)

	_, err = Pair(a, node.Output, PortRef{Node: "B", Port: "o"}, node.Output)
	assert.ErrorIs(t, err, ErrSameDirection)
	assert.ErrorIs(t, err, ErrInvalidPairing)
}
