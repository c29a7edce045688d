package graph_test

import (
	"bytes"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/specialistvlad/scriptgraph/internal/graph"
	"github.com/specialistvlad/scriptgraph/internal/link"
	"github.com/specialistvlad/scriptgraph/internal/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweep_DeletedPortCascades(t *testing.T) {
	g := graph.New()
	a, b := g.AddNode("A"), g.AddNode("B")
	out := ref(t, a, node.Output, "Output1")
	connect(t, g, out, ref(t, b, node.Input, "Input1"))
	connect(t, g, ref(t, a, node.Output, "Output2"), ref(t, b, node.Input, "Input2"))

	require.NoError(t, g.DeletePort(out))
	_, _, ok := g.Port(out)
	require.True(t, ok, "deletion is staged")

	report := g.Sweep(testCtx())

	assert.Equal(t, 1, report.Ports)
	assert.Equal(t, 1, report.DanglingLinks)
	assert.Zero(t, report.DeletedLinks)
	_, _, ok = g.Port(out)
	assert.False(t, ok)
	assert.Equal(t, []string{"Output2"}, a.Outputs.Names())
	assert.Len(t, g.Links(), 1)
}

func TestSweep_ClosedNodeCascades(t *testing.T) {
	g := graph.New()
	a, b, c := g.AddNode("A"), g.AddNode("B"), g.AddNode("C")
	connect(t, g, ref(t, a, node.Output, "Output1"), ref(t, b, node.Input, "Input1"))
	connect(t, g, ref(t, b, node.Output, "Output1"), ref(t, c, node.Input, "Input1"))
	connect(t, g, ref(t, a, node.Output, "Output2"), ref(t, c, node.Input, "Input2"))

	require.NoError(t, g.CloseNode(b.ID))
	report := g.Sweep(testCtx())

	assert.Equal(t, 1, report.Nodes)
	assert.Equal(t, 2, report.DanglingLinks)
	_, ok := g.Node(b.ID)
	assert.False(t, ok)
	require.Len(t, g.Links(), 1)
	for _, l := range g.Links() {
		assert.False(t, l.Touches(b.ID))
	}
	assert.Len(t, g.Nodes(), 2)
}

func TestSweep_StaleSelectionDropped(t *testing.T) {
	g := graph.New()
	a, b := g.AddNode("A"), g.AddNode("B")
	out := ref(t, a, node.Output, "Output1")
	g.ClickPort(testCtx(), out)
	require.NoError(t, g.CloseNode(a.ID))

	t.Run("ClickWhileStaleRestarts", func(t *testing.T) {
		other := ref(t, b, node.Input, "Input1")
		outcome, l := g.ClickPort(testCtx(), other)
		assert.Equal(t, link.Started, outcome)
		assert.Nil(t, l)
		g.CancelPendingLink()
	})

	g.ClickPort(testCtx(), ref(t, b, node.Output, "Output1"))
	require.NoError(t, g.CloseNode(b.ID))
	report := g.Sweep(testCtx())

	assert.True(t, report.SelectionDropped)
	_, pending := g.Pending()
	assert.False(t, pending)
}

func TestSweep_EditOnDeletedPortDropped(t *testing.T) {
	g := graph.New()
	n := g.AddNode("")
	in := ref(t, n, node.Input, "Input1")
	require.NoError(t, g.BeginEdit(testCtx(), in, node.EditRename))
	require.NoError(t, g.DeletePort(in))

	report := g.Sweep(testCtx())

	assert.Equal(t, 1, report.EditsDropped)
	_, open := n.Edit()
	assert.False(t, open)
}

func TestSweep_InvalidRestoredLinks(t *testing.T) {
	g := graph.New()
	a, b := g.AddNode("A"), g.AddNode("B")
	aOut := ref(t, a, node.Output, "Output1")
	aIn := ref(t, a, node.Input, "Input1")
	bIn := ref(t, b, node.Input, "Input1")
	bOut := ref(t, b, node.Output, "Output1")

	require.NoError(t, g.RestoreLink(&link.Link{ID: "reversed", Start: bIn, End: aOut}))
	require.NoError(t, g.RestoreLink(&link.Link{ID: "self", Start: aOut, End: aIn}))
	require.NoError(t, g.RestoreLink(&link.Link{ID: "ghost", Start: link.PortRef{Node: "x", Port: "y"}, End: bIn}))
	require.NoError(t, g.RestoreLink(&link.Link{ID: "good", Start: bOut, End: aIn}))

	report := g.Sweep(testCtx())

	assert.Equal(t, 3, report.DanglingLinks)
	links := g.Links()
	require.Len(t, links, 1)
	assert.Equal(t, "good", links[0].ID.String())
}

func TestSweep_Idempotent(t *testing.T) {
	g := graph.New()
	a, b := g.AddNode("A"), g.AddNode("B")
	connect(t, g, ref(t, a, node.Output, "Output1"), ref(t, b, node.Input, "Input1"))

	g.Sweep(testCtx())
	report := g.Sweep(testCtx())

	assert.Zero(t, report.Total())
	assert.Len(t, g.Links(), 1)
}

// TestSweep_RandomEditsLeaveResolvableLinks drives a long pseudo-random mix
// of structural commands and checks after every sweep that all links join a
// live output to a live input on different nodes.
func TestSweep_RandomEditsLeaveResolvableLinks(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	g := graph.New()
	for i := 0; i < 4; i++ {
		g.AddNode("")
	}

	randomPort := func() (link.PortRef, bool) {
		nodes := g.Nodes()
		if len(nodes) == 0 {
			return link.PortRef{}, false
		}
		n := nodes[rng.Intn(len(nodes))]
		dir := node.Direction(rng.Intn(2))
		ports := n.Registry(dir).Ports()
		if len(ports) == 0 {
			return link.PortRef{}, false
		}
		return link.PortRef{Node: n.ID, Port: ports[rng.Intn(len(ports))].ID}, true
	}

	for step := 0; step < 2000; step++ {
		switch op := rng.Intn(10); {
		case op < 4:
			if r, ok := randomPort(); ok {
				g.ClickPort(testCtx(), r)
			}
		case op == 4:
			g.AddNode("")
		case op == 5:
			if nodes := g.Nodes(); len(nodes) > 0 {
				_, _ = g.AddPort(nodes[rng.Intn(len(nodes))].ID, node.Direction(rng.Intn(2)), "")
			}
		case op == 6:
			if r, ok := randomPort(); ok {
				require.NoError(t, g.DeletePort(r))
			}
		case op == 7:
			if nodes := g.Nodes(); len(nodes) > 0 && rng.Intn(3) == 0 {
				require.NoError(t, g.CloseNode(nodes[rng.Intn(len(nodes))].ID))
			}
		case op == 8:
			if links := g.Links(); len(links) > 0 {
				require.NoError(t, g.DeleteLink(links[rng.Intn(len(links))].ID))
			}
		default:
			if r, ok := randomPort(); ok {
				require.NoError(t, g.RenamePort(r, "renamed"))
			}
		}

		g.Sweep(testCtx())
		assertConsistent(t, g)
	}
}

func assertConsistent(t *testing.T, g *graph.Graph) {
	t.Helper()
	for _, l := range g.Links() {
		require.NotEqual(t, l.Start.Node, l.End.Node, "self loop %s", l.ID)
		_, dir, ok := g.Port(l.Start)
		require.True(t, ok, "start of %s does not resolve", l.ID)
		require.Equal(t, node.Output, dir)
		_, dir, ok = g.Port(l.End)
		require.True(t, ok, "end of %s does not resolve", l.ID)
		require.Equal(t, node.Input, dir)
		require.False(t, l.MarkedForDeletion)
	}
	for _, n := range g.Nodes() {
		require.True(t, n.Open)
	}
	if pending, ok := g.Pending(); ok {
		_, ok := g.Direction(pending)
		require.True(t, ok, "pending selection must resolve after a sweep")
	}
}

func TestSweepReport_LogValue(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := graph.SweepReport{Ports: 1, Nodes: 2, DanglingLinks: 3, DeletedLinks: 4, SelectionDropped: true, EditsDropped: 5}
	logger.Info("swept", "sweep", r)

	out := buf.String()
	for _, want := range []string{
		`"ports":1`,
		`"nodes":2`,
		`"dangling_links":3`,
		`"deleted_links":4`,
		`"selection_dropped":true`,
		`"edits_dropped":5`,
	} {
		assert.Contains(t, out, want)
	}
}
