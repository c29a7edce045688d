package persist_test

import (
	"context"
	"testing"

	"github.com/specialistvlad/scriptgraph/internal/ctxlog"
	"github.com/specialistvlad/scriptgraph/internal/graph"
	"github.com/specialistvlad/scriptgraph/internal/link"
	"github.com/specialistvlad/scriptgraph/internal/node"
	"github.com/specialistvlad/scriptgraph/internal/persist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func testCtx() context.Context {
	return ctxlog.Discard(context.Background())
}

func portRef(n *node.Node, dir node.Direction, i int) link.PortRef {
	return link.PortRef{Node: n.ID, Port: n.Registry(dir).Ports()[i].ID}
}

// buildGraph returns a two-node graph with one link, a renamed port, a
// constant, transient state and objects awaiting the sweep.
func buildGraph(t *testing.T) (*graph.Graph, *node.Node, *node.Node) {
	t.Helper()
	ctx := testCtx()
	g := graph.New()
	a, b := g.AddNode(""), g.AddNode("")

	out := portRef(a, node.Output, 0)
	in := portRef(b, node.Input, 0)
	g.ClickPort(ctx, out)
	_, l := g.ClickPort(ctx, in)
	require.NotNil(t, l)

	require.NoError(t, g.RenamePort(out, "Total"))
	require.NoError(t, g.SetPortValue(portRef(b, node.Input, 1), cty.NumberIntVal(4)))
	require.NoError(t, g.SetPortValue(portRef(a, node.Output, 1), cty.ObjectVal(map[string]cty.Value{
		"list": cty.TupleVal([]cty.Value{cty.StringVal("x"), cty.True}),
	})))
	require.NoError(t, g.SetAnchor(out, node.Point{X: 1, Y: 2}))
	require.NoError(t, g.ToggleMode(b.ID))

	// transient state that must not be persisted
	g.ClickPort(ctx, portRef(a, node.Input, 2))
	require.NoError(t, g.BeginEdit(ctx, portRef(b, node.Output, 0), node.EditRename))
	require.NoError(t, g.DeletePort(portRef(b, node.Input, 2)))
	closed := g.AddNode("closed")
	require.NoError(t, g.CloseNode(closed.ID))

	return g, a, b
}

func TestSnapshot(t *testing.T) {
	g, a, b := buildGraph(t)

	doc := persist.Snapshot(g)

	assert.Equal(t, 3, doc.Ordinal)
	require.Len(t, doc.Nodes, 2, "closed nodes are not persisted")
	assert.Equal(t, a.ID.String(), doc.Nodes[0].ID)
	assert.Equal(t, "code", doc.Nodes[1].Mode)
	assert.Len(t, doc.Nodes[1].Inputs, 2, "staged ports are not persisted")
	assert.Equal(t, "Total", doc.Nodes[0].Outputs[0].Name)

	require.Len(t, doc.Links, 1)
	assert.Equal(t, a.ID.String(), doc.Links[0].StartNode)
	assert.Equal(t, b.ID.String(), doc.Links[0].EndNode)
}

func TestCodecs_PreserveIdentity(t *testing.T) {
	for _, codec := range []persist.Codec{persist.HCL{}, persist.YAML{}} {
		t.Run(codec.Name(), func(t *testing.T) {
			g, a, b := buildGraph(t)
			before := persist.Snapshot(g)

			data, err := codec.Encode(before)
			require.NoError(t, err)
			decoded, err := codec.Decode(data, "graph"+codec.Extension())
			require.NoError(t, err)

			restored, report, err := persist.Restore(testCtx(), decoded)
			require.NoError(t, err)
			assert.Zero(t, report.Total())

			// identity
			ra, ok := restored.Node(a.ID)
			require.True(t, ok)
			rb, ok := restored.Node(b.ID)
			require.True(t, ok)
			assert.Equal(t, a.Outputs.Names(), ra.Outputs.Names())
			assert.Equal(t, []string{"Input1", "Input2"}, rb.Inputs.Names())
			assert.Equal(t, node.ModeCode, rb.Mode)
			assert.Equal(t, a.Source, ra.Source)
			assert.Equal(t, 3, restored.Ordinal())

			// links resolve after the rename
			links := restored.Links()
			require.Len(t, links, 1)
			_, dir, ok := restored.Port(links[0].Start)
			require.True(t, ok)
			assert.Equal(t, node.Output, dir)

			// values
			p, _, _ := restored.Port(portRef(rb, node.Input, 1))
			v, ok := p.Value()
			require.True(t, ok)
			assert.True(t, v.Equals(cty.NumberIntVal(4)).True())
			p, _, _ = restored.Port(portRef(ra, node.Output, 1))
			v, ok = p.Value()
			require.True(t, ok)
			assert.Equal(t, "x", v.GetAttr("list").Index(cty.NumberIntVal(0)).AsString())

			// transient state is reset
			_, pending := restored.Pending()
			assert.False(t, pending)
			_, editing := rb.Edit()
			assert.False(t, editing)
			anchor, _ := restored.Anchor(portRef(ra, node.Output, 0))
			assert.Equal(t, node.Point{}, anchor)

			// a second encode is stable
			again, err := codec.Encode(persist.Snapshot(restored))
			require.NoError(t, err)
			assert.Equal(t, string(data), string(again))
		})
	}
}

func TestRestore_PrunesInvalidLinks(t *testing.T) {
	g, a, _ := buildGraph(t)
	doc := persist.Snapshot(g)
	doc.Links = append(doc.Links, persist.LinkDoc{
		ID:        "orphan",
		StartNode: a.ID.String(),
		StartPort: "gone",
		EndNode:   "gone",
		EndPort:   "gone",
	})

	restored, report, err := persist.Restore(testCtx(), doc)
	require.NoError(t, err)
	assert.Equal(t, 1, report.DanglingLinks)
	assert.Len(t, restored.Links(), 1)
}

func TestRestore_Errors(t *testing.T) {
	testCases := []struct {
		name string
		doc  persist.Document
	}{
		{
			name: "blank node id",
			doc:  persist.Document{Nodes: []persist.NodeDoc{{Name: "x"}}},
		},
		{
			name: "duplicate node id",
			doc:  persist.Document{Nodes: []persist.NodeDoc{{ID: "n", Name: "a"}, {ID: "n", Name: "b"}}},
		},
		{
			name: "duplicate port id across sides",
			doc: persist.Document{Nodes: []persist.NodeDoc{{
				ID:      "n",
				Inputs:  []persist.PortDoc{{ID: "p", Name: "in"}},
				Outputs: []persist.PortDoc{{ID: "p", Name: "out"}},
			}}},
		},
		{
			name: "bad mode",
			doc:  persist.Document{Nodes: []persist.NodeDoc{{ID: "n", Mode: "fancy"}}},
		},
		{
			name: "duplicate link id",
			doc:  persist.Document{Links: []persist.LinkDoc{{ID: "l"}, {ID: "l"}}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := persist.Restore(testCtx(), tc.doc)
			assert.Error(t, err)
		})
	}
}

func TestHCLDecode(t *testing.T) {
	src := `
ordinal = 1

node "n1" {
  name = "Function #1"

  input "p1" {
    name  = "Input1"
    value = [1, "two"]
  }

  input "p2" {
    name = "Input2"
  }
}
`
	doc, err := persist.HCL{}.Decode([]byte(src), "test.hcl")
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 1)
	n := doc.Nodes[0]
	assert.Equal(t, "", n.Mode)
	require.Len(t, n.Inputs, 2)
	assert.True(t, n.Inputs[0].HasValue())
	assert.False(t, n.Inputs[1].HasValue())

	g, _, err := persist.Restore(testCtx(), doc)
	require.NoError(t, err)
	restored, ok := g.Node("n1")
	require.True(t, ok)
	assert.Equal(t, node.DefaultPortType, restored.Inputs.Ports()[1].Type)

	t.Run("Errors", func(t *testing.T) {
		_, err := persist.HCL{}.Decode([]byte(`node {`), "bad.hcl")
		assert.Error(t, err)
		_, err = persist.HCL{}.Decode([]byte(`node "x" {}`), "missing.hcl")
		assert.Error(t, err, "name is required")
		_, err = persist.HCL{}.Decode([]byte("node \"x\" {\n  name = \"a\"\n  input \"p\" {\n    name = \"b\"\n    value = other\n  }\n}\n"), "var.hcl")
		assert.Error(t, err, "port values must be constants")
	})
}

func TestCodecLookup(t *testing.T) {
	c, err := persist.CodecForPath("dir/graph.YML")
	require.NoError(t, err)
	assert.Equal(t, "yaml", c.Name())

	c, err = persist.CodecForPath("graph.hcl")
	require.NoError(t, err)
	assert.Equal(t, "hcl", c.Name())

	_, err = persist.CodecForPath("graph.json")
	assert.ErrorIs(t, err, persist.ErrUnknownFormat)

	c, err = persist.CodecByName("YAML")
	require.NoError(t, err)
	assert.Equal(t, ".yaml", c.Extension())

	_, err = persist.CodecByName("toml")
	assert.ErrorIs(t, err, persist.ErrUnknownFormat)
}

func TestCodecs_PreserveValueTypes(t *testing.T) {
	values := map[string]cty.Value{
		"number":     cty.NumberFloatVal(0.1),
		"empty":      cty.StringVal(""),
		"list":       cty.ListVal([]cty.Value{cty.NumberIntVal(1)}),
		"empty list": cty.ListValEmpty(cty.String),
		"set":        cty.SetVal([]cty.Value{cty.StringVal("a"), cty.StringVal("b")}),
		"map":        cty.MapVal(map[string]cty.Value{"k": cty.True}),
		"nested": cty.ObjectVal(map[string]cty.Value{
			"xs": cty.ListVal([]cty.Value{cty.StringVal("x")}),
		}),
	}

	for _, codec := range []persist.Codec{persist.HCL{}, persist.YAML{}} {
		for name, want := range values {
			t.Run(codec.Name()+"/"+name, func(t *testing.T) {
				g := graph.New()
				n := g.AddNode("")
				ref := portRef(n, node.Input, 0)
				require.NoError(t, g.SetPortValue(ref, want))

				data, err := codec.Encode(persist.Snapshot(g))
				require.NoError(t, err)
				decoded, err := codec.Decode(data, "graph"+codec.Extension())
				require.NoError(t, err)
				restored, _, err := persist.Restore(testCtx(), decoded)
				require.NoError(t, err)

				p, _, ok := restored.Port(ref)
				require.True(t, ok)
				got, ok := p.Value()
				require.True(t, ok)
				assert.True(t, want.Type().Equals(got.Type()), "type %s, want %s", got.Type().FriendlyName(), want.Type().FriendlyName())
				assert.True(t, got.Equals(want).True(), "value %#v", got)
			})
		}
	}
}
