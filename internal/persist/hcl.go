package persist

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/scriptgraph/internal/ctyconv"
	"github.com/zclconf/go-cty/cty"
)

// HCL stores documents as HCL native syntax. HCL literals cannot spell a
// list, set or map, so each value is written with its type and converted
// back on decode:
//
//	ordinal = 2
//
//	node "3f0c..." {
//	  name   = "Function #1"
//	  source = "{ Output1 = Input1, Output2 = Input2 }"
//
//	  input "9a1e..." {
//	    name  = "Input1"
//	    type  = "String"
//	    value = [3]
//	    value_type = "list(number)"
//	  }
//	}
//
//	link "c41b..." {
//	  start_node = "3f0c..."
//	  ...
//	}
type HCL struct{}

func (HCL) Name() string      { return "hcl" }
func (HCL) Extension() string { return ".hcl" }

type hclFile struct {
	Ordinal int       `hcl:"ordinal,optional"`
	Nodes   []hclNode `hcl:"node,block"`
	Links   []hclLink `hcl:"link,block"`
}

type hclNode struct {
	ID        string    `hcl:"id,label"`
	Name      string    `hcl:"name"`
	Source    string    `hcl:"source,optional"`
	Mode      string    `hcl:"mode,optional"`
	Collapsed bool      `hcl:"collapsed,optional"`
	Inputs    []hclPort `hcl:"input,block"`
	Outputs   []hclPort `hcl:"output,block"`
}

type hclPort struct {
	ID        string         `hcl:"id,label"`
	Name      string         `hcl:"name"`
	Type      string         `hcl:"type,optional"`
	Value     hcl.Expression `hcl:"value,optional"`
	ValueType string         `hcl:"value_type,optional"`
}

type hclLink struct {
	ID        string `hcl:"id,label"`
	StartNode string `hcl:"start_node"`
	StartPort string `hcl:"start_port"`
	EndNode   string `hcl:"end_node"`
	EndPort   string `hcl:"end_port"`
}

// Encode writes doc with hclwrite so the output is canonically formatted.
func (HCL) Encode(doc Document) ([]byte, error) {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	body.SetAttributeValue("ordinal", cty.NumberIntVal(int64(doc.Ordinal)))

	for _, n := range doc.Nodes {
		body.AppendNewline()
		nb := body.AppendNewBlock("node", []string{n.ID}).Body()
		nb.SetAttributeValue("name", cty.StringVal(n.Name))
		nb.SetAttributeValue("source", cty.StringVal(n.Source))
		if n.Mode != "" {
			nb.SetAttributeValue("mode", cty.StringVal(n.Mode))
		}
		nb.SetAttributeValue("collapsed", cty.BoolVal(n.Collapsed))
		writePorts(nb, "input", n.Inputs)
		writePorts(nb, "output", n.Outputs)
	}

	for _, l := range doc.Links {
		body.AppendNewline()
		lb := body.AppendNewBlock("link", []string{l.ID}).Body()
		lb.SetAttributeValue("start_node", cty.StringVal(l.StartNode))
		lb.SetAttributeValue("start_port", cty.StringVal(l.StartPort))
		lb.SetAttributeValue("end_node", cty.StringVal(l.EndNode))
		lb.SetAttributeValue("end_port", cty.StringVal(l.EndPort))
	}

	return f.Bytes(), nil
}

func writePorts(body *hclwrite.Body, blockType string, ports []PortDoc) {
	for _, p := range ports {
		body.AppendNewline()
		pb := body.AppendNewBlock(blockType, []string{p.ID}).Body()
		pb.SetAttributeValue("name", cty.StringVal(p.Name))
		pb.SetAttributeValue("type", cty.StringVal(p.Type))
		if p.HasValue() {
			v, _ := p.Value.UnmarkDeep()
			pb.SetAttributeValue("value", v)
			if ts := ctyconv.TypeString(v.Type()); ts != "" {
				pb.SetAttributeValue("value_type", cty.StringVal(ts))
			}
		}
	}
}

// Decode parses an HCL document. Port values must be constant expressions.
func (HCL) Decode(data []byte, filename string) (Document, error) {
	file, diags := hclsyntax.ParseConfig(data, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return Document{}, fmt.Errorf("failed to parse %s: %w", filename, diags)
	}

	var raw hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return Document{}, fmt.Errorf("failed to decode %s: %w", filename, diags)
	}

	doc := Document{Ordinal: raw.Ordinal}
	for _, n := range raw.Nodes {
		inputs, err := readPorts(n.Inputs)
		if err != nil {
			return Document{}, fmt.Errorf("%s: node %q: %w", filename, n.Name, err)
		}
		outputs, err := readPorts(n.Outputs)
		if err != nil {
			return Document{}, fmt.Errorf("%s: node %q: %w", filename, n.Name, err)
		}
		doc.Nodes = append(doc.Nodes, NodeDoc{
			ID:        n.ID,
			Name:      n.Name,
			Source:    n.Source,
			Mode:      n.Mode,
			Collapsed: n.Collapsed,
			Inputs:    inputs,
			Outputs:   outputs,
		})
	}
	for _, l := range raw.Links {
		doc.Links = append(doc.Links, LinkDoc(l))
	}
	return doc, nil
}

func readPorts(raw []hclPort) ([]PortDoc, error) {
	var out []PortDoc
	for _, p := range raw {
		pd := PortDoc{ID: p.ID, Name: p.Name, Type: p.Type, Value: cty.NilVal}
		if p.Value != nil {
			v, diags := p.Value.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("port %q value: %w", p.Name, diags)
			}
			if !v.IsNull() {
				v, err := ctyconv.Conform(v, p.ValueType)
				if err != nil {
					return nil, fmt.Errorf("port %q value: %w", p.Name, err)
				}
				pd.Value = v
			}
		}
		out = append(out, pd)
	}
	return out, nil
}
