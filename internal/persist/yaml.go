package persist

import (
	"bytes"
	"fmt"

	"github.com/specialistvlad/scriptgraph/internal/ctyconv"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// YAML stores documents as YAML. Port values are written as plain YAML
// scalars, sequences and mappings next to their HCL type expression, which
// restores lists, sets and maps on decode.
type YAML struct{}

func (YAML) Name() string      { return "yaml" }
func (YAML) Extension() string { return ".yaml" }

type yamlFile struct {
	Ordinal int        `yaml:"ordinal"`
	Nodes   []yamlNode `yaml:"nodes,omitempty"`
	Links   []yamlLink `yaml:"links,omitempty"`
}

type yamlNode struct {
	ID        string     `yaml:"id"`
	Name      string     `yaml:"name"`
	Source    string     `yaml:"source,omitempty"`
	Mode      string     `yaml:"mode,omitempty"`
	Collapsed bool       `yaml:"collapsed,omitempty"`
	Inputs    []yamlPort `yaml:"inputs,omitempty"`
	Outputs   []yamlPort `yaml:"outputs,omitempty"`
}

type yamlPort struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Type      string `yaml:"type,omitempty"`
	Value     any    `yaml:"value,omitempty"`
	ValueType string `yaml:"value_type,omitempty"`
}

type yamlLink struct {
	ID        string `yaml:"id"`
	StartNode string `yaml:"start_node"`
	StartPort string `yaml:"start_port"`
	EndNode   string `yaml:"end_node"`
	EndPort   string `yaml:"end_port"`
}

func (YAML) Encode(doc Document) ([]byte, error) {
	raw := yamlFile{Ordinal: doc.Ordinal}
	for _, n := range doc.Nodes {
		inputs, err := encodeYAMLPorts(n.Inputs)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", n.Name, err)
		}
		outputs, err := encodeYAMLPorts(n.Outputs)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", n.Name, err)
		}
		raw.Nodes = append(raw.Nodes, yamlNode{
			ID:        n.ID,
			Name:      n.Name,
			Source:    n.Source,
			Mode:      n.Mode,
			Collapsed: n.Collapsed,
			Inputs:    inputs,
			Outputs:   outputs,
		})
	}
	for _, l := range doc.Links {
		raw.Links = append(raw.Links, yamlLink(l))
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(raw); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeYAMLPorts(ports []PortDoc) ([]yamlPort, error) {
	var out []yamlPort
	for _, p := range ports {
		yp := yamlPort{ID: p.ID, Name: p.Name, Type: p.Type}
		if p.HasValue() {
			v, err := ctyconv.ToNative(p.Value)
			if err != nil {
				return nil, fmt.Errorf("port %q: %w", p.Name, err)
			}
			yp.Value = v
			yp.ValueType = ctyconv.TypeString(p.Value.Type())
		}
		out = append(out, yp)
	}
	return out, nil
}

func (YAML) Decode(data []byte, filename string) (Document, error) {
	var raw yamlFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Document{}, fmt.Errorf("failed to decode %s: %w", filename, err)
	}

	doc := Document{Ordinal: raw.Ordinal}
	for _, n := range raw.Nodes {
		inputs, err := decodeYAMLPorts(n.Inputs)
		if err != nil {
			return Document{}, fmt.Errorf("%s: node %q: %w", filename, n.Name, err)
		}
		outputs, err := decodeYAMLPorts(n.Outputs)
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

func decodeYAMLPorts(raw []yamlPort) ([]PortDoc, error) {
	var out []PortDoc
	for _, p := range raw {
		pd := PortDoc{ID: p.ID, Name: p.Name, Type: p.Type, Value: cty.NilVal}
		if p.Value != nil {
			v, err := ctyconv.FromNative(p.Value)
			if err == nil {
				v, err = ctyconv.Conform(v, p.ValueType)
			}
			if err != nil {
				return nil, fmt.Errorf("port %q value: %w", p.Name, err)
			}
			pd.Value = v
		}
		out = append(out, pd)
	}
	return out, nil
}
