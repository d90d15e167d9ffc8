// Blackjack
// Copyright (C) the blackjack contributors
//
// Licensed under the MIT license. See the LICENSE file in the repository
// root for the full license text.

// Package document implements the on-disk YAML encoding of an op graph
// (spec §6.2): a flat list of named nodes, each with its op_name, declared
// inputs/outputs and return_value, and each input's source (a connection to
// another named node's output, a computed expression, or left external).
//
// The struct shape — a top-level config object unmarshalled straight from
// YAML via yaml.v2, with Parse doing the unmarshal-then-validate two-step —
// follows the teacher repository's yamlgraph.GraphConfig.
package document

import (
	"fmt"

	"gopkg.in/yaml.v2"

	"github.com/blackjack3d/blackjack/graphmodel"
)

// dataTypeName renders a graphmodel.DataType the way document YAML spells
// it: lowercase, matching the other snake_case-ish field names in this
// format.
func dataTypeName(dt graphmodel.DataType) string {
	switch dt {
	case graphmodel.DataVector:
		return "vector"
	case graphmodel.DataScalar:
		return "scalar"
	case graphmodel.DataSelection:
		return "selection"
	case graphmodel.DataMesh:
		return "mesh"
	case graphmodel.DataString:
		return "string"
	case graphmodel.DataEnum:
		return "enum"
	case graphmodel.DataFile:
		return "file"
	default:
		return "unknown"
	}
}

func parseDataType(s string) (graphmodel.DataType, error) {
	switch s {
	case "vector":
		return graphmodel.DataVector, nil
	case "scalar":
		return graphmodel.DataScalar, nil
	case "selection":
		return graphmodel.DataSelection, nil
	case "mesh":
		return graphmodel.DataMesh, nil
	case "string":
		return graphmodel.DataString, nil
	case "enum":
		return graphmodel.DataEnum, nil
	case "file":
		return graphmodel.DataFile, nil
	default:
		return 0, fmt.Errorf("document: unknown data_type %q", s)
	}
}

// SourceConfig names a connection's upstream endpoint.
type SourceConfig struct {
	Node   string `yaml:"node"`
	Output string `yaml:"output"`
}

// InputConfig describes one input's declared type and where its value
// comes from. Exactly one of Source, Computed, or neither (meaning
// external) should be set; Promoted additionally marks whether an external
// value should be promoted to the compiled program's entry point (spec
// §4.E).
type InputConfig struct {
	Name     string        `yaml:"name"`
	DataType string        `yaml:"data_type"`
	Source   *SourceConfig `yaml:"source,omitempty"`
	Computed string        `yaml:"computed,omitempty"`
	Promoted bool          `yaml:"promoted,omitempty"`
}

// OutputConfig describes one declared output.
type OutputConfig struct {
	Name     string `yaml:"name"`
	DataType string `yaml:"data_type"`
}

// NodeConfig is one node in the document: its stable Name is how
// InputConfig.Source.Node refers back to it.
type NodeConfig struct {
	Name        string         `yaml:"name"`
	Op          string         `yaml:"op"`
	Inputs      []InputConfig  `yaml:"inputs,omitempty"`
	Outputs     []OutputConfig `yaml:"outputs,omitempty"`
	ReturnValue string         `yaml:"return_value,omitempty"`
}

// Document is a complete op graph, ready to (de)serialize to YAML and to
// build into a graphmodel.Graph.
type Document struct {
	Graph   string       `yaml:"graph"`
	Comment string       `yaml:"comment,omitempty"`
	Nodes   []NodeConfig `yaml:"nodes"`
	// Target names the node whose return_value is the document's final
	// result when it is run end to end.
	Target string `yaml:"target"`
}

// Parse unmarshals data into a Document and validates its required fields,
// the same unmarshal-then-validate shape as yamlgraph.GraphConfig.Parse.
func Parse(data []byte) (*Document, error) {
	doc := &Document{}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	if doc.Graph == "" {
		return nil, fmt.Errorf("document: invalid `graph` name")
	}
	if doc.Target == "" {
		return nil, fmt.Errorf("document: invalid `target`")
	}
	return doc, nil
}

// Marshal renders doc back to YAML.
func (doc *Document) Marshal() ([]byte, error) {
	return yaml.Marshal(doc)
}
