// Blackjack
// Copyright (C) the blackjack contributors
//
// Licensed under the MIT license. See the LICENSE file in the repository
// root for the full license text.

package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v2"

	"github.com/blackjack3d/blackjack/document"
	"github.com/blackjack3d/blackjack/graphmodel"
	"github.com/blackjack3d/blackjack/interp"
	"github.com/blackjack3d/blackjack/mesh"
	"github.com/blackjack3d/blackjack/metrics"
	_ "github.com/blackjack3d/blackjack/opset" // registers the built-in node library
	"github.com/blackjack3d/blackjack/util"
	"github.com/blackjack3d/blackjack/util/errwrap"
	"github.com/blackjack3d/blackjack/vmath"
)

// EvalArgs is the "eval" subcommand: compile a graph document, run it, and
// write its resulting mesh out as a Wavefront OBJ-style triangle dump.
type EvalArgs struct {
	File   string `arg:"positional,required" help:"graph document YAML file"`
	Params string `arg:"--params" help:"external parameters YAML file (node -> input -> value)"`
	Output string `arg:"--output" help:"output .obj path, or - for stdout"`
}

// externalValues is the on-disk shape of an --params file: one entry per
// node name, one entry per input name within it.
type externalValues map[string]map[string]yamlValue

// yamlValue is a loosely-typed external parameter value: either a bare
// number/string, or a 3-element list for a vector.
type yamlValue struct {
	scalar interface{}
	vector []float64
}

func (v *yamlValue) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var list []float64
	if err := unmarshal(&list); err == nil {
		v.vector = list
		return nil
	}
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	v.scalar = raw
	return nil
}

func (v yamlValue) resolve(dt graphmodel.DataType) (interface{}, error) {
	switch dt {
	case graphmodel.DataVector:
		if len(v.vector) != 3 {
			return nil, fmt.Errorf("expected a 3-element list for a vector value")
		}
		return vmath.Vec3{X: float32(v.vector[0]), Y: float32(v.vector[1]), Z: float32(v.vector[2])}, nil
	case graphmodel.DataScalar:
		switch n := v.scalar.(type) {
		case float64:
			return float32(n), nil
		case int:
			return float32(n), nil
		default:
			return nil, fmt.Errorf("expected a number for a scalar value, got %T", v.scalar)
		}
	case graphmodel.DataString, graphmodel.DataEnum, graphmodel.DataSelection, graphmodel.DataFile:
		s, ok := v.scalar.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string value, got %T", v.scalar)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported external data type %v", dt)
	}
}

// Run loads a.File, compiles and runs it, and writes the resulting mesh.
func (a *EvalArgs) Run(ctx context.Context) error {
	data, err := os.ReadFile(a.File)
	if err != nil {
		return errwrap.Wrapf(err, "eval: reading %s", a.File)
	}
	doc, err := document.Parse(data)
	if err != nil {
		return errwrap.Wrapf(err, "eval: parsing %s", a.File)
	}
	g, target, byName, err := document.Build(doc)
	if err != nil {
		return errwrap.Wrapf(err, "eval: building graph")
	}

	in := interp.NewInterpreter(g)
	in.Recorder = metrics.NewRecorder(prometheus.NewRegistry())

	// Route per-node evaluation lines through a stdlib log.Logger whose
	// output destination is util.LogWriter, adapting the interpreter's
	// Logf closure to io.Writer so it composes with log.Logger's own
	// timestamp/flag handling instead of a bespoke Fprintf call.
	logger := log.New(&util.LogWriter{
		Prefix: "eval: ",
		Logf:   func(line string, _ ...interface{}) { fmt.Fprint(os.Stderr, line) },
	}, "", 0)
	in.Logf = logger.Printf

	if a.Params != "" {
		if err := loadExternals(a.Params, g, byName, in); err != nil {
			return errwrap.Wrapf(err, "eval: loading %s", a.Params)
		}
	}

	result, err := in.Run(target)
	if err != nil {
		return errwrap.Wrapf(err, "eval: running graph")
	}
	m, ok := result.(*mesh.Mesh)
	if !ok {
		return fmt.Errorf("eval: graph's return value is a %T, not a mesh", result)
	}

	out := os.Stdout
	if a.Output != "" && a.Output != "-" {
		f, err := os.Create(a.Output)
		if err != nil {
			return errwrap.Wrapf(err, "eval: creating %s", a.Output)
		}
		defer f.Close()
		out = f
	}
	return writeOBJ(out, m)
}

// loadExternals reads a --params file and feeds each value into in, keyed
// by the node's document-declared name (byName, as returned by
// document.Build), converting it to the input's declared DataType.
func loadExternals(path string, g *graphmodel.Graph, byName map[string]graphmodel.NodeHandle, in *interp.Interpreter) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var values externalValues
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return err
	}

	for nodeName, inputs := range values {
		n, ok := byName[nodeName]
		if !ok {
			return fmt.Errorf("params file references unknown node %q", nodeName)
		}
		dataTypes := map[string]graphmodel.DataType{}
		for _, input := range g.Inputs(n) {
			dataTypes[input.Name] = input.DataType
		}
		for inputName, v := range inputs {
			dt, ok := dataTypes[inputName]
			if !ok {
				return fmt.Errorf("node %q has no input %q", nodeName, inputName)
			}
			resolved, err := v.resolve(dt)
			if err != nil {
				return fmt.Errorf("node %q input %q: %w", nodeName, inputName, err)
			}
			in.SetExternal(n, inputName, resolved)
		}
	}
	return nil
}

// writeOBJ dumps m's flat-shaded triangle buffer as a minimal Wavefront OBJ:
// vertex positions, vertex normals, and triangular faces.
func writeOBJ(w *os.File, m *mesh.Mesh) error {
	buf, err := m.TriangleBufferFlat()
	if err != nil {
		return errwrap.Wrapf(err, "eval: generating triangle buffer")
	}
	for _, p := range buf.Positions {
		if _, err := fmt.Fprintf(w, "v %f %f %f\n", p.X, p.Y, p.Z); err != nil {
			return err
		}
	}
	for _, n := range buf.Normals {
		if _, err := fmt.Fprintf(w, "vn %f %f %f\n", n.X, n.Y, n.Z); err != nil {
			return err
		}
	}
	for i := 0; i+2 < len(buf.Indices); i += 3 {
		a, b, c := buf.Indices[i]+1, buf.Indices[i+1]+1, buf.Indices[i+2]+1
		if _, err := fmt.Fprintf(w, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c); err != nil {
			return err
		}
	}
	return nil
}
