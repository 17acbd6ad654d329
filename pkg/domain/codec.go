package domain

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Wire encoding of values:
//
//	Symbol, Variable   "name", "?x"
//	Pose               [x, y, z]
//	typed handles      {"type": "conf" | "trajectory" | "ray" | "handle", ...fields}
//
// Facts are encoded as tuples: ["AtPose", "block", [-20, 0, 0]].

// Args is a positional argument tuple with a polymorphic JSON encoding.
type Args []Value

// MarshalJSON encodes every argument with EncodeValue.
func (a Args) MarshalJSON() ([]byte, error) {
	out := make([]any, len(a))
	for i, v := range a {
		out[i] = EncodeValue(v)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes every argument with DecodeValue.
func (a *Args) UnmarshalJSON(data []byte) error {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("args must be an array: %w", err)
	}
	args, err := DecodeArgs(raw)
	if err != nil {
		return err
	}
	*a = args
	return nil
}

// DecodeArgs decodes a loosely typed argument list (from JSON or YAML).
func DecodeArgs(raw []any) (Args, error) {
	args := make(Args, len(raw))
	for i, r := range raw {
		v, err := DecodeValue(r)
		if err != nil {
			return nil, fmt.Errorf("arg %d: %w", i, err)
		}
		args[i] = v
	}
	return args, nil
}

// EncodeValue converts a value to its loosely typed wire form.
func EncodeValue(v Value) any {
	switch t := v.(type) {
	case Symbol:
		return string(t)
	case Variable:
		return string(t)
	case Pose:
		return []float64{t.X, t.Y, t.Z}
	case Conf:
		positions := t.Positions
		if positions == nil {
			positions = []float64{}
		}
		return map[string]any{"type": TypeConf, "body": t.Body, "id": t.ID, "positions": positions}
	case Trajectory:
		path := make([]any, len(t.Path))
		for i, q := range t.Path {
			path[i] = EncodeValue(q)
		}
		return map[string]any{"type": TypeTrajectory, "id": t.ID, "body": t.Body, "path": path}
	case Ray:
		return map[string]any{
			"type": TypeRay, "id": t.ID, "body": t.Body, "target": t.Target,
			"start": EncodeValue(t.Start), "end": EncodeValue(t.End),
		}
	case Handle:
		return map[string]any{"type": TypeHandle, "kind": t.Type, "id": t.ID}
	case nil:
		return nil
	default:
		return map[string]any{"type": TypeHandle, "kind": fmt.Sprintf("%T", v), "id": v.String()}
	}
}

// DecodeValue converts a loosely typed wire form back into a Value.
func DecodeValue(raw any) (Value, error) {
	switch r := raw.(type) {
	case string:
		if strings.HasPrefix(r, "?") {
			return Variable(r), nil
		}
		return Symbol(r), nil
	case []float64:
		if len(r) != 3 {
			return nil, fmt.Errorf("pose needs 3 components, got %d", len(r))
		}
		return Pose{X: r[0], Y: r[1], Z: r[2]}, nil
	case []any:
		return decodePose(r)
	case map[string]any:
		return decodeTyped(r)
	case Value:
		return r, nil
	default:
		return nil, fmt.Errorf("cannot decode value of type %T", raw)
	}
}

func decodeTyped(m map[string]any) (Value, error) {
	kind, _ := m["type"].(string)
	var target Value
	switch kind {
	case TypeConf:
		var q Conf
		if err := decodeInto(m, &q); err != nil {
			return nil, err
		}
		target = q
	case TypeTrajectory:
		var t Trajectory
		if err := decodeInto(m, &t); err != nil {
			return nil, err
		}
		target = t
	case TypeRay:
		var y Ray
		if err := decodeInto(m, &y); err != nil {
			return nil, err
		}
		target = y
	case TypeHandle:
		var h Handle
		if err := decodeInto(m, &h); err != nil {
			return nil, err
		}
		target = h
	case TypePose:
		var p Pose
		if err := decodeInto(m, &p); err != nil {
			return nil, err
		}
		target = p
	case TypeSymbol, TypeVariable:
		name, _ := m["name"].(string)
		if kind == TypeVariable {
			return Variable(name), nil
		}
		return Symbol(name), nil
	default:
		return nil, fmt.Errorf("unknown value type %q", kind)
	}
	return target, nil
}

func decodeInto(m map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: poseHook,
		Result:     out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(m); err != nil {
		return fmt.Errorf("decode %T: %w", out, err)
	}
	return nil
}

var poseType = reflect.TypeOf(Pose{})

// poseHook lets nested poses use the compact [x, y, z] form.
func poseHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != poseType {
		return data, nil
	}
	if list, ok := data.([]any); ok {
		p, err := decodePose(list)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return data, nil
}

func decodePose(list []any) (Value, error) {
	if len(list) != 3 {
		return nil, fmt.Errorf("pose needs 3 components, got %d", len(list))
	}
	var xyz [3]float64
	for i, c := range list {
		f, err := toFloat(c)
		if err != nil {
			return nil, fmt.Errorf("pose component %d: %w", i, err)
		}
		xyz[i] = f
	}
	return Pose{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}

// ToFloat converts loosely typed numbers (JSON, YAML, frontmatter) to float64.
func ToFloat(v any) (float64, error) {
	return toFloat(v)
}

// MarshalJSON encodes the fact as a tuple.
func (f Fact) MarshalJSON() ([]byte, error) {
	return json.Marshal(EncodeFact(f))
}

// UnmarshalJSON decodes a tuple-encoded fact.
func (f *Fact) UnmarshalJSON(data []byte) error {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("fact must be a tuple: %w", err)
	}
	fact, err := DecodeFact(raw)
	if err != nil {
		return err
	}
	*f = fact
	return nil
}

// EncodeFact converts a fact to its tuple form.
func EncodeFact(f Fact) []any {
	out := make([]any, 0, len(f.Args)+1)
	out = append(out, f.Predicate)
	for _, a := range f.Args {
		out = append(out, EncodeValue(a))
	}
	return out
}

// DecodeFact converts a tuple back into a fact.
func DecodeFact(raw []any) (Fact, error) {
	if len(raw) == 0 {
		return Fact{}, fmt.Errorf("empty fact tuple")
	}
	pred, ok := raw[0].(string)
	if !ok {
		return Fact{}, fmt.Errorf("fact predicate must be a string, got %T", raw[0])
	}
	args, err := DecodeArgs(raw[1:])
	if err != nil {
		return Fact{}, fmt.Errorf("fact %s: %w", pred, err)
	}
	return Fact{Predicate: pred, Args: args}, nil
}

// EncodeFormula converts a goal formula to its wire form:
// atoms are tuples, {"and": [...]} and {"exists": [vars], "body": ...}.
func EncodeFormula(f Formula) any {
	switch v := f.(type) {
	case Atom:
		return EncodeFact(v.Fact)
	case And:
		children := make([]any, len(v.Children))
		for i, c := range v.Children {
			children[i] = EncodeFormula(c)
		}
		return map[string]any{"and": children}
	case Exists:
		vars := make([]string, len(v.Vars))
		for i, x := range v.Vars {
			vars[i] = string(x)
		}
		return map[string]any{"exists": vars, "body": EncodeFormula(v.Body)}
	default:
		return nil
	}
}

// EncodeCommand converts a command to a JSON-friendly map with a "kind" discriminator.
func EncodeCommand(c Command) map[string]any {
	if v, ok := c.(Value); ok {
		if m, ok := EncodeValue(v).(map[string]any); ok {
			m["kind"] = c.CommandKind()
			return m
		}
	}
	out := map[string]any{}
	data, err := json.Marshal(c)
	if err == nil {
		_ = json.Unmarshal(data, &out)
	}
	out["kind"] = c.CommandKind()
	return out
}

// EncodeCommands converts a command sequence, preserving order.
func EncodeCommands(cmds []Command) []map[string]any {
	out := make([]map[string]any, len(cmds))
	for i, c := range cmds {
		out[i] = EncodeCommand(c)
	}
	return out
}

// EncodeProblem converts a problem into the document handed to external solvers.
// Stream callbacks never leave the process: only names, kinds and hints are sent.
func EncodeProblem(p *Problem) map[string]any {
	constants := make(map[string]any, len(p.ConstantMap))
	for k, v := range p.ConstantMap {
		constants[k] = EncodeValue(v)
	}
	streams := make([]map[string]any, 0, p.Streams.Len())
	for _, name := range p.Streams.Names() {
		d, _ := p.Streams.Lookup(name)
		streams = append(streams, map[string]any{"name": d.Name, "kind": string(d.Kind), "info": d.Info})
	}
	init := make([]any, len(p.Init))
	for i, f := range p.Init {
		init[i] = EncodeFact(f)
	}
	return map[string]any{
		"name":               p.Name,
		"domain":             p.Domain.Text,
		"stream_description": p.StreamDescription.Text,
		"constants":          constants,
		"stream_mode":        string(p.Streams.Mode()),
		"streams":            streams,
		"init":               init,
		"goal":               EncodeFormula(p.Goal),
	}
}
