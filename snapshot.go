package varviper

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedSnapshot reports snapshot input the decoder cannot turn
// into named values (wrong top-level shape, malformed syntax).
var ErrUnsupportedSnapshot = errors.New("unsupported snapshot")

// omap is the order-preserving intermediate for decoded objects. Both the
// JSON and YAML decoders produce it so value conversion is shared.
type omap struct {
	keys []string
	vals []any
}

// DecodeJSONSnapshot decodes a JSON object into named values, preserving
// the document's key order. Nested object order is preserved too, which is
// why this walks tokens instead of unmarshalling into a Go map.
func DecodeJSONSnapshot(data []byte) ([]NamedValue, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedSnapshot, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: top level must be a JSON object", ErrUnsupportedSnapshot)
	}
	var out []NamedValue
	index := map[string]int{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedSnapshot, err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: non-string key", ErrUnsupportedSnapshot)
		}
		raw, err := decodeJSONValue(dec)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedSnapshot, err)
		}
		v, typeName := convertValue(raw)
		out = setNamed(out, index, NamedValue{Name: key, TypeName: typeName, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedSnapshot, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after top-level object", ErrUnsupportedSnapshot)
	}
	return out, nil
}

// setNamed appends nv, or replaces the earlier entry when the snapshot
// repeats a name. Position follows the first occurrence, value the last, so
// the summary list never holds two entries competing for one content slot.
func setNamed(out []NamedValue, index map[string]int, nv NamedValue) []NamedValue {
	if i, ok := index[nv.Name]; ok {
		out[i] = nv
		return out
	}
	index[nv.Name] = len(out)
	return append(out, nv)
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := &omap{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, errors.New("non-string key")
				}
				v, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				m.keys = append(m.keys, key)
				m.vals = append(m.vals, v)
			}
			_, err := dec.Token()
			return m, err
		case '[':
			items := []any{}
			for dec.More() {
				v, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, v)
			}
			_, err := dec.Token()
			return items, err
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
	case json.Number:
		if i, err := strconv.ParseInt(string(t), 10, 64); err == nil {
			return i, nil
		}
		return t.Float64()
	default:
		// string, bool, or nil for JSON null.
		return t, nil
	}
}

// DecodeYAMLSnapshot decodes a YAML mapping into named values. yaml.Node
// is used instead of plain Unmarshal so key order survives.
func DecodeYAMLSnapshot(data []byte) ([]NamedValue, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedSnapshot, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrUnsupportedSnapshot)
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping", ErrUnsupportedSnapshot)
	}
	var out []NamedValue
	index := map[string]int{}
	for i := 0; i+1 < len(top.Content); i += 2 {
		raw, err := yamlValue(top.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedSnapshot, err)
		}
		v, typeName := convertValue(raw)
		out = setNamed(out, index, NamedValue{Name: top.Content[i].Value, TypeName: typeName, Value: v})
	}
	return out, nil
}

func yamlValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		m := &omap{}
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := yamlValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.keys = append(m.keys, n.Content[i].Value)
			m.vals = append(m.vals, v)
		}
		return m, nil
	case yaml.SequenceNode:
		items := []any{}
		for _, c := range n.Content {
			v, err := yamlValue(c)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!int":
			var i int64
			err := n.Decode(&i)
			return i, err
		case "!!float":
			var f float64
			err := n.Decode(&f)
			return f, err
		case "!!bool":
			var b bool
			err := n.Decode(&b)
			return b, err
		case "!!null":
			return nil, nil
		default:
			return n.Value, nil
		}
	default:
		return nil, fmt.Errorf("unsupported node kind %v on line %d", n.Kind, n.Line)
	}
}

// convertValue maps a decoded intermediate to its Value variant and a
// display type name. Lists are promoted to Table when they hold uniform
// flat objects, or to Array when they form a rectangular numeric nest;
// everything else stays a Sequence.
func convertValue(v any) (Value, string) {
	switch t := v.(type) {
	case *omap:
		m := Mapping{Keys: t.keys, Values: make([]Value, len(t.vals))}
		for i, item := range t.vals {
			m.Values[i], _ = convertValue(item)
		}
		return m, "map"
	case []any:
		if tbl, ok := tableFrom(t); ok {
			return tbl, "table"
		}
		if arr, ok := arrayFrom(t); ok {
			return arr, "array"
		}
		seq := Sequence{Items: make([]Value, len(t))}
		for i, item := range t {
			seq.Items[i], _ = convertValue(item)
		}
		return seq, "list"
	case string:
		return Text{Value: t}, "string"
	case bool:
		return Scalar{Value: t}, "bool"
	case int64:
		return Scalar{Value: t}, "int"
	case float64:
		return Scalar{Value: t}, "float"
	case nil:
		return Opaque{Repr: "null"}, "null"
	default:
		return Opaque{Repr: fmt.Sprintf("%v", t)}, fmt.Sprintf("%T", t)
	}
}

// tableFrom promotes a list of flat objects sharing one key set (same keys,
// same order, scalar cells only) to a Table.
func tableFrom(items []any) (Table, bool) {
	if len(items) == 0 {
		return Table{}, false
	}
	first, ok := items[0].(*omap)
	if !ok || len(first.keys) == 0 {
		return Table{}, false
	}
	cols := first.keys
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		m, ok := it.(*omap)
		if !ok || !equalKeys(m.keys, cols) {
			return Table{}, false
		}
		row := make([]string, len(cols))
		for i, cell := range m.vals {
			s, ok := cellString(cell)
			if !ok {
				return Table{}, false
			}
			row[i] = s
		}
		rows = append(rows, row)
	}
	return Table{Columns: cols, Rows: rows}, true
}

func equalKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func cellString(v any) (string, bool) {
	switch t := v.(type) {
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		return formatFloat(t), true
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case nil:
		return "", true
	default:
		return "", false
	}
}

// arrayFrom promotes a rectangular numeric nest to an n-dimensional Array.
func arrayFrom(items []any) (Array, bool) {
	shape, ok := nestShape(items)
	if !ok {
		return Array{}, false
	}
	size := 1
	for _, n := range shape {
		size *= n
	}
	data := make([]float64, 0, size)
	if !flattenNest(items, &data) {
		return Array{}, false
	}
	return Array{Shape: shape, Data: data}, true
}

func nestShape(items []any) ([]int, bool) {
	if len(items) == 0 {
		return nil, false
	}
	switch items[0].(type) {
	case int64, float64:
		for _, it := range items {
			switch it.(type) {
			case int64, float64:
			default:
				return nil, false
			}
		}
		return []int{len(items)}, true
	case []any:
		inner, ok := nestShape(items[0].([]any))
		if !ok {
			return nil, false
		}
		for _, it := range items[1:] {
			sub, ok := it.([]any)
			if !ok {
				return nil, false
			}
			s, ok := nestShape(sub)
			if !ok || !equalShape(s, inner) {
				return nil, false
			}
		}
		return append([]int{len(items)}, inner...), true
	default:
		return nil, false
	}
}

func equalShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func flattenNest(items []any, data *[]float64) bool {
	for _, it := range items {
		switch n := it.(type) {
		case int64:
			*data = append(*data, float64(n))
		case float64:
			*data = append(*data, n)
		case []any:
			if !flattenNest(n, data) {
				return false
			}
		default:
			return false
		}
	}
	return true
}
