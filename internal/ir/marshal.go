package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Variant tags used in the serialized form.
const (
	tagConstant   = "constant"
	tagReference  = "reference"
	tagCall       = "call"
	tagLambda     = "lambda"
	tagBind       = "bind"
	tagComparison = "comparison"
	tagLogical    = "logical"
)

// typeKey carries the variant tag in every serialized record.
const typeKey = "@type"

// Encode serializes an expression as a tagged JSON record. Every variant
// encodes as an object with "@type" plus one named field per node field;
// a bind encodes exactly {"@type":"bind","values":[...],"function":{...}}.
// Decode(Encode(e)) is structurally Equal to e.
func Encode(e Expression) ([]byte, error) {
	if e == nil {
		return nil, fmt.Errorf("ir: cannot encode nil expression")
	}
	switch n := e.(type) {
	case *Constant:
		v, err := MarshalValue(n.value)
		if err != nil {
			return nil, err
		}
		return json.Marshal(struct {
			Type  string          `json:"@type"`
			Value json.RawMessage `json:"value"`
		}{tagConstant, v})

	case *Reference:
		return json.Marshal(struct {
			Type string `json:"@type"`
			Name string `json:"name"`
		}{tagReference, n.name})

	case *Call:
		args, err := encodeSlice(n.args)
		if err != nil {
			return nil, fmt.Errorf("ir: encode call %q: %w", n.function, err)
		}
		return json.Marshal(struct {
			Type     string            `json:"@type"`
			Function string            `json:"function"`
			Args     []json.RawMessage `json:"args"`
		}{tagCall, n.function, args})

	case *Lambda:
		body, err := Encode(n.body)
		if err != nil {
			return nil, fmt.Errorf("ir: encode lambda body: %w", err)
		}
		return json.Marshal(struct {
			Type       string          `json:"@type"`
			Parameters []string        `json:"parameters"`
			Body       json.RawMessage `json:"body"`
		}{tagLambda, n.parameters, body})

	case *Bind:
		values, err := encodeSlice(n.values)
		if err != nil {
			return nil, fmt.Errorf("ir: encode bind values: %w", err)
		}
		function, err := Encode(n.function)
		if err != nil {
			return nil, fmt.Errorf("ir: encode bind function: %w", err)
		}
		return json.Marshal(struct {
			Type     string            `json:"@type"`
			Values   []json.RawMessage `json:"values"`
			Function json.RawMessage   `json:"function"`
		}{tagBind, values, function})

	case *Comparison:
		left, err := Encode(n.left)
		if err != nil {
			return nil, err
		}
		right, err := Encode(n.right)
		if err != nil {
			return nil, err
		}
		return json.Marshal(struct {
			Type  string          `json:"@type"`
			Op    string          `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
		}{tagComparison, string(n.op), left, right})

	case *Logical:
		terms, err := encodeSlice(n.terms)
		if err != nil {
			return nil, fmt.Errorf("ir: encode logical terms: %w", err)
		}
		return json.Marshal(struct {
			Type  string            `json:"@type"`
			Op    string            `json:"op"`
			Terms []json.RawMessage `json:"terms"`
		}{tagLogical, string(n.op), terms})

	default:
		return nil, fmt.Errorf("ir: unknown expression variant %T", e)
	}
}

// encodeSlice serializes each expression in order.
func encodeSlice(exprs []Expression) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, len(exprs))
	for i, e := range exprs {
		data, err := Encode(e)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = data
	}
	return out, nil
}

// Decode reconstructs an expression from its tagged JSON record,
// rebuilding each node through its constructor so every construction-time
// invariant is re-checked. A record with an unknown tag, or missing a
// required field (a bind missing "values" or "function" included), is
// rejected.
func Decode(data []byte) (Expression, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("ir: decode expression: %w", err)
	}

	tagRaw, ok := raw[typeKey]
	if !ok {
		return nil, fmt.Errorf("ir: expression record missing %q", typeKey)
	}
	var tag string
	if err := json.Unmarshal(tagRaw, &tag); err != nil {
		return nil, fmt.Errorf("ir: invalid %q field: %w", typeKey, err)
	}

	switch tag {
	case tagConstant:
		field, err := requireField(raw, "value", tag)
		if err != nil {
			return nil, err
		}
		v, err := UnmarshalValue(field)
		if err != nil {
			return nil, fmt.Errorf("ir: constant value: %w", err)
		}
		return NewConstant(v)

	case tagReference:
		name, err := decodeString(raw, "name", tag)
		if err != nil {
			return nil, err
		}
		return NewReference(name)

	case tagCall:
		function, err := decodeString(raw, "function", tag)
		if err != nil {
			return nil, err
		}
		args, err := decodeSlice(raw, "args", tag)
		if err != nil {
			return nil, err
		}
		return NewCall(function, args)

	case tagLambda:
		field, err := requireField(raw, "parameters", tag)
		if err != nil {
			return nil, err
		}
		if isNullLiteral(field) {
			return nil, fmt.Errorf("ir: %s field %q is null", tag, "parameters")
		}
		var parameters []string
		if err := json.Unmarshal(field, &parameters); err != nil {
			return nil, fmt.Errorf("ir: lambda parameters: %w", err)
		}
		bodyRaw, err := requireField(raw, "body", tag)
		if err != nil {
			return nil, err
		}
		body, err := Decode(bodyRaw)
		if err != nil {
			return nil, fmt.Errorf("ir: lambda body: %w", err)
		}
		return NewLambda(parameters, body)

	case tagBind:
		values, err := decodeSlice(raw, "values", tag)
		if err != nil {
			return nil, err
		}
		functionRaw, err := requireField(raw, "function", tag)
		if err != nil {
			return nil, err
		}
		function, err := Decode(functionRaw)
		if err != nil {
			return nil, fmt.Errorf("ir: bind function: %w", err)
		}
		return NewBind(values, function)

	case tagComparison:
		op, err := decodeString(raw, "op", tag)
		if err != nil {
			return nil, err
		}
		leftRaw, err := requireField(raw, "left", tag)
		if err != nil {
			return nil, err
		}
		left, err := Decode(leftRaw)
		if err != nil {
			return nil, fmt.Errorf("ir: comparison left: %w", err)
		}
		rightRaw, err := requireField(raw, "right", tag)
		if err != nil {
			return nil, err
		}
		right, err := Decode(rightRaw)
		if err != nil {
			return nil, fmt.Errorf("ir: comparison right: %w", err)
		}
		return NewComparison(ComparisonOp(op), left, right)

	case tagLogical:
		op, err := decodeString(raw, "op", tag)
		if err != nil {
			return nil, err
		}
		terms, err := decodeSlice(raw, "terms", tag)
		if err != nil {
			return nil, err
		}
		return NewLogical(LogicalOp(op), terms)

	default:
		return nil, fmt.Errorf("ir: unknown expression tag %q", tag)
	}
}

// requireField returns the named field or an error naming the variant.
func requireField(raw map[string]json.RawMessage, key, tag string) (json.RawMessage, error) {
	field, ok := raw[key]
	if !ok {
		return nil, fmt.Errorf("ir: %s record missing %q", tag, key)
	}
	return field, nil
}

// decodeString decodes a required string field.
func decodeString(raw map[string]json.RawMessage, key, tag string) (string, error) {
	field, err := requireField(raw, key, tag)
	if err != nil {
		return "", err
	}
	var s string
	if err := json.Unmarshal(field, &s); err != nil {
		return "", fmt.Errorf("ir: %s field %q: %w", tag, key, err)
	}
	return s, nil
}

// isNullLiteral reports whether a raw field is the JSON null token.
// Required array fields treat an explicit null the same as an absent
// field, so it can never be laundered into a legal empty sequence.
func isNullLiteral(field json.RawMessage) bool {
	return string(bytes.TrimSpace(field)) == "null"
}

// decodeSlice decodes a required array field of expressions.
func decodeSlice(raw map[string]json.RawMessage, key, tag string) ([]Expression, error) {
	field, err := requireField(raw, key, tag)
	if err != nil {
		return nil, err
	}
	if isNullLiteral(field) {
		return nil, fmt.Errorf("ir: %s field %q is null", tag, key)
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(field, &elems); err != nil {
		return nil, fmt.Errorf("ir: %s field %q: %w", tag, key, err)
	}
	out := make([]Expression, len(elems))
	for i, elem := range elems {
		e, err := Decode(elem)
		if err != nil {
			return nil, fmt.Errorf("ir: %s field %q element %d: %w", tag, key, i, err)
		}
		out[i] = e
	}
	return out, nil
}

// MarshalValue serializes a literal value as plain JSON.
func MarshalValue(v Value) ([]byte, error) {
	switch val := v.(type) {
	case Null:
		return []byte("null"), nil
	case String:
		return json.Marshal(string(val))
	case Int:
		return json.Marshal(int64(val))
	case Bool:
		return json.Marshal(bool(val))
	case Array:
		elems := make([]json.RawMessage, len(val))
		for i, elem := range val {
			data, err := MarshalValue(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			elems[i] = data
		}
		return json.Marshal(elems)
	default:
		return nil, fmt.Errorf("unknown value type %T", v)
	}
}

// UnmarshalValue deserializes plain JSON into a Value.
// Floats are rejected; numbers must fit int64.
func UnmarshalValue(data []byte) (Value, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty JSON value")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return String(s), nil

	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		return Bool(b), nil

	case 'n':
		// null becomes Null (not nil) to satisfy the sealed interface
		return Null{}, nil

	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(data, &elems); err != nil {
			return nil, err
		}
		arr := make(Array, len(elems))
		for i, elem := range elems {
			v, err := UnmarshalValue(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = v
		}
		return arr, nil

	case '{':
		return nil, fmt.Errorf("objects are not valid literal values")

	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		s := n.String()
		if strings.ContainsAny(s, ".eE") {
			return nil, fmt.Errorf("floats are forbidden in the IR: %s", s)
		}
		i, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("number out of int64 range: %s", s)
		}
		return Int(i), nil
	}
}
