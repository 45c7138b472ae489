package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	capture := MustBind(
		MustLambda([]string{"c", "x"}, MustCall("add", MustReference("c"), MustReference("x"))),
		MustReference("c"),
	)

	tests := []struct {
		name string
		expr Expression
	}{
		{"constant", MustConstant(Array{Int(1), String("a"), Null{}, Bool(true)})},
		{"reference", MustReference("price")},
		{"call", MustCall("coalesce", MustReference("x"), intConst(0))},
		{"lambda", MustLambda([]string{"x"}, MustComparison(OpLessThan, MustReference("x"), intConst(10)))},
		{"bind", MustBind(MustReference("f"), intConst(1), intConst(2))},
		{"empty bind", MustBind(MustReference("g"))},
		{"bind over bind", MustBind(MustBind(MustReference("f"), intConst(1)), intConst(2))},
		{"desugared capture", capture},
		{"logical of comparisons", MustLogical(OpAnd,
			MustComparison(OpEqual, MustReference("x"), intConst(1)),
			MustComparison(OpNotEqual, MustReference("y"), MustConstant(String("n"))))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.expr)
			require.NoError(t, err)

			decoded, err := Decode(data)
			require.NoError(t, err)

			assert.True(t, Equal(tt.expr, decoded), "round trip must preserve structural equality")
			assert.Equal(t, MustFingerprint(tt.expr), MustFingerprint(decoded))
		})
	}
}

func TestBindEncodedShape(t *testing.T) {
	// The wire form is a tagged record with exactly the two named fields.
	data, err := Encode(MustBind(MustReference("f"), intConst(1)))
	require.NoError(t, err)

	var record map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &record))

	assert.Len(t, record, 3)
	assert.Contains(t, record, "@type")
	assert.Contains(t, record, "values")
	assert.Contains(t, record, "function")
	assert.JSONEq(t, `"bind"`, string(record["@type"]))
}

func TestDecodeRejectsBindMissingFunction(t *testing.T) {
	_, err := Decode([]byte(`{"@type":"bind","values":[]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"function"`)
}

func TestDecodeRejectsBindMissingValues(t *testing.T) {
	_, err := Decode([]byte(`{"@type":"bind","function":{"@type":"reference","name":"f"}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"values"`)
}

func TestDecodeRejectsNullValuesField(t *testing.T) {
	// An explicit null is not an empty sequence; it gets the same
	// treatment as an absent field.
	_, err := Decode([]byte(`{"@type":"bind","values":null,"function":{"@type":"reference","name":"f"}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"values"`)
}

func TestDecodeRejectsNullArrayFields(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"call null args", `{"@type":"call","function":"f","args":null}`},
		{"lambda null parameters", `{"@type":"lambda","parameters":null,"body":{"@type":"reference","name":"x"}}`},
		{"logical null terms", `{"@type":"logical","op":"AND","terms":null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestDecodeRejectsMalformedRecords(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing tag", `{"name":"f"}`},
		{"unknown tag", `{"@type":"window"}`},
		{"non-string tag", `{"@type":7}`},
		{"reference missing name", `{"@type":"reference"}`},
		{"call missing args", `{"@type":"call","function":"f"}`},
		{"lambda missing body", `{"@type":"lambda","parameters":["x"]}`},
		{"comparison unknown op", `{"@type":"comparison","op":"~","left":{"@type":"reference","name":"x"},"right":{"@type":"reference","name":"y"}}`},
		{"logical single term", `{"@type":"logical","op":"AND","terms":[{"@type":"reference","name":"x"}]}`},
		{"float constant", `{"@type":"constant","value":1.5}`},
		{"object constant", `{"@type":"constant","value":{"a":1}}`},
		{"not an object", `[1,2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestDecodeNestedFailurePropagates(t *testing.T) {
	// A bad record deep inside a bind's values must fail the whole decode.
	data := `{"@type":"bind","values":[{"@type":"mystery"}],"function":{"@type":"reference","name":"f"}}`
	_, err := Decode([]byte(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mystery")
}

func TestUnmarshalValueRejectsFloats(t *testing.T) {
	for _, data := range []string{"1.5", "1e3", "2E-1"} {
		_, err := UnmarshalValue([]byte(data))
		assert.Error(t, err, "float %s must be rejected", data)
	}
}

func TestUnmarshalValueInt64Boundaries(t *testing.T) {
	v, err := UnmarshalValue([]byte("9223372036854775807"))
	require.NoError(t, err)
	assert.Equal(t, Int(9223372036854775807), v)

	_, err = UnmarshalValue([]byte("9223372036854775808"))
	assert.Error(t, err, "out-of-range integers are rejected")
}
