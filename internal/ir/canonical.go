package ir

import (
	"bytes"
	"fmt"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces the canonical encoding of an expression, the
// ONLY serialization that content hashing may consume.
//
// Differences from Encode's standard JSON output:
//  1. Field order is fixed per variant ("@type" first), with no whitespace.
//  2. Strings are NFC normalized.
//  3. No HTML escaping (< > & are written literally).
//
// The encoding contains no maps, so key ordering needs no sort; every key
// set is fixed ASCII per variant.
func MarshalCanonical(e Expression) ([]byte, error) {
	if e == nil {
		return nil, fmt.Errorf("ir: cannot canonicalize nil expression")
	}
	var buf bytes.Buffer
	if err := appendCanonical(&buf, e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func appendCanonical(buf *bytes.Buffer, e Expression) error {
	switch n := e.(type) {
	case *Constant:
		buf.WriteString(`{"@type":"constant","value":`)
		if err := appendCanonicalValue(buf, n.value); err != nil {
			return err
		}
		buf.WriteByte('}')
		return nil

	case *Reference:
		buf.WriteString(`{"@type":"reference","name":`)
		appendCanonicalString(buf, n.name)
		buf.WriteByte('}')
		return nil

	case *Call:
		buf.WriteString(`{"@type":"call","function":`)
		appendCanonicalString(buf, n.function)
		buf.WriteString(`,"args":`)
		if err := appendCanonicalExprs(buf, n.args); err != nil {
			return err
		}
		buf.WriteByte('}')
		return nil

	case *Lambda:
		buf.WriteString(`{"@type":"lambda","parameters":[`)
		for i, p := range n.parameters {
			if i > 0 {
				buf.WriteByte(',')
			}
			appendCanonicalString(buf, p)
		}
		buf.WriteString(`],"body":`)
		if err := appendCanonical(buf, n.body); err != nil {
			return err
		}
		buf.WriteByte('}')
		return nil

	case *Bind:
		buf.WriteString(`{"@type":"bind","values":`)
		if err := appendCanonicalExprs(buf, n.values); err != nil {
			return err
		}
		buf.WriteString(`,"function":`)
		if err := appendCanonical(buf, n.function); err != nil {
			return err
		}
		buf.WriteByte('}')
		return nil

	case *Comparison:
		buf.WriteString(`{"@type":"comparison","op":`)
		appendCanonicalString(buf, string(n.op))
		buf.WriteString(`,"left":`)
		if err := appendCanonical(buf, n.left); err != nil {
			return err
		}
		buf.WriteString(`,"right":`)
		if err := appendCanonical(buf, n.right); err != nil {
			return err
		}
		buf.WriteByte('}')
		return nil

	case *Logical:
		buf.WriteString(`{"@type":"logical","op":`)
		appendCanonicalString(buf, string(n.op))
		buf.WriteString(`,"terms":`)
		if err := appendCanonicalExprs(buf, n.terms); err != nil {
			return err
		}
		buf.WriteByte('}')
		return nil

	default:
		return fmt.Errorf("ir: unknown expression variant %T", e)
	}
}

func appendCanonicalExprs(buf *bytes.Buffer, exprs []Expression) error {
	buf.WriteByte('[')
	for i, e := range exprs {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := appendCanonical(buf, e); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func appendCanonicalValue(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {
	case Null:
		buf.WriteString("null")
		return nil
	case String:
		appendCanonicalString(buf, string(val))
		return nil
	case Int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
		return nil
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(val)))
		return nil
	case Array:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendCanonicalValue(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		return fmt.Errorf("ir: unknown value type %T", v)
	}
}

// appendCanonicalString writes an NFC-normalized JSON string without HTML
// escaping. Only the escapes JSON requires are emitted: quote, backslash,
// and control characters (short forms for \b \t \n \f \r, \u00XX for the
// rest).
func appendCanonicalString(buf *bytes.Buffer, s string) {
	s = norm.NFC.String(s)
	buf.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch {
			case c == '"':
				buf.WriteString(`\"`)
			case c == '\\':
				buf.WriteString(`\\`)
			case c == '\b':
				buf.WriteString(`\b`)
			case c == '\t':
				buf.WriteString(`\t`)
			case c == '\n':
				buf.WriteString(`\n`)
			case c == '\f':
				buf.WriteString(`\f`)
			case c == '\r':
				buf.WriteString(`\r`)
			case c < 0x20:
				fmt.Fprintf(buf, `\u%04x`, c)
			default:
				buf.WriteByte(c)
			}
			i++
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		buf.WriteString(s[i : i+size])
		i += size
	}
	buf.WriteByte('"')
}
