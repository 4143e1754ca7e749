package ir

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces deterministic JSON for a save document.
// Two equal states must serialize to identical bytes, so golden files
// and content comparison stay stable across runs.
//
// Differences from standard json.Marshal:
//  1. Object keys are emitted in sorted order
//  2. Strings are NFC normalized
//  3. No floats: scores and cells are integers, fractional values error
//  4. No HTML escaping
func MarshalCanonical(doc *SaveDoc) ([]byte, error) {
	scores := make(map[string]any, len(doc.Scores))
	for memo, vals := range doc.Scores {
		list := make([]any, len(vals))
		for i, v := range vals {
			list[i] = v
		}
		scores[memo] = list
	}

	packs := make([]any, len(doc.Datapacks))
	for i, p := range doc.Datapacks {
		packs[i] = p
	}

	return marshalValue(map[string]any{
		"active_player": doc.ActivePlayer,
		"board":         doc.Board,
		"datapacks":     packs,
		"num_players":   doc.NumPlayers,
		"scores":        scores,
	})
}

func marshalValue(v any) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is forbidden in canonical save JSON")
	case string:
		return marshalString(val)
	case int:
		return []byte(strconv.FormatInt(int64(val), 10)), nil
	case int64:
		return []byte(strconv.FormatInt(val, 10)), nil
	case bool:
		if val {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case float64:
		// Board cells decoded by encoding/json arrive as float64.
		if val != float64(int64(val)) {
			return nil, fmt.Errorf("floats are forbidden in canonical save JSON: %v", val)
		}
		return []byte(strconv.FormatInt(int64(val), 10)), nil
	case []any:
		return marshalArray(val)
	case map[string]any:
		return marshalObject(val)
	default:
		return nil, fmt.Errorf("unsupported type for canonical save JSON: %T", v)
	}
}

func marshalString(s string) ([]byte, error) {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	buf.WriteByte('"')
	for _, r := range normalized {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
	return buf.Bytes(), nil
}

func marshalArray(arr []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := marshalValue(elem)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalObject(obj map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshalString(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := marshalValue(obj[k])
		if err != nil {
			return nil, fmt.Errorf("object[%q]: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
