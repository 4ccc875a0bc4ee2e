package tsemitter

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-json-experiment/json/jsontext"
)

type jsonField struct {
	name  string
	value string
}

// patchPackageJSON sets string fields on the top-level object of data.
// Existing keys keep their position; missing ones are appended in order.
func patchPackageJSON(data []byte, fields []jsonField) ([]byte, error) {
	pending := make(map[string]string, len(fields))
	for _, f := range fields {
		pending[f.name] = f.value
	}

	dec := jsontext.NewDecoder(bytes.NewReader(data))
	var buf bytes.Buffer
	enc := jsontext.NewEncoder(&buf, jsontext.WithIndent("  "))

	tok, err := dec.ReadToken()
	if err != nil {
		return nil, fmt.Errorf("package.json: %w", err)
	}
	if tok.Kind() != '{' {
		return nil, errors.New("package.json: top-level value is not an object")
	}
	if err := enc.WriteToken(jsontext.ObjectStart); err != nil {
		return nil, err
	}
	for {
		switch dec.PeekKind() {
		case '}':
			if _, err := dec.ReadToken(); err != nil {
				return nil, fmt.Errorf("package.json: %w", err)
			}
			for _, f := range fields {
				v, ok := pending[f.name]
				if !ok {
					continue
				}
				if err := writeStringField(enc, f.name, v); err != nil {
					return nil, err
				}
				delete(pending, f.name)
			}
			if err := enc.WriteToken(jsontext.ObjectEnd); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		case 0:
			_, err := dec.ReadToken()
			return nil, fmt.Errorf("package.json: %w", err)
		}

		keyTok, err := dec.ReadToken()
		if err != nil {
			return nil, fmt.Errorf("package.json: %w", err)
		}
		key := keyTok.String()
		value, err := dec.ReadValue()
		if err != nil {
			return nil, fmt.Errorf("package.json: %s: %w", key, err)
		}
		if v, ok := pending[key]; ok {
			if err := writeStringField(enc, key, v); err != nil {
				return nil, err
			}
			delete(pending, key)
			continue
		}
		if err := enc.WriteToken(jsontext.String(key)); err != nil {
			return nil, err
		}
		if err := enc.WriteValue(value); err != nil {
			return nil, err
		}
	}
}

func writeStringField(enc *jsontext.Encoder, name, value string) error {
	if err := enc.WriteToken(jsontext.String(name)); err != nil {
		return err
	}
	return enc.WriteToken(jsontext.String(value))
}
