package typegen

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"
)

const (
	componentSchemaPrefix = "#/components/schemas/"
	maxInlineDepth        = 32
)

// tsType renders a schema as a TypeScript type expression. Nested object
// literals span several lines with two-space indentation relative to the
// expression start.
func tsType(ref *openapi3.SchemaRef, depth int) string {
	if ref == nil || depth > maxInlineDepth {
		return "any"
	}
	if name, ok := strings.CutPrefix(ref.Ref, componentSchemaPrefix); ok {
		return "Components.Schemas." + identifier(name)
	}
	s := ref.Value
	if s == nil {
		return "any"
	}
	t := valueType(s, depth)
	if (s.Nullable || s.Type.Includes(openapi3.TypeNull)) && t != "any" && t != "null" {
		t += " | null"
	}
	return t
}

func valueType(s *openapi3.Schema, depth int) string {
	switch {
	case len(s.AllOf) > 0:
		return combine(s.AllOf, " & ", depth)
	case len(s.OneOf) > 0:
		return combine(s.OneOf, " | ", depth)
	case len(s.AnyOf) > 0:
		return combine(s.AnyOf, " | ", depth)
	case len(s.Enum) > 0:
		return enumUnion(s.Enum)
	}

	switch primaryType(s) {
	case openapi3.TypeString:
		return "string"
	case openapi3.TypeInteger, openapi3.TypeNumber:
		return "number"
	case openapi3.TypeBoolean:
		return "boolean"
	case openapi3.TypeNull:
		return "null"
	case openapi3.TypeArray:
		elem := tsType(s.Items, depth+1)
		if hasTopLevelOperator(elem) {
			elem = "(" + elem + ")"
		}
		return elem + "[]"
	case openapi3.TypeObject, "":
		if len(s.Properties) > 0 {
			return objectLiteral(s, depth)
		}
		if s.Type.Is(openapi3.TypeObject) || s.AdditionalProperties.Has != nil || s.AdditionalProperties.Schema != nil {
			return "{\n" + indent("[name: string]: "+additionalType(s, depth)+";", 2) + "\n}"
		}
	}
	return "any"
}

// primaryType returns the first non-null declared type, or "".
func primaryType(s *openapi3.Schema) string {
	if s.Type == nil {
		return ""
	}
	for _, t := range *s.Type {
		if t != openapi3.TypeNull {
			return t
		}
	}
	if len(*s.Type) > 0 {
		return openapi3.TypeNull
	}
	return ""
}

func additionalType(s *openapi3.Schema, depth int) string {
	if s.AdditionalProperties.Schema != nil {
		return tsType(s.AdditionalProperties.Schema, depth+1)
	}
	return "any"
}

func combine(refs openapi3.SchemaRefs, sep string, depth int) string {
	parts := make([]string, 0, len(refs))
	for _, r := range refs {
		t := tsType(r, depth+1)
		if hasTopLevelOperator(t) {
			t = "(" + t + ")"
		}
		parts = append(parts, t)
	}
	return strings.Join(parts, sep)
}

func enumUnion(values []interface{}) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		switch x := v.(type) {
		case nil:
			parts = append(parts, "null")
		case string:
			parts = append(parts, quote(x))
		case bool, float64, float32, int, int64:
			parts = append(parts, fmt.Sprint(x))
		default:
			return "any"
		}
	}
	return strings.Join(parts, " | ")
}

// hasTopLevelOperator reports whether t contains a union or intersection
// outside of brackets.
func hasTopLevelOperator(t string) bool {
	depth := 0
	for i := 0; i < len(t); i++ {
		switch t[i] {
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}', '>':
			depth--
		case '|', '&':
			if depth == 0 {
				return true
			}
		case '\'':
			for i++; i < len(t) && t[i] != '\''; i++ {
				if t[i] == '\\' {
					i++
				}
			}
		}
	}
	return false
}

// objectLiteral renders the properties of s with sorted keys.
func objectLiteral(s *openapi3.Schema, depth int) string {
	required := make(map[string]bool, len(s.Required))
	for _, r := range s.Required {
		required[r] = true
	}
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]field, 0, len(names)+1)
	for _, name := range names {
		fields = append(fields, field{name: name, required: required[name], typ: tsType(s.Properties[name], depth+1)})
	}
	if s.AdditionalProperties.Schema != nil || (s.AdditionalProperties.Has != nil && *s.AdditionalProperties.Has) {
		fields = append(fields, field{index: true, typ: additionalType(s, depth)})
	}
	return renderFields(fields)
}

type field struct {
	name     string
	required bool
	index    bool
	typ      string
}

func renderFields(fields []field) string {
	if len(fields) == 0 {
		return "{\n}"
	}
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		var key string
		switch {
		case f.index:
			key = "[name: string]"
		case f.required:
			key = propertyName(f.name)
		default:
			key = propertyName(f.name) + "?"
		}
		lines = append(lines, indent(key+": "+f.typ+";", 2))
	}
	return "{\n" + strings.Join(lines, "\n") + "\n}"
}

// propertyName quotes names that are not valid identifiers.
func propertyName(name string) string {
	if isIdentifier(name) {
		return name
	}
	return quote(name)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || r == '$' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

// identifier makes name usable as a TypeScript type name.
func identifier(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

// pascalCase joins the alphanumeric runs of s, upper-casing the first rune of
// each run.
func pascalCase(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	out := b.String()
	if out == "" || unicode.IsDigit([]rune(out)[0]) {
		out = "_" + out
	}
	return out
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)
	return "'" + r.Replace(s) + "'"
}

func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n")
}
