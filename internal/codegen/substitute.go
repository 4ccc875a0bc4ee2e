package codegen

import (
	"regexp"
	"strings"
)

// Replacement pairs a regular-expression key with the literal text that
// replaces every match of it.
type Replacement struct {
	Pattern string
	Value   string
}

// Replacements is applied in order; with Substitute, earlier keys win when
// two keys match at the same position.
type Replacements []Replacement

// Placeholder returns the escaped key matching "{@name@}".
func Placeholder(name string) string {
	return regexp.QuoteMeta("{@" + name + "@}")
}

// Fill is shorthand for a Replacement of the named placeholder.
func Fill(name, value string) Replacement {
	return Replacement{Pattern: Placeholder(name), Value: value}
}

// Substitute replaces every match of every key in a single left-to-right scan
// of template. Inserted values are never rescanned.
func Substitute(template string, replacements Replacements) (string, error) {
	if len(replacements) == 0 {
		return template, nil
	}

	// groups[i] is the submatch index of the group wrapping key i.
	groups := make([]int, len(replacements))
	var alternation strings.Builder
	next := 1
	for i, r := range replacements {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return "", &PatternError{Pattern: r.Pattern, Err: err}
		}
		if i > 0 {
			alternation.WriteByte('|')
		}
		alternation.WriteString("(?:(" + r.Pattern + "))")
		groups[i] = next
		next += 1 + re.NumSubexp()
	}
	combined, err := regexp.Compile(alternation.String())
	if err != nil {
		return "", &PatternError{Pattern: alternation.String(), Err: err}
	}

	matches := combined.FindAllStringSubmatchIndex(template, -1)
	if len(matches) == 0 {
		return template, nil
	}
	var out strings.Builder
	out.Grow(len(template))
	last := 0
	for _, m := range matches {
		out.WriteString(template[last:m[0]])
		for i, g := range groups {
			if m[2*g] >= 0 {
				out.WriteString(replacements[i].Value)
				break
			}
		}
		last = m[1]
	}
	out.WriteString(template[last:])
	return out.String(), nil
}

// SubstituteChained applies each key to the output of the previous one.
// A value containing a later placeholder is expanded by that later key.
func SubstituteChained(template string, replacements Replacements) (string, error) {
	out := template
	for _, r := range replacements {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return "", &PatternError{Pattern: r.Pattern, Err: err}
		}
		out = re.ReplaceAllLiteralString(out, r.Value)
	}
	return out, nil
}
