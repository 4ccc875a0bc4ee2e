package tsemitter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var scopePrefix = regexp.MustCompile(`@.+/`)

// ProjectNames are the spellings of the project name used by the templates.
type ProjectNames struct {
	Project     string // package name without scope and first "-sdk"
	Underscored string
	Camel       string
	Lower       string
	Upper       string
}

// DeriveProjectNames computes ProjectNames from an npm package name such as
// "@acme/pet-store-sdk".
func DeriveProjectNames(packageName string) ProjectNames {
	project := scopePrefix.ReplaceAllString(packageName, "")
	project = strings.Replace(project, "-sdk", "", 1)
	underscored := strings.ReplaceAll(project, "-", "_")
	return ProjectNames{
		Project:     project,
		Underscored: underscored,
		Camel:       camelCase(project),
		Lower:       cases.Lower(language.Und).String(underscored),
		Upper:       cases.Upper(language.Und).String(underscored),
	}
}

// camelCase lower-cases the first word and title-cases the rest. Words are
// split on separators and on lower-to-upper transitions.
func camelCase(s string) string {
	words := splitWords(s)
	if len(words) == 0 {
		return ""
	}
	lower := cases.Lower(language.Und)
	title := cases.Title(language.Und)
	var b strings.Builder
	b.WriteString(lower.String(words[0]))
	for _, w := range words[1:] {
		b.WriteString(title.String(w))
	}
	return b.String()
}

func splitWords(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}
