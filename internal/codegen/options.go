package codegen

import (
	"log/slog"
	"strings"
)

type SubstitutionMode string

const (
	// SinglePass substitutes all placeholders in one scan.
	SinglePass SubstitutionMode = "single-pass"
	// Chained applies each key on the output of the previous one.
	Chained SubstitutionMode = "chained"
)

type ClientMethodMode string

const (
	// FirstMethodPerPath renders only the first method declared under a path.
	FirstMethodPerPath ClientMethodMode = "first"
	// AllMethods renders every operation of every path.
	AllMethods ClientMethodMode = "all"
)

type MissingTypePolicy string

const (
	MissingTypeFallback MissingTypePolicy = "fallback"
	MissingTypeError    MissingTypePolicy = "error"
)

type ServerLabelPolicy string

const (
	ServerLabelIgnore ServerLabelPolicy = "ignore"
	ServerLabelError  ServerLabelPolicy = "error"
)

type DuplicatePolicy string

const (
	DuplicateError DuplicatePolicy = "error"
	// DuplicateFirstWins keeps the first operation with a given operationId.
	DuplicateFirstWins DuplicatePolicy = "first"
	// DuplicateLastWins keeps the last operation, at the first one's position.
	DuplicateLastWins DuplicatePolicy = "last"
	// DuplicateKeepAll renders every operation, colliding names included.
	DuplicateKeepAll DuplicatePolicy = "keep"
)

// Options selects the behavior of a Renderer. The zero value is usable and
// equals DefaultOptions.
type Options struct {
	Substitution           SubstitutionMode
	ClientMethods          ClientMethodMode
	OnMissingTypeRef       MissingTypePolicy
	OnUnmatchedServerLabel ServerLabelPolicy
	OnDuplicateOperation   DuplicatePolicy
	// Workers bounds parallel rendering of operations; 0 or 1 renders sequentially.
	Workers int
	Logger  *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Substitution:           SinglePass,
		ClientMethods:          FirstMethodPerPath,
		OnMissingTypeRef:       MissingTypeFallback,
		OnUnmatchedServerLabel: ServerLabelIgnore,
		OnDuplicateOperation:   DuplicateError,
	}
}

// normalize lowercases policy values and fills unset fields with their
// defaults.
func (o *Options) normalize() {
	d := DefaultOptions()
	o.Substitution = policyValue(o.Substitution, d.Substitution)
	o.ClientMethods = policyValue(o.ClientMethods, d.ClientMethods)
	o.OnMissingTypeRef = policyValue(o.OnMissingTypeRef, d.OnMissingTypeRef)
	o.OnUnmatchedServerLabel = policyValue(o.OnUnmatchedServerLabel, d.OnUnmatchedServerLabel)
	o.OnDuplicateOperation = policyValue(o.OnDuplicateOperation, d.OnDuplicateOperation)
}

func policyValue[T ~string](v, def T) T {
	v = T(strings.ToLower(strings.TrimSpace(string(v))))
	if v == "" {
		return def
	}
	return v
}

// Validate reports the first unknown policy value.
func (o Options) Validate() error {
	o.normalize()
	checks := []struct {
		name    string
		value   string
		allowed []string
	}{
		{"substitution mode", string(o.Substitution), []string{string(SinglePass), string(Chained)}},
		{"client methods mode", string(o.ClientMethods), []string{string(FirstMethodPerPath), string(AllMethods)}},
		{"missing type policy", string(o.OnMissingTypeRef), []string{string(MissingTypeFallback), string(MissingTypeError)}},
		{"server label policy", string(o.OnUnmatchedServerLabel), []string{string(ServerLabelIgnore), string(ServerLabelError)}},
		{"duplicate operation policy", string(o.OnDuplicateOperation), []string{string(DuplicateError), string(DuplicateFirstWins), string(DuplicateLastWins), string(DuplicateKeepAll)}},
	}
	for _, c := range checks {
		if !contains(c.allowed, c.value) {
			return &OptionError{Option: c.name, Value: c.value, Allowed: c.allowed}
		}
	}
	return nil
}

// Apply runs the substitution variant selected by the mode.
func (m SubstitutionMode) Apply(template string, replacements Replacements) (string, error) {
	if m == Chained {
		return SubstituteChained(template, replacements)
	}
	return Substitute(template, replacements)
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
