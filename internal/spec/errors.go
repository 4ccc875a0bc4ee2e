package spec

import (
	"errors"
	"fmt"
)

// ErrDocumentStructure matches every DocumentStructureError via errors.Is.
var ErrDocumentStructure = errors.New("malformed document structure")

// DocumentStructureError reports a document whose shape the extractor cannot
// walk, such as a missing paths object or a path item that is not a mapping.
type DocumentStructureError struct {
	Pointer string // JSON pointer of the offending node, e.g. "#/paths"
	Message string
	Line    int
}

func (e *DocumentStructureError) Error() string {
	msg := "document structure"
	if e.Pointer != "" {
		msg += " at " + e.Pointer
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" (line %d)", e.Line)
	}
	return msg + ": " + e.Message
}

func (e *DocumentStructureError) Is(target error) bool {
	return target == ErrDocumentStructure
}
