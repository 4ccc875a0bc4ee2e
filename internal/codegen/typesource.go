package codegen

import "context"

// OperationNameTransform maps an operationId to the identifier used in
// generated type names.
type OperationNameTransform func(operationID string) string

// IdentityOperationName keeps operationIds unchanged.
func IdentityOperationName(operationID string) string { return operationID }

// TypeBundle is the output of a TypeSource.
type TypeBundle struct {
	Imports      string
	Declarations string
	ExportTypes  []ExportType
}

// TypeSource produces TypeScript declarations for the document at location.
type TypeSource interface {
	GenerateTypes(ctx context.Context, location string, transform OperationNameTransform) (*TypeBundle, error)
}

// TypeSourceFunc adapts a function to TypeSource.
type TypeSourceFunc func(ctx context.Context, location string, transform OperationNameTransform) (*TypeBundle, error)

func (f TypeSourceFunc) GenerateTypes(ctx context.Context, location string, transform OperationNameTransform) (*TypeBundle, error) {
	return f(ctx, location, transform)
}
