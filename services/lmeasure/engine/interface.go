package engine

import (
	"context"

	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/common"
)

// ToolRunner defines the process-level operations on the external tool
type ToolRunner interface {
	// Measure stages the payload, runs the tool for the provided metrics and returns the captured streams
	Measure(ctx context.Context, payload string, names []string) (common.ExecutionResult, error)

	// Convert stages the payload, runs the tool in conversion mode and returns the produced file contents
	Convert(ctx context.Context, payload string) (common.ConversionResult, error)

	// Banner runs the tool without arguments
	Banner(ctx context.Context) (common.ExecutionResult, error)

	IsInterfaceNil() bool
}

// DiagnosticClassifier defines the translation of the tool diagnostics into errors
type DiagnosticClassifier interface {
	Classify(stderr []byte) error
	IsInterfaceNil() bool
}

// MetricCatalog defines the catalog operations the engine relies on
type MetricCatalog interface {
	Resolve(name string) (common.MetricDescriptor, error)
	AllNames() []string
	IsInterfaceNil() bool
}

// InvocationLedger defines the component recording invocation outcomes
type InvocationLedger interface {
	SaveInvocation(ctx context.Context, record common.InvocationRecord) error
	IsInterfaceNil() bool
}
