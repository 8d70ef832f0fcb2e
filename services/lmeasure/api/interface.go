package api

import (
	"context"

	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/common"
)

// ToolEngine defines the tool operations exposed over HTTP
type ToolEngine interface {
	// Measure computes the named metrics on the reconstruction payload
	Measure(ctx context.Context, payload string, names []string) ([]common.MetricRecord, error)

	// Convert returns the reconstruction payload converted into the tool's standard format
	Convert(ctx context.Context, payload string) (string, error)

	// Version returns the tool release
	Version(ctx context.Context) (string, error)

	IsInterfaceNil() bool
}

// MetricCatalog defines the catalog queries used to describe and default requests
type MetricCatalog interface {
	AllNames() []string
	Descriptors() []common.MetricDescriptor
	IsInterfaceNil() bool
}

// InvocationLedger defines the read side of the invocation ledger
type InvocationLedger interface {
	GetOperationStats(ctx context.Context) ([]common.OperationStats, error)
	GetRecentInvocations(ctx context.Context, limit int) ([]common.InvocationRecord, error)
	IsInterfaceNil() bool
}
