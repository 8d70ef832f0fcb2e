package testsCommon

import (
	"context"

	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/common"
)

// ToolEngineStub -
type ToolEngineStub struct {
	MeasureHandler func(ctx context.Context, payload string, names []string) ([]common.MetricRecord, error)
	ConvertHandler func(ctx context.Context, payload string) (string, error)
	VersionHandler func(ctx context.Context) (string, error)
}

// Measure -
func (stub *ToolEngineStub) Measure(ctx context.Context, payload string, names []string) ([]common.MetricRecord, error) {
	if stub.MeasureHandler != nil {
		return stub.MeasureHandler(ctx, payload, names)
	}

	return make([]common.MetricRecord, 0), nil
}

// Convert -
func (stub *ToolEngineStub) Convert(ctx context.Context, payload string) (string, error) {
	if stub.ConvertHandler != nil {
		return stub.ConvertHandler(ctx, payload)
	}

	return "", nil
}

// Version -
func (stub *ToolEngineStub) Version(ctx context.Context) (string, error) {
	if stub.VersionHandler != nil {
		return stub.VersionHandler(ctx)
	}

	return FakeToolVersion, nil
}

// IsInterfaceNil -
func (stub *ToolEngineStub) IsInterfaceNil() bool {
	return stub == nil
}
