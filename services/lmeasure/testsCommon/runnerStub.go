package testsCommon

import (
	"context"

	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/common"
)

// RunnerStub -
type RunnerStub struct {
	MeasureHandler func(ctx context.Context, payload string, names []string) (common.ExecutionResult, error)
	ConvertHandler func(ctx context.Context, payload string) (common.ConversionResult, error)
	BannerHandler  func(ctx context.Context) (common.ExecutionResult, error)
}

// Measure -
func (stub *RunnerStub) Measure(ctx context.Context, payload string, names []string) (common.ExecutionResult, error) {
	if stub.MeasureHandler != nil {
		return stub.MeasureHandler(ctx, payload, names)
	}

	return common.ExecutionResult{}, nil
}

// Convert -
func (stub *RunnerStub) Convert(ctx context.Context, payload string) (common.ConversionResult, error) {
	if stub.ConvertHandler != nil {
		return stub.ConvertHandler(ctx, payload)
	}

	return common.ConversionResult{}, nil
}

// Banner -
func (stub *RunnerStub) Banner(ctx context.Context) (common.ExecutionResult, error) {
	if stub.BannerHandler != nil {
		return stub.BannerHandler(ctx)
	}

	return common.ExecutionResult{}, nil
}

// IsInterfaceNil -
func (stub *RunnerStub) IsInterfaceNil() bool {
	return stub == nil
}
