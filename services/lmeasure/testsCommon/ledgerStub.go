package testsCommon

import (
	"context"

	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/common"
)

// LedgerStub -
type LedgerStub struct {
	SaveInvocationHandler       func(ctx context.Context, record common.InvocationRecord) error
	GetOperationStatsHandler    func(ctx context.Context) ([]common.OperationStats, error)
	GetRecentInvocationsHandler func(ctx context.Context, limit int) ([]common.InvocationRecord, error)
	CloseHandler                func() error
}

// SaveInvocation -
func (stub *LedgerStub) SaveInvocation(ctx context.Context, record common.InvocationRecord) error {
	if stub.SaveInvocationHandler != nil {
		return stub.SaveInvocationHandler(ctx, record)
	}

	return nil
}

// GetOperationStats -
func (stub *LedgerStub) GetOperationStats(ctx context.Context) ([]common.OperationStats, error) {
	if stub.GetOperationStatsHandler != nil {
		return stub.GetOperationStatsHandler(ctx)
	}

	return make([]common.OperationStats, 0), nil
}

// GetRecentInvocations -
func (stub *LedgerStub) GetRecentInvocations(ctx context.Context, limit int) ([]common.InvocationRecord, error) {
	if stub.GetRecentInvocationsHandler != nil {
		return stub.GetRecentInvocationsHandler(ctx, limit)
	}

	return make([]common.InvocationRecord, 0), nil
}

// Close -
func (stub *LedgerStub) Close() error {
	if stub.CloseHandler != nil {
		return stub.CloseHandler()
	}

	return nil
}

// IsInterfaceNil -
func (stub *LedgerStub) IsInterfaceNil() bool {
	return stub == nil
}
