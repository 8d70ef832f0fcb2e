package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/command"
	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const (
	operationMeasure = "measure"
	operationConvert = "convert"
	operationVersion = "version"

	ledgerSaveTimeout = 5 * time.Second
)

// catalogCheckSample is the reconstruction measured when checking the catalog against the tool
const catalogCheckSample = `# catalog check
1 1 0.0 0.0 0.0 5.0 -1
2 3 0.0 10.0 0.0 1.0 1
3 3 5.0 20.0 0.0 0.8 2
4 3 -5.0 20.0 0.0 0.8 2
5 3 5.0 30.0 2.0 0.6 3
6 2 0.0 -10.0 0.0 0.5 1
7 2 2.0 -20.0 1.0 0.4 6
`

var log = logger.GetOrCreate("engine")

// ArgsToolEngine defines the tool engine arguments. Ledger is optional
type ArgsToolEngine struct {
	Catalog    MetricCatalog
	Runner     ToolRunner
	Classifier DiagnosticClassifier
	Ledger     InvocationLedger
}

// toolEngine turns tool runs into records or typed errors
type toolEngine struct {
	catalog    MetricCatalog
	runner     ToolRunner
	classifier DiagnosticClassifier
	ledger     InvocationLedger
}

// NewToolEngine creates a new engine instance
func NewToolEngine(args ArgsToolEngine) (*toolEngine, error) {
	if check.IfNil(args.Catalog) {
		return nil, errors.New("nil catalog")
	}
	if check.IfNil(args.Runner) {
		return nil, errors.New("nil runner")
	}
	if check.IfNil(args.Classifier) {
		return nil, errors.New("nil classifier")
	}

	return &toolEngine{
		catalog:    args.Catalog,
		runner:     args.Runner,
		classifier: args.Classifier,
		ledger:     args.Ledger,
	}, nil
}

// Measure computes the requested metrics on the payload. The records follow the tool output order
func (e *toolEngine) Measure(ctx context.Context, payload string, names []string) ([]common.MetricRecord, error) {
	start := time.Now()
	records, err := e.measure(ctx, payload, names)
	e.record(ctx, operationMeasure, len(names), start, err)

	return records, err
}

func (e *toolEngine) measure(ctx context.Context, payload string, names []string) ([]common.MetricRecord, error) {
	res, err := e.runner.Measure(ctx, payload, names)
	if err != nil {
		return nil, err
	}

	log.Trace("tool diagnostics", "stderr", string(res.Stderr))

	err = e.classifier.Classify(res.Stderr)
	if err != nil {
		return nil, err
	}

	return command.ParseResults(e.catalog, res.Stdout)
}

// Convert returns the payload converted by the tool into its standard format
func (e *toolEngine) Convert(ctx context.Context, payload string) (string, error) {
	start := time.Now()
	converted, err := e.convert(ctx, payload)
	e.record(ctx, operationConvert, 0, start, err)

	return converted, err
}

func (e *toolEngine) convert(ctx context.Context, payload string) (string, error) {
	res, err := e.runner.Convert(ctx, payload)
	if err != nil {
		return "", err
	}

	err = e.classifier.Classify(res.Execution.Stderr)
	if err != nil {
		return "", err
	}
	if !res.Produced {
		return "", common.ErrNoConvertedOutput
	}

	return string(res.Converted), nil
}

// Version returns the tool release read from its banner
func (e *toolEngine) Version(ctx context.Context) (string, error) {
	start := time.Now()
	version, err := e.version(ctx)
	e.record(ctx, operationVersion, 0, start, err)

	return version, err
}

func (e *toolEngine) version(ctx context.Context) (string, error) {
	res, err := e.runner.Banner(ctx)
	if err != nil {
		return "", err
	}

	return command.ParseVersion(res.Stderr)
}

// CheckCatalog measures every catalog metric on a bundled reconstruction and verifies that the tool
// reports exactly the requested metrics, in the requested order
func (e *toolEngine) CheckCatalog(ctx context.Context) error {
	names := e.catalog.AllNames()
	records, err := e.Measure(ctx, catalogCheckSample, names)
	if err != nil {
		return fmt.Errorf("catalog check failed: %w", err)
	}

	reported := make([]string, 0, len(records))
	for _, r := range records {
		reported = append(reported, r.Metric)
	}

	if !slices.Equal(names, reported) {
		return fmt.Errorf("catalog check failed: requested %d metrics, tool reported %d: %v",
			len(names), len(reported), firstMismatch(names, reported))
	}

	log.Info("metric catalog matches the tool", "metrics", len(names))

	return nil
}

func firstMismatch(requested []string, reported []string) string {
	for i := range requested {
		if i >= len(reported) {
			return fmt.Sprintf("missing %s at position %d", requested[i], i)
		}
		if requested[i] != reported[i] {
			return fmt.Sprintf("position %d: requested %s, got %s", i, requested[i], reported[i])
		}
	}

	return fmt.Sprintf("unexpected extra metric %s", reported[len(requested)])
}

func (e *toolEngine) record(ctx context.Context, operation string, numMetrics int, start time.Time, err error) {
	duration := time.Since(start)
	kind := common.ErrorKind(err)
	id := uuid.NewString()

	if err != nil {
		log.Debug("invocation failed", "id", id, "operation", operation, "kind", kind, "error", err)
	} else {
		log.Debug("invocation done", "id", id, "operation", operation, "duration", duration)
	}

	if check.IfNil(e.ledger) {
		return
	}

	rec := common.InvocationRecord{
		ID:         id,
		Operation:  operation,
		NumMetrics: numMetrics,
		Outcome:    kind,
		DurationMs: duration.Milliseconds(),
		RecordedAt: time.Now().Unix(),
	}
	if err != nil {
		rec.ErrorMessage = err.Error()
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ledgerSaveTimeout)
	defer cancel()

	saveErr := e.ledger.SaveInvocation(saveCtx, rec)
	if saveErr != nil {
		log.Warn("failed to save invocation", "id", id, "error", saveErr)
	}
}

// IsInterfaceNil returns true if the value under the interface is nil
func (e *toolEngine) IsInterfaceNil() bool {
	return e == nil
}
