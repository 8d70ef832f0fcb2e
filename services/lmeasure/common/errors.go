package common

import "errors"

// ErrUnknownMetric signals a requested or parsed metric name that is missing from the catalog
var ErrUnknownMetric = errors.New("unknown metric")

// ErrNoMetricsRequested signals a measurement request without any metric
var ErrNoMetricsRequested = errors.New("specify at least one metric")

// ErrUnsupportedFormat signals that the tool did not recognize the input format
var ErrUnsupportedFormat = errors.New("unsupported input format")

// ErrExecutionTimeout signals that the tool did not exit within the configured time
var ErrExecutionTimeout = errors.New("command timed out")

// ErrVersionUnavailable signals that no version could be read from the tool banner
var ErrVersionUnavailable = errors.New("unable to determine version from command output")

// ErrEncoding signals a payload that can not be written as ASCII text
var ErrEncoding = errors.New("payload is not ASCII encoded")

// ErrSpawnFailure signals that the tool executable could not be started
var ErrSpawnFailure = errors.New("unable to start command")

// ErrToolFailure signals a failure reported by the tool through its diagnostics
var ErrToolFailure = errors.New("tool reported a failure")

// ErrMalformedOutput signals a tool output line that looks like data but can not be decoded
var ErrMalformedOutput = errors.New("malformed tool output")

// ErrNoConvertedOutput signals that a conversion run did not produce its output file
var ErrNoConvertedOutput = errors.New("conversion produced no output")

var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrUnknownMetric, "UnknownMetric"},
	{ErrNoMetricsRequested, "NoMetricsRequested"},
	{ErrUnsupportedFormat, "UnsupportedFormat"},
	{ErrExecutionTimeout, "ExecutionTimeout"},
	{ErrVersionUnavailable, "VersionUnavailable"},
	{ErrEncoding, "EncodingError"},
	{ErrSpawnFailure, "SpawnFailure"},
	{ErrToolFailure, "ToolFailure"},
	{ErrMalformedOutput, "MalformedOutput"},
	{ErrNoConvertedOutput, "NoConvertedOutput"},
}

// ErrorKind returns the stable kind name of the provided error. A nil error yields "OK" and an
// error outside the taxonomy yields "Internal"
func ErrorKind(err error) string {
	if err == nil {
		return "OK"
	}

	for _, ek := range errorKinds {
		if errors.Is(err, ek.err) {
			return ek.kind
		}
	}

	return "Internal"
}

// ErrorForKind returns the sentinel error with the provided kind name
func ErrorForKind(kind string) (error, bool) {
	for _, ek := range errorKinds {
		if ek.kind == kind {
			return ek.err, true
		}
	}

	return nil, false
}
