package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ValueType is the numeric kind the tool reports for a metric
type ValueType int

const (
	// Unknown is the zero value, catalogs reject it
	Unknown ValueType = iota
	// Integer metrics are reported as whole numbers
	Integer
	// Real metrics are reported as floating point numbers
	Real
)

// String returns the text form used in catalog files
func (vt ValueType) String() string {
	switch vt {
	case Integer:
		return "integer"
	case Real:
		return "real"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (vt ValueType) MarshalText() ([]byte, error) {
	switch vt {
	case Integer, Real:
		return []byte(vt.String()), nil
	default:
		return nil, fmt.Errorf("invalid value type %d", int(vt))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler
func (vt *ValueType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "integer", "int":
		*vt = Integer
	case "real", "float":
		*vt = Real
	default:
		return fmt.Errorf("invalid value type %q", string(text))
	}

	return nil
}

// MetricDescriptor is a catalog entry mapping a metric name to the tool's function index
type MetricDescriptor struct {
	Name  string    `json:"name" toml:"Name"`
	Index int       `json:"index" toml:"Index"`
	Type  ValueType `json:"type" toml:"Type"`
	Unit  string    `json:"units" toml:"Unit"`
}

// Value holds a number typed according to its metric descriptor
type Value struct {
	kind ValueType
	i    int64
	f    float64
}

// IntValue creates an integer value
func IntValue(i int64) Value {
	return Value{kind: Integer, i: i}
}

// RealValue creates a real value
func RealValue(f float64) Value {
	return Value{kind: Real, f: f}
}

// ParseValue decodes the raw text as the provided value type
func ParseValue(raw string, vt ValueType) (Value, error) {
	if vt == Integer {
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Value{}, err
		}

		return IntValue(i), nil
	}

	f, err := ParseReal(raw)
	if err != nil {
		return Value{}, err
	}

	return RealValue(f), nil
}

// ParseReal decodes a real number. Every spelling of NaN the tool may print (nan, -nan, NaN) is accepted
func ParseReal(raw string) (float64, error) {
	if strings.EqualFold(strings.TrimLeft(raw, "+-"), "nan") {
		return math.NaN(), nil
	}

	return strconv.ParseFloat(raw, 64)
}

// Type returns the value type
func (v Value) Type() ValueType {
	return v.kind
}

// Int returns the value as an integer, truncating reals
func (v Value) Int() int64 {
	if v.kind == Integer {
		return v.i
	}

	return int64(v.f)
}

// Float returns the value as a real
func (v Value) Float() float64 {
	if v.kind == Integer {
		return float64(v.i)
	}

	return v.f
}

// String returns the value in its natural text form
func (v Value) String() string {
	if v.kind == Integer {
		return strconv.FormatInt(v.i, 10)
	}

	return strconv.FormatFloat(v.f, 'g', -1, 64)
}

// MarshalJSON writes the value as a JSON number of its own kind. NaN and infinities have no JSON
// number form and are written as null
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == Integer {
		return []byte(strconv.FormatInt(v.i, 10)), nil
	}
	if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
		return []byte("null"), nil
	}

	return []byte(strconv.FormatFloat(v.f, 'f', -1, 64)), nil
}

// MetricRecord is one decoded row of the tool's output table
type MetricRecord struct {
	Metric        string  `json:"metric"`
	Total         Value   `json:"total"`
	NCompartments int     `json:"n_compart"`
	NExcluded     int     `json:"n_exclude"`
	Min           Value   `json:"min"`
	Avg           Value   `json:"avg"`
	Max           Value   `json:"max"`
	Unit          string  `json:"units"`
}

// Outcome describes how a tool process ended
type Outcome int

const (
	// OutcomeExited means the process ran and exited on its own, whatever its exit code
	OutcomeExited Outcome = iota
	// OutcomeTimedOut means the process was killed after exceeding the timeout
	OutcomeTimedOut
	// OutcomeSpawnFailed means the process could not be started
	OutcomeSpawnFailed
)

// String returns the outcome name
func (o Outcome) String() string {
	switch o {
	case OutcomeExited:
		return "exited"
	case OutcomeTimedOut:
		return "timed-out"
	case OutcomeSpawnFailed:
		return "spawn-failed"
	default:
		return "unknown"
	}
}

// ExecutionResult holds the captured streams of one tool run
type ExecutionResult struct {
	Stdout   []byte
	Stderr   []byte
	Outcome  Outcome
	ExitCode int
	Duration time.Duration
}

// ConversionResult holds a conversion run and the contents of the file it produced
type ConversionResult struct {
	Execution ExecutionResult
	Converted []byte
	Produced  bool
}

// InvocationRecord is the ledger entry written for every engine operation. It never holds results
type InvocationRecord struct {
	ID           string `json:"id"`
	Operation    string `json:"operation"`
	NumMetrics   int    `json:"numMetrics"`
	Outcome      string `json:"outcome"`
	DurationMs   int64  `json:"durationMs"`
	RecordedAt   int64  `json:"recordedAt"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// OperationStats aggregates ledger entries for one operation and outcome
type OperationStats struct {
	Operation     string  `json:"operation"`
	Outcome       string  `json:"outcome"`
	Count         int     `json:"count"`
	AvgDurationMs float64 `json:"avgDurationMs"`
	LastAt        int64   `json:"lastAt"`
}
