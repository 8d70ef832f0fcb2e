package command

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/common"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("command")

// a data row reads: <cell> <metric> <total> <n_compart> (<n_exclude>) <min> <avg> <max> <sd>
const (
	fieldMetric = iota + 1
	fieldTotal
	fieldCompartments
	fieldExcluded
	fieldMin
	fieldAvg
	fieldMax
	fieldStdDev
	numDataFields
)

// ParseResults decodes the tool's tabular output into one record per data row, in output order.
// Blank lines and lines that do not name a catalog metric are treated as tool noise and skipped.
func ParseResults(resolver MetricResolver, stdout []byte) ([]common.MetricRecord, error) {
	records := make([]common.MetricRecord, 0)
	for lineNum, line := range bytes.Split(stdout, []byte("\n")) {
		fields := bytes.Fields(line)
		if len(fields) == 0 {
			continue
		}

		if len(fields) != numDataFields {
			if len(fields) > fieldMetric && isCatalogMetric(resolver, string(fields[fieldMetric])) {
				return nil, fmt.Errorf("%w: line %d has %d fields, expected %d",
					common.ErrMalformedOutput, lineNum+1, len(fields), numDataFields)
			}

			log.Trace("skipping output line", "line", lineNum+1, "fields", len(fields))
			continue
		}

		record, err := parseRow(resolver, fields)
		if err != nil {
			return nil, fmt.Errorf("%w on line %d", err, lineNum+1)
		}

		records = append(records, record)
	}

	return records, nil
}

func isCatalogMetric(resolver MetricResolver, name string) bool {
	_, err := resolver.Resolve(name)
	return err == nil
}

func parseRow(resolver MetricResolver, fields [][]byte) (common.MetricRecord, error) {
	metric := string(fields[fieldMetric])
	d, err := resolver.Resolve(metric)
	if err != nil {
		return common.MetricRecord{}, err
	}

	record := common.MetricRecord{
		Metric: metric,
		Unit:   d.Unit,
	}

	record.Total, err = parseTyped(fields[fieldTotal], d.Type, "total")
	if err != nil {
		return common.MetricRecord{}, err
	}
	record.Min, err = parseTyped(fields[fieldMin], d.Type, "min")
	if err != nil {
		return common.MetricRecord{}, err
	}
	record.Max, err = parseTyped(fields[fieldMax], d.Type, "max")
	if err != nil {
		return common.MetricRecord{}, err
	}

	record.Avg, err = parseTyped(fields[fieldAvg], common.Real, "avg")
	if err != nil {
		return common.MetricRecord{}, err
	}
	record.NCompartments, err = strconv.Atoi(string(fields[fieldCompartments]))
	if err != nil {
		return common.MetricRecord{}, malformed("n_compart", fields[fieldCompartments], err)
	}

	excluded := bytes.Trim(fields[fieldExcluded], "()")
	record.NExcluded, err = strconv.Atoi(string(excluded))
	if err != nil {
		return common.MetricRecord{}, malformed("n_exclude", fields[fieldExcluded], err)
	}

	return record, nil
}

func parseTyped(raw []byte, vt common.ValueType, field string) (common.Value, error) {
	v, err := common.ParseValue(string(raw), vt)
	if err != nil {
		return common.Value{}, malformed(field, raw, err)
	}

	return v, nil
}

func malformed(field string, raw []byte, err error) error {
	return fmt.Errorf("%w: field %s value %q: %v", common.ErrMalformedOutput, field, raw, err)
}
