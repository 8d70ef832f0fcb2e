package command

import (
	"errors"
	"fmt"

	"github.com/multiversx/mx-chain-core-go/core/check"
)

const (
	convertFlag = "-p"

	// ConvertedSuffix is appended by the tool to the input path when writing a converted file
	ConvertedSuffix = ".swc"
)

type builder struct {
	resolver MetricResolver
}

// NewBuilder creates a command builder backed by the provided catalog
func NewBuilder(resolver MetricResolver) (*builder, error) {
	if check.IfNil(resolver) {
		return nil, errors.New("nil metric resolver")
	}

	return &builder{
		resolver: resolver,
	}, nil
}

// Build returns the tool arguments computing every requested metric on inputPath.
// Names keep their order and repeated names produce repeated flags.
func (b *builder) Build(inputPath string, names []string) ([]string, error) {
	args := make([]string, 0, len(names)+1)
	for _, name := range names {
		d, err := b.resolver.Resolve(name)
		if err != nil {
			return nil, err
		}

		args = append(args, metricFlag(d.Index))
	}

	return append(args, inputPath), nil
}

// BuildConvert returns the tool arguments converting inputPath into the standard format
func (b *builder) BuildConvert(inputPath string) []string {
	return []string{convertFlag, inputPath}
}

// the trailing fields are fixed for this integration: no specificity, no distribution, 10 bins
func metricFlag(index int) string {
	return fmt.Sprintf("-f%d,0,0,10.0", index)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (b *builder) IsInterfaceNil() bool {
	return b == nil
}
