package command

import (
	"fmt"
	"regexp"

	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/common"
)

// DiagnosticRule maps a pattern found in the tool diagnostics to the error it signals
type DiagnosticRule struct {
	Pattern *regexp.Regexp
	Err     error
	Message string
}

// DefaultRules returns the built-in diagnostic rules
func DefaultRules() []DiagnosticRule {
	return []DiagnosticRule{
		{
			Pattern: regexp.MustCompile(`File type is not supported`),
			Err:     common.ErrUnsupportedFormat,
		},
	}
}

type classifier struct {
	rules []DiagnosticRule
}

// NewClassifier creates a classifier evaluating the default rules followed by the extra ones
func NewClassifier(extra ...DiagnosticRule) (*classifier, error) {
	rules := DefaultRules()
	for i, rule := range extra {
		if rule.Pattern == nil {
			return nil, fmt.Errorf("diagnostic rule %d has no pattern", i)
		}
		if rule.Err == nil {
			return nil, fmt.Errorf("diagnostic rule %d (%s) has no error", i, rule.Pattern.String())
		}

		rules = append(rules, rule)
	}

	return &classifier{
		rules: rules,
	}, nil
}

// Classify returns the error of the first rule matching stderr, or nil when none does.
// The tool writes informational diagnostics on every run so unmatched text is not a failure.
func (c *classifier) Classify(stderr []byte) error {
	for _, rule := range c.rules {
		if !rule.Pattern.Match(stderr) {
			continue
		}

		if len(rule.Message) == 0 {
			return rule.Err
		}

		return fmt.Errorf("%w: %s", rule.Err, rule.Message)
	}

	return nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (c *classifier) IsInterfaceNil() bool {
	return c == nil
}
