package command

import "github.com/iulianpascalau/lmeasure-svc/services/lmeasure/common"

// MetricResolver defines the catalog lookup used to build commands and decode results
type MetricResolver interface {
	Resolve(name string) (common.MetricDescriptor, error)
	IsInterfaceNil() bool
}
