package factory

import (
	"context"

	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/common"
)

// MetricCatalog defines the catalog shared by every component
type MetricCatalog interface {
	Resolve(name string) (common.MetricDescriptor, error)
	AllNames() []string
	Descriptors() []common.MetricDescriptor
	IsInterfaceNil() bool
}

// Server defines the operation of an entity able to serve requests
type Server interface {
	Start()
	Address() string
	Close() error
}

// ToolEngine defines the engine operations needed at startup
type ToolEngine interface {
	Version(ctx context.Context) (string, error)
	CheckCatalog(ctx context.Context) error
	IsInterfaceNil() bool
}
