package catalog

import (
	"errors"
	"fmt"
	"os"

	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/common"
	"github.com/pelletier/go-toml/v2"
)

// catalog is the immutable registry of the metrics the tool can compute
type catalog struct {
	descriptors []common.MetricDescriptor
	byName      map[string]common.MetricDescriptor
	names       []string
}

// catalogFile maps to a TOML catalog override file
type catalogFile struct {
	Metrics []common.MetricDescriptor `toml:"Metrics"`
}

// NewCatalog validates the provided descriptors and builds a catalog keeping their declaration order
func NewCatalog(descriptors []common.MetricDescriptor) (*catalog, error) {
	if len(descriptors) == 0 {
		return nil, errors.New("empty metric catalog")
	}

	c := &catalog{
		descriptors: make([]common.MetricDescriptor, 0, len(descriptors)),
		byName:      make(map[string]common.MetricDescriptor, len(descriptors)),
		names:       make([]string, 0, len(descriptors)),
	}

	indices := make(map[int]string, len(descriptors))
	for _, d := range descriptors {
		if len(d.Name) == 0 {
			return nil, fmt.Errorf("metric with index %d has no name", d.Index)
		}
		if d.Index < 0 {
			return nil, fmt.Errorf("metric %s has negative index %d", d.Name, d.Index)
		}
		if d.Type == common.Unknown {
			return nil, fmt.Errorf("metric %s has no value type", d.Name)
		}
		if d.Type != common.Integer && d.Type != common.Real {
			return nil, fmt.Errorf("metric %s has invalid value type %d", d.Name, int(d.Type))
		}
		if _, found := c.byName[d.Name]; found {
			return nil, fmt.Errorf("duplicate metric name %s", d.Name)
		}
		if other, found := indices[d.Index]; found {
			return nil, fmt.Errorf("metrics %s and %s share index %d", other, d.Name, d.Index)
		}

		indices[d.Index] = d.Name
		c.byName[d.Name] = d
		c.descriptors = append(c.descriptors, d)
		c.names = append(c.names, d.Name)
	}

	return c, nil
}

// LoadCatalogFile reads a TOML file holding [[Metrics]] entries and builds a catalog from it
func LoadCatalogFile(filepath string) (*catalog, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file '%s': %w", filepath, err)
	}

	var cf catalogFile
	err = toml.Unmarshal(data, &cf)
	if err != nil {
		return nil, fmt.Errorf("failed to decode catalog file: %w", err)
	}

	return NewCatalog(cf.Metrics)
}

// Resolve returns the descriptor registered under the provided name
func (c *catalog) Resolve(name string) (common.MetricDescriptor, error) {
	d, found := c.byName[name]
	if !found {
		return common.MetricDescriptor{}, fmt.Errorf("%w '%s'", common.ErrUnknownMetric, name)
	}

	return d, nil
}

// AllNames returns a copy of all metric names in declaration order
func (c *catalog) AllNames() []string {
	names := make([]string, len(c.names))
	copy(names, c.names)

	return names
}

// Descriptors returns a copy of all descriptors in declaration order
func (c *catalog) Descriptors() []common.MetricDescriptor {
	descriptors := make([]common.MetricDescriptor, len(c.descriptors))
	copy(descriptors, c.descriptors)

	return descriptors
}

// IsInterfaceNil returns true if the value under the interface is nil
func (c *catalog) IsInterfaceNil() bool {
	return c == nil
}
