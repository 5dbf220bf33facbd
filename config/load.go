package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml"

	"github.com/imzhenyu/rDSN.dist.service.flow/service"
)

// tomlManifest represents a composition manifest as it is encoded in TOML.
type tomlManifest struct {
	Composition *tomlComposition  `toml:"composition"`
	Services    []*tomlService    `toml:"service"`
	Primitives  []*tomlPrimitive  `toml:"primitive"`
	SLA         map[string]string `toml:"sla"`
}

// tomlComposition represents the top-level composition table.
type tomlComposition struct {
	Name string `toml:"name"`
}

// tomlService represents a service descriptor as it is encoded in TOML.
type tomlService struct {
	Package   string   `toml:"package"`
	URL       string   `toml:"url"`
	Name      string   `toml:"name"`
	SpecType  string   `toml:"spec-type,omitempty"`
	MainSpec  string   `toml:"main-spec,omitempty"`
	RefSpecs  []string `toml:"referenced-specs,omitempty"`
	Deployed  *bool    `toml:"deployed,omitempty"`
	Primitive *bool    `toml:"primitive,omitempty"`
	Partition *bool    `toml:"partitioned,omitempty"`
	Stateful  *bool    `toml:"stateful,omitempty"`
	Replicate *bool    `toml:"replicated,omitempty"`
}

// tomlPrimitive represents a primitive service as it is encoded in TOML.
type tomlPrimitive struct {
	Name             string `toml:"name"`
	Class            string `toml:"class"`
	ShortClass       string `toml:"short-class,omitempty"`
	MinReplicas      int    `toml:"min-replicas"`
	MaxReplicas      int    `toml:"max-replicas"`
	ReadConsistency  string `toml:"read-consistency,omitempty"`
	WriteConsistency string `toml:"write-consistency,omitempty"`
	Partition        string `toml:"partition,omitempty"`
	PartitionCount   int    `toml:"partition-count,omitempty"`
	DataSource       string `toml:"data-source,omitempty"`
	Configuration    string `toml:"configuration,omitempty"`
}

// Composition is a fully validated composition manifest.
type Composition struct {
	Name       string
	Services   []*service.Service
	Primitives []*service.PrimitiveService
	SLA        *service.SLA
}

// consistencyValues maps TOML consistency strings to enumerated levels.
var consistencyValues = map[string]service.ConsistencyLevel{
	"any":      service.ConsistencyAny,
	"eventual": service.ConsistencyEventual,
	"causal":   service.ConsistencyCausal,
	"strong":   service.ConsistencyStrong,
}

// partitionValues maps TOML partition strings to enumerated kinds.
var partitionValues = map[string]service.PartitionKind{
	"none":    service.PartitionNone,
	"fixed":   service.PartitionFixed,
	"dynamic": service.PartitionDynamic,
}

// slaMetricValues maps TOML sla keys to enumerated metrics.
var slaMetricValues = map[string]service.SLAMetric{
	"latency-99":           service.Latency99Percentile,
	"latency-95":           service.Latency95Percentile,
	"latency-90":           service.Latency90Percentile,
	"latency-50":           service.Latency50Percentile,
	"workflow-consistency": service.MetricWorkflowConsistency,
}

// workflowValues is the set of accepted workflow-consistency strings.
var workflowValues = map[string]service.WorkflowConsistency{
	"any":    service.WorkflowAny,
	"atomic": service.WorkflowAtomic,
	"acid":   service.WorkflowAcid,
}

// LoadComposition loads and validates a composition manifest.  `path` is the
// path to the manifest file.
func LoadComposition(path string) (*Composition, error) {
	buff, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	tm := &tomlManifest{}
	if err := toml.Unmarshal(buff, tm); err != nil {
		return nil, err
	}

	return convertManifest(tm)
}

// convertManifest validates a raw manifest and converts it into domain
// descriptors.
func convertManifest(tm *tomlManifest) (*Composition, error) {
	if tm.Composition == nil || tm.Composition.Name == "" {
		return nil, errors.New("manifest must name its composition")
	}

	comp := &Composition{Name: tm.Composition.Name, SLA: service.NewSLA()}

	for _, ts := range tm.Services {
		svc, err := convertService(ts)
		if err != nil {
			return nil, err
		}

		comp.Services = append(comp.Services, svc)
	}

	for _, tp := range tm.Primitives {
		ps, err := convertPrimitive(tp)
		if err != nil {
			return nil, err
		}

		comp.Primitives = append(comp.Primitives, ps)
	}

	for key, value := range tm.SLA {
		metric, ok := slaMetricValues[key]
		if !ok {
			return nil, fmt.Errorf("unknown sla metric `%s`", key)
		}

		if metric == service.MetricWorkflowConsistency {
			if _, ok := workflowValues[value]; !ok {
				return nil, fmt.Errorf("`%s` is not a valid workflow consistency", value)
			}
		}

		comp.SLA.Add(metric, value)
	}

	return comp, nil
}

// convertService converts a TOML service into a service descriptor.
func convertService(ts *tomlService) (*service.Service, error) {
	if ts.Name == "" {
		return nil, errors.New("service must specify a name")
	}

	if ts.URL == "" {
		return nil, fmt.Errorf("service `%s` must specify a url", ts.Name)
	}

	return &service.Service{
		PackageName: ts.Package,
		URL:         ts.URL,
		Name:        ts.Name,
		Property: service.ServiceProperty{
			IsDeployedAlready: ts.Deployed,
			IsPrimitive:       ts.Primitive,
			IsPartitioned:     ts.Partition,
			IsStateful:        ts.Stateful,
			IsReplicated:      ts.Replicate,
		},
		Spec: service.ServiceSpec{
			SType:               ts.SpecType,
			MainSpecFile:        ts.MainSpec,
			ReferencedSpecFiles: ts.RefSpecs,
		},
	}, nil
}

// convertPrimitive converts a TOML primitive into a primitive service
// descriptor.
func convertPrimitive(tp *tomlPrimitive) (*service.PrimitiveService, error) {
	if tp.Name == "" {
		return nil, errors.New("primitive service must specify a name")
	}

	if tp.Class == "" {
		return nil, fmt.Errorf("primitive service `%s` must specify a class", tp.Name)
	}

	shortClass := tp.ShortClass
	if shortClass == "" {
		shortClass = shortClassName(tp.Class)
	}

	ps := service.NewPrimitiveService(tp.Name, tp.Class, shortClass)

	read, write := service.ConsistencyAny, service.ConsistencyAny

	if tp.ReadConsistency != "" {
		var ok bool
		if read, ok = consistencyValues[tp.ReadConsistency]; !ok {
			return nil, fmt.Errorf("`%s` is not a valid consistency level", tp.ReadConsistency)
		}
	}

	if tp.WriteConsistency != "" {
		var ok bool
		if write, ok = consistencyValues[tp.WriteConsistency]; !ok {
			return nil, fmt.Errorf("`%s` is not a valid consistency level", tp.WriteConsistency)
		}
	}

	if tp.MinReplicas != 0 || tp.MaxReplicas != 0 {
		ps.Replicate(tp.MinReplicas, tp.MaxReplicas, read, write)
	}

	if tp.Partition != "" {
		kind, ok := partitionValues[tp.Partition]
		if !ok {
			return nil, fmt.Errorf("`%s` is not a valid partition kind", tp.Partition)
		}

		count := tp.PartitionCount
		if count == 0 {
			count = 1
		}

		ps.PartitionBy(nil, kind, count)
	}

	if tp.DataSource != "" {
		ps.DataSource(tp.DataSource)
	}

	if tp.Configuration != "" {
		ps.Configuration(tp.Configuration)
	}

	return ps, nil
}

// shortClassName trims the package qualification off a fully qualified class
// name.
func shortClassName(class string) string {
	for i := len(class) - 1; i >= 0; i-- {
		if class[i] == '.' {
			return class[i+1:]
		}
	}

	return class
}
