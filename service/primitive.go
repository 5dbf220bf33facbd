package service

import "reflect"

// PrimitiveService describes a primitive (leaf) service: one implemented by
// a single component rather than composed from others.
type PrimitiveService struct {
	// Name is the service name within the composition.
	Name string

	// ClassName is the fully qualified implementation class name.
	ClassName string

	// ShortClassName is the class name without its package qualification.
	ShortClassName string

	// Replication degree bounds.
	MinDegree, MaxDegree int

	ReadConsistency  ConsistencyLevel
	WriteConsistency ConsistencyLevel

	// PartitionKeyType is the static type of the partition key, nil when the
	// service is unpartitioned.
	PartitionKeyType reflect.Type

	Partition PartitionKind

	PartitionCount int

	// DataSourceURI locates the backing data source, if any.
	DataSourceURI string

	// ConfigurationURI locates the service configuration, if any.
	ConfigurationURI string
}

// NewPrimitiveService creates a primitive service descriptor with the
// default attributes: consistency any, partition none, partition count 1.
func NewPrimitiveService(name, className, shortClassName string) *PrimitiveService {
	return &PrimitiveService{
		Name:           name,
		ClassName:      className,
		ShortClassName: shortClassName,
		PartitionCount: 1,
	}
}

// Replicate sets the replication degree bounds and optionally the read and
// write consistency levels (in that order; unspecified levels default to
// any).  It returns the receiver for chaining.
func (ps *PrimitiveService) Replicate(minDegree, maxDegree int, levels ...ConsistencyLevel) *PrimitiveService {
	ps.MinDegree = minDegree
	ps.MaxDegree = maxDegree

	ps.ReadConsistency = ConsistencyAny
	ps.WriteConsistency = ConsistencyAny

	if len(levels) > 0 {
		ps.ReadConsistency = levels[0]
	}
	if len(levels) > 1 {
		ps.WriteConsistency = levels[1]
	}

	return ps
}

// PartitionBy sets the partition key type, kind, and count.  Omitted options
// default to a dynamic partition of count 1.  It returns the receiver for
// chaining.
func (ps *PrimitiveService) PartitionBy(keyType reflect.Type, opts ...interface{}) *PrimitiveService {
	ps.PartitionKeyType = keyType
	ps.Partition = PartitionDynamic
	ps.PartitionCount = 1

	for _, opt := range opts {
		switch v := opt.(type) {
		case PartitionKind:
			ps.Partition = v
		case int:
			ps.PartitionCount = v
		}
	}

	return ps
}

// DataSource sets the backing data source URI and returns the receiver for
// chaining.
func (ps *PrimitiveService) DataSource(uri string) *PrimitiveService {
	ps.DataSourceURI = uri
	return ps
}

// Configuration sets the configuration URI and returns the receiver for
// chaining.
func (ps *PrimitiveService) Configuration(uri string) *PrimitiveService {
	ps.ConfigurationURI = uri
	return ps
}
