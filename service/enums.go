package service

// ConsistencyLevel describes the read or write ordering guarantee of a
// primitive service.
type ConsistencyLevel int

// Enumeration of consistency levels.
const (
	ConsistencyAny ConsistencyLevel = iota
	ConsistencyEventual
	ConsistencyCausal
	ConsistencyStrong
)

// Table of consistency level names.
var consistencyNames = []string{
	"any",
	"eventual",
	"causal",
	"strong",
}

func (cl ConsistencyLevel) String() string {
	if 0 <= int(cl) && int(cl) < len(consistencyNames) {
		return consistencyNames[cl]
	}

	return "unknown"
}

// PartitionKind describes how a service's state space is divided across
// machines.
type PartitionKind int

// Enumeration of partition kinds.
const (
	PartitionNone PartitionKind = iota
	PartitionFixed
	PartitionDynamic
)

// Table of partition kind names.
var partitionNames = []string{
	"none",
	"fixed",
	"dynamic",
}

func (pk PartitionKind) String() string {
	if 0 <= int(pk) && int(pk) < len(partitionNames) {
		return partitionNames[pk]
	}

	return "unknown"
}

// WorkflowConsistency describes the correctness target of a whole
// composition workflow.
type WorkflowConsistency int

// Enumeration of workflow consistency values.
const (
	WorkflowAny WorkflowConsistency = iota
	WorkflowAtomic
	WorkflowAcid
)

// Table of workflow consistency names.
var workflowNames = []string{
	"any",
	"atomic",
	"acid",
}

func (wc WorkflowConsistency) String() string {
	if 0 <= int(wc) && int(wc) < len(workflowNames) {
		return workflowNames[wc]
	}

	return "unknown"
}

// SLAMetric names a performance or correctness target attached to a
// composition.
type SLAMetric int

// Enumeration of SLA metrics.
const (
	Latency99Percentile SLAMetric = iota
	Latency95Percentile
	Latency90Percentile
	Latency50Percentile
	MetricWorkflowConsistency
)

// Table of SLA metric names.
var slaMetricNames = []string{
	"latency-99",
	"latency-95",
	"latency-90",
	"latency-50",
	"workflow-consistency",
}

func (m SLAMetric) String() string {
	if 0 <= int(m) && int(m) < len(slaMetricNames) {
		return slaMetricNames[m]
	}

	return "unknown"
}
