package service

// Service describes one service participating in a composition.  Descriptor
// records are built by the frontend and consumed read-only by code
// generation: the lowering pass itself never mutates them.
type Service struct {
	// PackageName is the name of the package the service is published under.
	PackageName string

	// URL is the address the service is reachable at once deployed.
	URL string

	// Name is the display name of the service within the composition.
	Name string

	Property ServiceProperty

	Spec ServiceSpec
}

// ServiceProperty is the mutable property record of a service.  Each
// property is tri-state: nil means unset.
type ServiceProperty struct {
	IsDeployedAlready *bool
	IsPrimitive       *bool
	IsPartitioned     *bool
	IsStateful        *bool
	IsReplicated      *bool
}

// ServiceSpec records where the service's interface spec files live.
type ServiceSpec struct {
	// SType is the spec language of the files, eg. "thrift" or "proto".
	SType string

	// MainSpecFile is the entry spec file.
	MainSpecFile string

	// ReferencedSpecFiles are the additional files the main spec includes.
	ReferencedSpecFiles []string

	// Directory is where the spec files have been materialised on disk.
	// Empty until extraction has run.
	Directory string
}

// Bool returns a pointer to the given value, for setting tri-state
// properties.
func Bool(v bool) *bool {
	return &v
}
