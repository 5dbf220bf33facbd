package cmd

// Execute runs the compiler driver: parse arguments, load the manifest, and
// extract spec bundles.  Graph lowering is invoked through CompileGraph by
// frontend library callers once a graph has been built.
func Execute() {
	c := NewCompilerFromArgs()

	if !c.LoadManifest() {
		return
	}

	c.ExtractSpecs()
}
