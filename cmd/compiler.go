package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/imzhenyu/rDSN.dist.service.flow/config"
	"github.com/imzhenyu/rDSN.dist.service.flow/expr"
	"github.com/imzhenyu/rDSN.dist.service.flow/graph"
	"github.com/imzhenyu/rDSN.dist.service.flow/ir"
	"github.com/imzhenyu/rDSN.dist.service.flow/lower"
	"github.com/imzhenyu/rDSN.dist.service.flow/report"
	"github.com/imzhenyu/rDSN.dist.service.flow/service"
)

// Version is the current compiler version.
const Version = "0.1.0"

// Compiler is the driver for one composition build: it loads the manifest,
// extracts spec bundles, lowers the composition graph, and writes the IR
// listing.
type Compiler struct {
	// manifestPath is the path to the composition manifest.
	manifestPath string

	// outputPath is where the IR listing is written; empty means stdout.
	outputPath string

	// specDir is the directory spec bundles are read from; empty disables
	// extraction.
	specDir string

	// comp is the loaded composition.
	comp *config.Composition
}

// LoadManifest loads and validates the composition manifest.
func (c *Compiler) LoadManifest() bool {
	report.DisplayCompileHeader(Version, filepath.Base(c.manifestPath))

	comp, err := config.LoadComposition(c.manifestPath)
	if err != nil {
		report.ReportConfigError(c.manifestPath, err)
		return false
	}

	c.comp = comp
	return true
}

// ExtractSpecs materialises the spec bundles of every service in the loaded
// composition.  Extraction runs strictly before lowering.
func (c *Compiler) ExtractSpecs() bool {
	if c.specDir == "" {
		return true
	}

	bundle := service.FSBundle{FS: os.DirFS(c.specDir)}

	for _, svc := range c.comp.Services {
		if svc.Spec.MainSpecFile == "" {
			continue
		}

		if _, err := service.ExtractSpec(svc, bundle); err != nil {
			report.ReportConfigError(svc.Name, err)
			return false
		}
	}

	return true
}

// CompileGraph lowers the given composition graph and writes the per-vertex
// IR listing.  The graph is constructed by a frontend library caller; the
// driver owns everything after that.
func (c *Compiler) CompileGraph(g *graph.LGraph) bool {
	if err := lower.Build(g); err != nil {
		report.DisplayCompilationFinished(false, "")
		return false
	}

	listing := renderListing(g)

	if c.outputPath == "" {
		fmt.Print(listing)
	} else if err := os.WriteFile(c.outputPath, []byte(listing), 0644); err != nil {
		report.ReportConfigError(c.outputPath, err)
		return false
	}

	report.DisplayCompilationFinished(true, c.outputOrStdout())
	return true
}

func (c *Compiler) outputOrStdout() string {
	if c.outputPath == "" {
		return "stdout"
	}

	return c.outputPath
}

// renderListing renders the lowered IR of every vertex, vertices in id order.
func renderListing(g *graph.LGraph) string {
	out := ""

	for _, v := range g.SortedVertices() {
		if v.Origin == nil || len(v.Instructions) == 0 {
			continue
		}

		out += fmt.Sprintf("vertex %d: %s\n", v.ID, v.Origin.Method.Name)

		// Walk the origin's arguments rather than the instruction map so the
		// listing follows argument order.
		for _, arg := range v.Origin.Args {
			l, ok := expr.QuotedLambda(arg)
			if !ok {
				continue
			}

			instrs, ok := v.Instructions[l]
			if !ok {
				continue
			}

			out += fmt.Sprintf(" lambda %s\n", l.Repr())
			out += ir.ReprList(instrs)
		}
	}

	return out
}
