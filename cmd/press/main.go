// Command press compiles a markup source file into a paginated document
// and prints a structural dump of the resulting pages.
package main

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/npillmayer/press"
	"github.com/npillmayer/press/doc"
	"github.com/npillmayer/press/style"
	"github.com/npillmayer/press/worldfs"
	"github.com/npillmayer/tyse/core/dimen"
)

const version = "0.1.0"

// CLI defines the command-line interface for press.
var CLI struct {
	Debug bool `help:"Enable debug tracing" short:"d"`

	Compile CompileCmd `cmd:"" help:"Compile a markup file into pages"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// CompileCmd compiles one file and dumps the pages.
type CompileCmd struct {
	File       string  `arg:"" help:"Markup source file" type:"existingfile"`
	PageWidth  float64 `name:"page-width" help:"Page width in points (overrides document styles)"`
	PageHeight float64 `name:"page-height" help:"Page height in points (overrides document styles)"`
	Workers    int     `help:"Pre-measurement workers (0 = NumCPU, 1 = sequential)"`
	Quiet      bool    `short:"q" help:"Suppress the page dump, report diagnostics only"`
}

func (c *CompileCmd) Run() error {
	world, err := worldfs.New(c.File)
	if err != nil {
		return fmt.Errorf("cannot open world: %w", err)
	}
	compiler := press.NewCompiler()
	compiler.Workers = c.Workers
	compiler.BaseStyles = c.overrides()
	document, warnings, err := compiler.Compile(world)
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, w)
	}
	if err != nil {
		return err
	}
	if !c.Quiet {
		fmt.Print(doc.Dump(document))
	}
	fmt.Fprintf(os.Stderr, "%d pages, %d warnings\n", len(document.Pages), len(warnings))
	return nil
}

// overrides translates the geometry flags into base style properties.
// Directives in the document still win over them.
func (c *CompileCmd) overrides() []style.KeyValue {
	var kvs []style.KeyValue
	if c.PageWidth > 0 {
		kvs = append(kvs, style.Set(style.PageWidth, style.LengthProp(dimen.DU(c.PageWidth*float64(dimen.PT)))))
	}
	if c.PageHeight > 0 {
		kvs = append(kvs, style.Set(style.PageHeight, style.LengthProp(dimen.DU(c.PageHeight*float64(dimen.PT)))))
	}
	return kvs
}

// VersionCmd prints the tool version.
type VersionCmd struct{}

func (v *VersionCmd) Run() error {
	fmt.Printf("press %s\n", version)
	return nil
}

// setupTracing installs the log-based tracing adapter. Without debug the
// tracers stay at error-only reporting.
func setupTracing(debug bool) {
	tracing.SetTraceSelector(tracing.SelectorForAdapter(gologadapter.GetAdapter()))
	if debug {
		tracing.Select("press").SetTraceLevel(tracing.LevelDebug)
	}
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("press"),
		kong.Description("press - markup to paginated documents"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	setupTracing(CLI.Debug)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
