// Command lynq-nodes lists the parameter tree of a simulated instrument.
//
// The instrument is described by a YAML fixture (see the sim package for
// the format). The listing shows each node's type, access properties,
// unit and declared enum keywords, optionally narrowed to a subtree
// pattern.
//
// Usage:
//
//	lynq-nodes [flags] <fixture.yaml>
//
// Examples:
//
//	# List every node
//	lynq-nodes instrument.yaml
//
//	# List one subtree
//	lynq-nodes -pattern '/dev1234/demods/*' instrument.yaml
//
//	# Only persistent settings
//	lynq-nodes -settings instrument.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/lynq-instruments/lynq-go/pkg/catalog"
	"github.com/lynq-instruments/lynq-go/pkg/nodetree"
	"github.com/lynq-instruments/lynq-go/pkg/provider/sim"
)

func main() {
	fs := flag.NewFlagSet("lynq-nodes", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `lynq-nodes - List the parameter tree of a simulated instrument

Usage:
  lynq-nodes [flags] <fixture.yaml>

Flags:
`)
		fs.PrintDefaults()
	}

	pattern := fs.String("pattern", "/", "Subtree or wildcard pattern to list")
	settings := fs.Bool("settings", false, "Only nodes with the Setting property")
	values := fs.Bool("values", false, "Include the current value of each node")

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: fixture path required")
		fs.Usage()
		os.Exit(1)
	}

	if err := run(fs.Arg(0), *pattern, *settings, *values); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(fixturePath, pattern string, settingsOnly, withValues bool) error {
	inst, err := sim.LoadFixtureFile(fixturePath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	tree, err := nodetree.New(ctx, inst)
	if err != nil {
		return err
	}

	entries, err := tree.Catalog().LookupPattern(pattern)
	if err != nil {
		return err
	}

	fmt.Printf("Instrument %s: %d nodes\n\n", inst.Serial(), tree.Catalog().Len())

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tTYPE\tPROPERTIES\tUNIT\tOPTIONS")
	for _, entry := range entries {
		if settingsOnly && !entry.Properties.IsSetting() {
			continue
		}
		options := ""
		if enum := entry.Enum(); enum != nil {
			options = strings.Join(enum.Keywords(), ", ")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			catalog.WirePath(entry.Path), entry.Type, entry.Properties, entry.Unit, options)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !withValues {
		return nil
	}

	fmt.Println()
	for _, entry := range entries {
		if settingsOnly && !entry.Properties.IsSetting() {
			continue
		}
		if !entry.Properties.CanRead() {
			continue
		}
		node, err := tree.Node(catalog.WirePath(entry.Path))
		if err != nil {
			return err
		}
		res, err := node.Read(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s = %s\n", node.Path(), res.Value())
	}
	return nil
}
