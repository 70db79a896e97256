// Command nodenetctl is the nodenet engine's CLI entry point: build an
// .nsdl source into a persisted archive, run a persisted nodenet for N
// steps, or inspect its arena occupancy and step counter.
//
// Grounded on cmd/sublrun's flag-based CLI shape (a top-level -version flag,
// positional arguments with usage printed on a missing one), retargeted
// from a single run mode to build/run/inspect subcommands.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/nnengine/nodenet/compiler"
	"github.com/nnengine/nodenet/config"
	"github.com/nnengine/nodenet/nodenet"
)

func main() {
	version := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *version {
		fmt.Println("nodenetctl - nnengine nodenet CLI v1.0.0")
		fmt.Printf("Built with Go %s\n", runtime.Version())
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}

	var err error
	switch args[0] {
	case "build":
		err = runBuild(args[1:])
	case "run":
		err = runRun(args[1:])
	case "inspect":
		err = runInspect(args[1:])
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "nodenetctl:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s <command> [options]

Commands:
  build  <src.nsdl> <meta.json> <archive.ndnarchive> <uid>   compile a source file into a persisted nodenet
  run    <meta.json> <archive.ndnarchive> <steps>            load and step a persisted nodenet
  inspect <meta.json> <archive.ndnarchive>                   print arena occupancy and step counter
`, os.Args[0])
}

func runBuild(args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("build needs <src.nsdl> <meta.json> <archive.ndnarchive> <uid>")
	}
	return compiler.Compile(args[0], args[1], args[2], args[3], args[3], nil)
}

func runRun(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("run needs <meta.json> <archive.ndnarchive> <steps>")
	}
	var steps int
	if _, err := fmt.Sscanf(args[2], "%d", &steps); err != nil {
		return fmt.Errorf("invalid step count %q: %w", args[2], err)
	}

	n, err := nodenet.Load(args[0], args[1], config.Default(), nil, nil)
	if err != nil {
		return err
	}

	ctx := context.Background()
	for i := 0; i < steps; i++ {
		if err := n.Step(ctx); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	fmt.Printf("ran %d steps, current step counter %d\n", steps, n.CurrentStep)
	for key, value := range n.ReadActuators() {
		fmt.Printf("actuator %s = %g\n", key, value)
	}
	return nil
}

func runInspect(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("inspect needs <meta.json> <archive.ndnarchive>")
	}
	n, err := nodenet.Load(args[0], args[1], config.Default(), nil, nil)
	if err != nil {
		return err
	}
	used := 0
	for _, t := range n.Arena.AllocatedNodes {
		if t != 0 {
			used++
		}
	}
	fmt.Printf("nodenet %s (%s)\n", n.UID, n.Name)
	fmt.Printf("nodes in use: %d / %d\n", used, n.Arena.MaxNodes())
	fmt.Printf("elements:     %d\n", n.Arena.MaxElements())
	fmt.Printf("current step: %d\n", n.CurrentStep)
	return nil
}
