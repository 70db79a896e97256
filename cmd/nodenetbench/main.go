// Command nodenetbench measures step throughput against a synthetic
// register chain, the direct descendant of cmd/sublperf's kernel
// throughput tool retargeted from raw vector/matrix kernels to the
// propagate+calculate step pipeline.
package main

import (
	"context"
	"flag"
	"fmt"
	"runtime"
	"time"

	"github.com/nnengine/nodenet/config"
	"github.com/nnengine/nodenet/core"
	"github.com/nnengine/nodenet/nettype"
	"github.com/nnengine/nodenet/nodenet"
)

var (
	chainLength = flag.Int("chain", 256, "Number of register nodes in the synthetic chain")
	steps       = flag.Int("steps", 1000, "Number of steps to run")
	sparse      = flag.Bool("sparse", false, "Use the sparse (CSR) weight matrix instead of dense")
	verbose     = flag.Bool("verbose", false, "Verbose output")
)

func main() {
	flag.Parse()

	fmt.Printf("nodenet step-throughput benchmark\n")
	fmt.Printf("==================================\n")
	fmt.Printf("Go Version: %s\n", runtime.Version())
	fmt.Printf("OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("CPUs:       %d\n", runtime.NumCPU())
	fmt.Printf("Chain:      %d nodes\n", *chainLength)
	fmt.Printf("Steps:      %d\n", *steps)
	matrixMode := "dense"
	if *sparse {
		matrixMode = "sparse"
	}
	fmt.Printf("Matrix:     %s\n\n", matrixMode)

	n, err := buildChain(*chainLength, *sparse)
	if err != nil {
		fmt.Println("nodenetbench:", err)
		return
	}

	ctx := context.Background()
	start := time.Now()
	for i := 0; i < *steps; i++ {
		if err := n.Step(ctx); err != nil {
			fmt.Println("nodenetbench: step failed:", err)
			return
		}
	}
	elapsed := time.Since(start)

	stepsPerSec := float64(*steps) / elapsed.Seconds()
	elementsPerSec := stepsPerSec * float64(*chainLength)

	fmt.Printf("Elapsed:        %v\n", elapsed)
	fmt.Printf("Steps/sec:      %.2f\n", stepsPerSec)
	fmt.Printf("Elements/sec:   %.2f\n", elementsPerSec)

	used := 0
	for _, t := range n.Arena.AllocatedNodes {
		if t != 0 {
			used++
		}
	}
	fmt.Printf("Arena occupancy: %d / %d nodes\n", used, n.Arena.MaxNodes())

	if *verbose {
		fmt.Printf("Final step counter: %d\n", n.CurrentStep)
	}
}

// buildChain constructs a register-node chain src -> ... -> dst, each
// link weighted 1.0, wide gate ranges so activations propagate unclamped.
func buildChain(length int, sparse bool) (*nodenet.Nodenet, error) {
	cfg := config.Default()
	cfg.Arena.MaxNodes = length + 2
	cfg.Arena.MaxElements = length + 2
	if sparse {
		cfg.Engine.MatrixMode = "sparse"
	}

	n, err := nodenet.New(nodenet.Options{UID: "bench", Config: cfg})
	if err != nil {
		return nil, err
	}

	wide := map[string]nettype.GateDef{"gen": {Name: "gen", Minimum: -1e9, Maximum: 1e9, Amplification: 1}}
	var prev string
	for i := 0; i < length; i++ {
		uid, err := n.CreateNode(nettype.Register, core.Root, nodenet.CreateNodeParams{GateOverrides: wide})
		if err != nil {
			return nil, err
		}
		if prev != "" {
			if _, err := n.CreateLink(prev, "gen", uid, "gen", 1.0, 1.0); err != nil {
				return nil, err
			}
		}
		prev = uid
	}
	return n, nil
}
