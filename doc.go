// Package nodenet implements a spreading-activation node-and-link network
// engine in the MicroPsi tradition: nodes hold named gates and slots,
// links carry a weight and a certainty between a source gate and a target
// slot, and a step pass propagates slot sums across the link matrix before
// calculating each node's gate outputs in turn.
//
// # Architecture Overview
//
// The engine is built from a small stack of typed packages rather than one
// monolith:
//
//   - arena: flat, pre-sized element/node/nodespace storage with a
//     linear-scan id allocator
//   - weights: the link matrix, dense or CSR-backed, plus the parallel
//     certainty matrix
//   - gates/pipe: the fixed gate and pipe transfer functions
//   - nettype: the node type registry (standard types plus native modules)
//   - step: the propagate+calculate step engine
//   - nodenet: the façade tying arena, matrix, registry and step engine
//     together behind a mutex-guarded public API
//   - persist: JSON metadata sidecar plus a zip archive of checksum-framed
//     binary members for save/load
//   - compiler: parses .nsdl source into a live nodenet
//
// # Basic Usage
//
//	n, err := nodenet.New(nodenet.Options{UID: "net1", Config: config.Default()})
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := n.Step(context.Background()); err != nil {
//		log.Fatal(err)
//	}
//
// # Package Structure
//
//   - core: node/nodespace/link id types and the Kind-classified Error type
//   - arena: typed flat storage and id allocation
//   - weights: dense and CSR weight/certainty matrices
//   - gates, pipe: transfer function libraries
//   - nettype: node type registry
//   - native: native module manifest loading
//   - config: engine tuning configuration
//   - world: sensor/actuator adapter interface
//   - nodenet: the engine façade
//   - persist: save/load
//   - view: stateless node/gate/slot read-write proxies
//   - compiler: .nsdl source compilation
//   - cmd: command-line tools (nodenetctl, nodenetbench)
package nodenet
