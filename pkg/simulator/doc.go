// Package simulator provides an in-process KEF speaker for tests and local
// development.
//
// The simulator listens on TCP, answers source and volume queries, acks
// sets and records every command it receives. Source and power changes can
// be delayed to exercise the convergence polling of pkg/speaker, and
// replies can be prefixed with an unrelated frame to exercise reply
// defragmentation.
//
//	sim, _ := simulator.New(simulator.Config{Source: wire.SourceAux, On: true})
//	if err := sim.Start(ctx); err != nil {
//	    return err
//	}
//	defer sim.Stop()
//	// dial sim.Addr()
package simulator
