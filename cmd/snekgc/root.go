package main

import (
	"github.com/spf13/cobra"

	"github.com/snek-lang/snekmem/heap"
	"github.com/snek-lang/snekmem/internal/heapcore"
)

// poolFlags are the heapcore.Config knobs every subcommand that builds a
// runtime shares.
type poolFlags struct {
	poolSize   uint32
	allocRound uint32
	nChunk     uint32
	numStash   int
	dynamic    bool
	debug      bool
}

func (f *poolFlags) register(cmd *cobra.Command) {
	cmd.Flags().Uint32Var(&f.poolSize, "pool-size", 1<<20, "pool size in bytes")
	cmd.Flags().Uint32Var(&f.allocRound, "alloc-round", 8, "allocation rounding granule")
	cmd.Flags().Uint32Var(&f.nChunk, "nchunk", 0, "chunk window capacity (0 = pool-size/64)")
	cmd.Flags().IntVar(&f.numStash, "num-stash", heap.DefaultNumStash, "poly stash depth")
	cmd.Flags().BoolVar(&f.dynamic, "dynamic", false, "back the pool with an mmap'd region instead of a static slice")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "enable collector invariant checks")
}

func (f *poolFlags) config() heap.Config {
	cfg := heap.Config{
		NChunk:   f.nChunk,
		NumStash: f.numStash,
		Dynamic:  f.dynamic,
		Debug:    f.debug,
	}
	cfg.Config = heapcore.DefaultConfig()
	cfg.PoolSize = f.poolSize
	cfg.AllocRound = f.allocRound
	for cfg.AllocShift = 0; uint32(1)<<cfg.AllocShift < f.allocRound; cfg.AllocShift++ {
	}
	return cfg
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "snekgc",
		Short: "Drive the snek precise moving garbage collector",
	}
	root.AddCommand(newDemoCmd())
	root.AddCommand(newReplCmd())
	return root
}
