package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/snek-lang/snekmem/heap"
	"github.com/snek-lang/snekmem/objects"
)

func newDemoCmd() *cobra.Command {
	var flags poolFlags
	var nLists int
	var listLen int

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Allocate a scripted workload and report collector stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := objects.NewRuntime(flags.config())
			if err != nil {
				return err
			}
			defer rt.Close()

			if _, err := rt.Intern("demo"); err != nil {
				return err
			}

			var last heap.Poly
			for i := 0; i < nLists; i++ {
				elems := make([]heap.Poly, listLen)
				for j := range elems {
					elems[j] = last
				}
				p, err := objects.NewList(rt.Heap, elems)
				if err != nil {
					return err
				}
				last = p
			}

			printStats(cmd.OutOrStdout(), rt)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&nLists, "n-lists", 1000, "number of lists to allocate")
	cmd.Flags().IntVar(&listLen, "list-len", 4, "elements per list (each referencing the previous list)")
	return cmd
}

func printStats(w io.Writer, rt *objects.Runtime) {
	t := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(t, "top\t%d\n", rt.Heap.Top())
	fmt.Fprintf(t, "free\t%d\n", rt.Heap.Free())
	t.Flush()
}
