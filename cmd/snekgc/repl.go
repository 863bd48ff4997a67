package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/snek-lang/snekmem/heap"
	"github.com/snek-lang/snekmem/objects"
)

func newReplCmd() *cobra.Command {
	var flags poolFlags
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactively alloc, intern, and collect against one runtime",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := objects.NewRuntime(flags.config())
			if err != nil {
				return err
			}
			defer rt.Close()
			return runRepl(rt)
		},
	}
	flags.register(cmd)
	return cmd
}

func runRepl(rt *objects.Runtime) error {
	rl, err := readline.New("snekgc> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or readline.ErrInterrupt
			return nil
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if err := replDispatch(rt, rl, fields); err != nil {
			fmt.Fprintln(rl.Stderr(), err)
		}
	}
}

func replDispatch(rt *objects.Runtime, rl *readline.Instance, fields []string) error {
	switch fields[0] {
	case "quit", "exit":
		return fmt.Errorf("use Ctrl-D to exit")
	case "intern":
		if len(fields) != 2 {
			return fmt.Errorf("usage: intern <name>")
		}
		off, err := rt.Intern(fields[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(rl.Stdout(), "%d\n", off)
	case "list":
		n := 0
		if len(fields) == 2 {
			v, err := strconv.Atoi(fields[1])
			if err != nil {
				return err
			}
			n = v
		}
		elems := make([]heap.Poly, n)
		p, err := objects.NewList(rt.Heap, elems)
		if err != nil {
			return err
		}
		fmt.Fprintf(rl.Stdout(), "%d\n", p.Offset())
	case "collect":
		style := heap.CollectIncremental
		if len(fields) == 2 && fields[1] == "full" {
			style = heap.CollectFull
		}
		free := rt.Heap.Collect(style)
		fmt.Fprintf(rl.Stdout(), "%d bytes free\n", free)
	case "stats":
		fmt.Fprintf(rl.Stdout(), "top=%d free=%d\n", rt.Heap.Top(), rt.Heap.Free())
	default:
		return fmt.Errorf("unknown command %q (try: intern, list, collect, stats)", fields[0])
	}
	return nil
}
