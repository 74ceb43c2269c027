package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/arbor-dev/arbor"
	"github.com/arbor-dev/arbor/pkg/dom"
	"github.com/arbor-dev/arbor/pkg/protocol"
	"github.com/arbor-dev/arbor/pkg/reconcile"
	"github.com/arbor-dev/arbor/pkg/vtree"
)

func benchCmd() *cobra.Command {
	var (
		items  int
		cycles int
		target string
		wire   bool
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run the synthetic render-loop benchmark",
		Long: `Drive the render loop against a churning keyed list and report
throughput. Every cycle rotates the list, edits some rows and
periodically swaps one member out, so the diff produces a steady
mix of reorders, text updates, creates and removes.

Targets:
  dom   in-memory document, validates every operation
  sink  id-minting no-op target, measures the engine alone

Examples:
  arbor bench
  arbor bench --items=1000 --cycles=5000
  arbor bench --target=sink --wire`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(items, cycles, target, wire)
		},
	}

	cmd.Flags().IntVar(&items, "items", 200, "Keyed list size")
	cmd.Flags().IntVar(&cycles, "cycles", 1000, "Render cycles to drive")
	cmd.Flags().StringVar(&target, "target", "dom", "Apply target: dom or sink")
	cmd.Flags().BoolVar(&wire, "wire", false, "Also lower and encode each cycle's patches")

	return cmd
}

func runBench(items, cycles int, targetName string, wire bool) error {
	var target reconcile.Target
	switch targetName {
	case "dom":
		target = dom.NewDocument("bench-root")
	case "sink":
		target = reconcile.NewSink()
	default:
		return fmt.Errorf("unknown target %q (want dom or sink)", targetName)
	}

	state := newBenchState(items)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts := []arbor.Option{arbor.WithLogger(logger)}

	var (
		wireFrames int
		wireBytes  int
		wireErr    error
	)
	if wire {
		opts = append(opts, arbor.WithPatchObserver(func(cycle uint64, patches []vtree.Patch) {
			pf, err := protocol.FromTree(cycle, patches)
			if err != nil {
				if wireErr == nil {
					wireErr = err
				}
				return
			}
			frames, err := protocol.EncodePatchFrames(pf.Cycle, pf.Patches)
			if err != nil {
				if wireErr == nil {
					wireErr = err
				}
				return
			}
			wireFrames += len(frames)
			for _, f := range frames {
				wireBytes += len(f.Encode())
			}
		}))
	}

	loop := arbor.NewLoop(target, "bench-root", state.view, opts...)

	printBanner()
	fmt.Println("  bench")
	fmt.Println()
	info("target %s, %d items, %d cycles", targetName, items, cycles)

	runtime.GC()
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)

	ctx := context.Background()
	totalPatches := 0
	var last arbor.Result
	start := time.Now()
	for i := 0; i < cycles; i++ {
		state.step()
		res, err := loop.Render(ctx)
		if err != nil {
			return fmt.Errorf("cycle %d: %w", i+1, err)
		}
		totalPatches += res.Patches
		last = res
	}
	elapsed := time.Since(start)
	runtime.ReadMemStats(&after)

	if wireErr != nil {
		return fmt.Errorf("wire lowering: %w", wireErr)
	}

	perSec := float64(cycles) / elapsed.Seconds()
	success("%d cycles in %s (%.0f cycles/sec)", cycles, elapsed.Round(time.Millisecond), perSec)
	info("patches  %d total, %.1f per cycle", totalPatches, float64(totalPatches)/float64(cycles))
	info("tree     %d nodes in the last committed cycle", last.Nodes)
	if wire {
		info("wire     %d frames, %s", wireFrames, humanBytes(uint64(wireBytes)))
	}
	info("heap     %s allocated, %d objects", humanBytes(after.TotalAlloc-before.TotalAlloc), after.Mallocs-before.Mallocs)
	fmt.Println()
	return nil
}

// benchState drives a deterministic churn: rotate by one, star every
// seventh row, and replace the middle member every fourth cycle.
type benchState struct {
	cycle int
	items []int
	next  int
}

func newBenchState(size int) *benchState {
	s := &benchState{items: make([]int, size), next: size}
	for i := range s.items {
		s.items[i] = i
	}
	return s
}

func (s *benchState) step() {
	s.cycle++
	if len(s.items) > 1 {
		first := s.items[0]
		copy(s.items, s.items[1:])
		s.items[len(s.items)-1] = first
	}
	if s.cycle%4 == 0 && len(s.items) > 0 {
		s.items[len(s.items)/2] = s.next
		s.next++
	}
}

func (s *benchState) view(b *vtree.Builder) *vtree.Node {
	rows := make([]*vtree.Node, len(s.items))
	for i, id := range s.items {
		key := "row-" + strconv.Itoa(id)
		text := key
		if (s.cycle+i)%7 == 0 {
			text = key + "*"
		}
		rows[i] = b.WithKey(key, b.Li(b.Text(text)))
	}
	return b.Div(vtree.Class("bench"),
		b.P(b.Textf("cycle %d", s.cycle)),
		b.Ul(b.Keyed(rows...)),
	)
}

func humanBytes(n uint64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GiB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
