package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/arbor-dev/arbor/pkg/live"
	"github.com/arbor-dev/arbor/pkg/vtree"
)

func serveCmd() *cobra.Command {
	var (
		addr    string
		title   string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo application",
		Long: `Serve the built-in demo application: a counter and a keyed task
list driven entirely from the server.

The host renders the first paint as HTML, then patches connected
clients over a websocket at /live. Prometheus metrics are exposed
at /metrics.

Examples:
  arbor serve
  arbor serve --addr=:3000
  arbor serve --verbose`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr, title, verbose)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Address to listen on")
	cmd.Flags().StringVar(&title, "title", "arbor demo", "Page title")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

func runServe(addr, title string, verbose bool) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	config := live.DefaultConfig()
	config.Addr = addr
	config.Title = title

	srv, err := live.NewServer(demoApp(), config)
	if err != nil {
		return err
	}
	srv.SetLogger(logger)

	printBanner()
	info("serving the demo on %s", addr)
	info("metrics at %s/metrics", addr)
	fmt.Println()

	return srv.Run()
}

// The demo model: a counter plus a task list, exercising text updates,
// attribute toggles and keyed create/remove/reorder over the wire.
type demoModel struct {
	count int
	tasks []task
	next  int
}

type task struct {
	key  string
	name string
	done bool
}

type addTask struct{}

type toggleTask struct{ key string }

type removeTask struct{ key string }

type raiseTask struct{ key string }

func demoApp() live.App {
	return live.App{
		Init: func() any { return &demoModel{} },
		Update: func(model, msg any) any {
			m := model.(*demoModel)
			switch v := msg.(type) {
			case string:
				switch v {
				case "inc":
					m.count++
				case "dec":
					m.count--
				case "clear":
					m.tasks = nil
				}
			case addTask:
				m.next++
				m.tasks = append(m.tasks, task{
					key:  fmt.Sprintf("t%d", m.next),
					name: fmt.Sprintf("task %d", m.next),
				})
			case toggleTask:
				for i := range m.tasks {
					if m.tasks[i].key == v.key {
						m.tasks[i].done = !m.tasks[i].done
					}
				}
			case removeTask:
				kept := m.tasks[:0]
				for _, t := range m.tasks {
					if t.key != v.key {
						kept = append(kept, t)
					}
				}
				m.tasks = kept
			case raiseTask:
				for i := 1; i < len(m.tasks); i++ {
					if m.tasks[i].key == v.key {
						m.tasks[i-1], m.tasks[i] = m.tasks[i], m.tasks[i-1]
						break
					}
				}
			}
			return m
		},
		View: func(b *vtree.Builder, model any) *vtree.Node {
			return demoView(b, model.(*demoModel))
		},
	}
}

func demoView(b *vtree.Builder, m *demoModel) *vtree.Node {
	rows := make([]*vtree.Node, len(m.tasks))
	for i, t := range m.tasks {
		rows[i] = b.WithKey(t.key, b.Li(
			vtree.ClassIf(t.done, "done"),
			b.Span(b.Text(t.name)),
			b.Button(vtree.OnClick(raiseTask{key: t.key}), b.Text("up")),
			b.Button(vtree.OnClick(toggleTask{key: t.key}), b.Text("toggle")),
			b.Button(vtree.OnClick(removeTask{key: t.key}), b.Text("remove")),
		))
	}

	return b.Div(vtree.Class("app"),
		b.H1(b.Text("arbor demo")),
		b.Section(vtree.Class("counter"),
			b.Button(vtree.OnClick("dec"), b.Text("-")),
			b.Span(vtree.Class("value"), b.Textf(" %d ", m.count)),
			b.Button(vtree.OnClick("inc"), b.Text("+")),
		),
		b.Section(vtree.Class("tasks"),
			b.Button(vtree.OnClick(addTask{}), b.Text("add task")),
			b.Button(vtree.OnClick("clear"), b.Text("clear")),
			b.Ul(b.Keyed(rows...)),
		),
	)
}
