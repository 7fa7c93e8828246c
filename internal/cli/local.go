package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/shaiso/Nodeflow/internal/domain"
	"github.com/shaiso/Nodeflow/internal/engine"
	"github.com/shaiso/Nodeflow/internal/graphfile"
	"github.com/shaiso/Nodeflow/internal/nodes"
	"github.com/shaiso/Nodeflow/internal/telemetry"
)

// ExecResult — вывод команды exec в режиме --json.
type ExecResult struct {
	Order   []string                     `json:"order"`
	Outputs map[string]domain.PortValues `json:"outputs,omitempty"`
	Final   map[string]domain.PortValues `json:"final"`
	Sinks   []nodes.SinkRecord           `json:"sinks"`
}

// NewExecCmd создаёт команду локального выполнения графа из файла.
func NewExecCmd(outputFn func() *Output) *cobra.Command {
	var parallel int
	var all bool

	cmd := &cobra.Command{
		Use:   "exec FILE",
		Short: "Execute a graph file locally",
		Long: "Execute a graph document (.json, .yaml or .hcl) with the local engine.\n" +
			"Values passing through log nodes are printed to stderr.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			g, err := graphfile.Load(args[0])
			if err != nil {
				return err
			}

			var (
				mu    sync.Mutex
				sinks []nodes.SinkRecord
			)
			collect := nodes.ObserverFunc(func(_ context.Context, rec nodes.SinkRecord) {
				mu.Lock()
				sinks = append(sinks, rec)
				mu.Unlock()
			})

			res, err := engine.Execute(cmd.Context(), g,
				engine.WithLogger(localLogger(out)),
				engine.WithParallelism(parallel),
				engine.WithObserver(collect),
			)
			if err != nil {
				return err
			}

			if out.JSONMode() {
				er := ExecResult{Order: res.Order, Final: res.Final, Sinks: sinks}
				if er.Sinks == nil {
					er.Sinks = []nodes.SinkRecord{}
				}
				if all {
					er.Outputs = res.Outputs
				}
				out.JSON(er)
				return nil
			}

			for _, rec := range sinks {
				out.Success(fmt.Sprintf("[%s] %s", rec.NodeID, rec.Message))
			}

			values := res.Final
			if all {
				values = res.Outputs
			}
			out.Table([]string{"NODE", "PORT", "TYPE", "VALUE"}, valueRows(res.Order, values))
			return nil
		},
	}

	cmd.Flags().IntVar(&parallel, "parallel", 1, "Evaluate independent nodes with up to N goroutines")
	cmd.Flags().BoolVar(&all, "all", false, "Print outputs of every node, not only sinks")

	return cmd
}

// NewValidateCmd создаёт команду проверки графа из файла.
func NewValidateCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a graph file for structural errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			g, err := graphfile.Load(args[0])
			if err != nil {
				return err
			}
			if err := engine.Validate(g); err != nil {
				return err
			}

			if out.JSONMode() {
				out.JSON(map[string]any{"valid": true, "nodes": len(g.Nodes), "edges": len(g.Edges)})
				return nil
			}
			out.Success(fmt.Sprintf("Graph is valid: %d nodes, %d edges", len(g.Nodes), len(g.Edges)))
			return nil
		},
	}
}

// NewOrderCmd создаёт команду вывода порядка выполнения графа.
func NewOrderCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "order FILE",
		Short: "Print the execution order of a graph file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			g, err := graphfile.Load(args[0])
			if err != nil {
				return err
			}
			order, err := engine.Schedule(g)
			if err != nil {
				return err
			}

			if out.JSONMode() {
				out.JSON(order)
				return nil
			}
			for _, id := range order {
				out.Line(id)
			}
			return nil
		},
	}
}

// valueRows раскладывает значения по строкам таблицы в порядке выполнения.
func valueRows(order []string, values map[string]domain.PortValues) [][]string {
	var rows [][]string
	for _, id := range order {
		ports, ok := values[id]
		if !ok {
			continue
		}
		for _, port := range ports.Ports() {
			v := ports[port]
			rows = append(rows, []string{id, port, string(v.Kind()), v.String()})
		}
	}
	return rows
}

// localLogger — логгер для локального выполнения: stderr, text,
// уровень из LOG_LEVEL, по умолчанию WARN.
func localLogger(out *Output) *slog.Logger {
	level := slog.LevelWarn
	if s := os.Getenv("LOG_LEVEL"); s != "" {
		level = telemetry.ParseLevel(strings.TrimSpace(s))
	}
	return telemetry.NewLogger(out.errW, level, "text")
}
