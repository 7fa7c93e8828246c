package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shaiso/Nodeflow/internal/graphfile"
)

// NewGraphCmd создаёт группу команд для управления сохранёнными графами.
func NewGraphCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Manage stored graphs",
	}

	cmd.AddCommand(
		newGraphListCmd(clientFn, outputFn),
		newGraphCreateCmd(clientFn, outputFn),
		newGraphShowCmd(clientFn, outputFn),
		newGraphDeleteCmd(clientFn, outputFn),
	)

	return cmd
}

var graphHeaders = []string{"ID", "NAME", "NODES", "EDGES", "CREATED"}

func graphRow(g GraphSummary) []string {
	return []string{g.ID, g.Name, strconv.Itoa(g.Nodes), strconv.Itoa(g.Edges), g.CreatedAt}
}

func newGraphListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored graphs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			graphs, err := client.ListGraphs(cmd.Context(), name)
			if err != nil {
				return err
			}

			rows := make([][]string, len(graphs))
			for i, g := range graphs {
				rows[i] = graphRow(g)
			}

			out.Print(graphHeaders, rows, graphs)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Show only the graph with this name")

	return cmd
}

func newGraphCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create FILE",
		Short: "Upload a graph file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			g, err := graphfile.Load(args[0])
			if err != nil {
				return err
			}

			graph, err := client.CreateGraph(cmd.Context(), name, g)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Graph created: %s", graph.ID))
			out.Print(graphHeaders, [][]string{graphRow(graph.GraphSummary)}, graph)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Graph name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newGraphShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show graph details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			graph, err := client.GetGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if out.JSONMode() {
				out.JSON(graph)
				return nil
			}

			out.Table(graphHeaders, [][]string{graphRow(graph.GraphSummary)})
			out.Line("")

			rows := make([][]string, len(graph.Graph.Nodes))
			for i, n := range graph.Graph.Nodes {
				rows[i] = []string{n.ID, string(n.Kind()), n.Label}
			}
			out.Table([]string{"NODE", "TYPE", "LABEL"}, rows)
			return nil
		},
	}
}

func newGraphDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a stored graph and its runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.DeleteGraph(cmd.Context(), args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Graph deleted: %s", args[0]))
			return nil
		},
	}
}
