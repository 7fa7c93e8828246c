package cli

import (
	"github.com/spf13/cobra"
)

// DefaultAPIURL — адрес API по умолчанию.
const DefaultAPIURL = "http://localhost:8080"

// NewRootCmd собирает корневую команду nodeflow со всеми подкомандами.
//
// Client и Output создаются лениво, после парсинга PersistentFlags.
// Output пишет в потоки команды (SetOut/SetErr).
func NewRootCmd(version string) *cobra.Command {
	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "nodeflow",
		Short:         "Nodeflow CLI: execute and manage node graphs",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", DefaultAPIURL, "API server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *Client { return NewClient(apiURL) }
	outputFn := func() *Output {
		return NewOutputTo(jsonOutput, rootCmd.OutOrStdout(), rootCmd.ErrOrStderr())
	}

	rootCmd.AddCommand(
		NewExecCmd(outputFn),
		NewValidateCmd(outputFn),
		NewOrderCmd(outputFn),
		NewGraphCmd(clientFn, outputFn),
		NewRunCmd(clientFn, outputFn),
	)

	return rootCmd
}
