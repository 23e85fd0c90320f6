package cli

import (
	"io"

	"github.com/dmitrijs2005/chatop/internal/client/config"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the chatop-cli command tree. Without a subcommand
// it starts the REPL.
func NewRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	var (
		overrides config.Overrides
		app       *App
	)

	root := &cobra.Command{
		Use:           "chatop-cli",
		Short:         "Chatop command-line client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(overrides)
			if err != nil {
				return err
			}
			app, err = NewApp(cfg, in, out)
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.Run(cmd.Context())
			return nil
		},
	}
	config.BindFlags(root.PersistentFlags(), &overrides)

	root.AddCommand(&cobra.Command{
		Use:   "ping",
		Short: "Check that the server is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return describe(app.Ping(cmd.Context()))
		},
	})

	root.SetIn(in)
	root.SetOut(out)
	return root
}
