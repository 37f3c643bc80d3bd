package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/careerai/internal/config"
	"github.com/PabloGalante/careerai/internal/observability"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "careerai",
		Short:         "AI career assistant: mock interviews, résumé and job tools",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			*cfg = *loaded
			observability.SetLevel(cfg.LogLevel)
			return nil
		},
	}
	cfg = &config.Config{}

	root.AddCommand(newServeCommand(cfg))
	root.AddCommand(newInterviewCommand(cfg))
	return root
}
