package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for explainer
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explainer",
		Short: "Generate plain-language explanations of a project folder",
		Long: `Explainer walks a project folder, asks a language model to explain
every text file in the context of the whole project, and writes one
Markdown document per file plus a project overview.

Files matched by the project's .gitignore are left out, as are binary
and oversized files. The folder can be explained from the command line
or uploaded through the built-in web server.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	// Add subcommands
	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewTreeCommand())
	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// NewVersionCommand prints the build version
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the explainer version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("explainer %s\n", Version)
		},
	}
}
