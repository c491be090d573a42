package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/harrison/explainer/internal/ingest"
	"github.com/harrison/explainer/internal/logger"
	"github.com/harrison/explainer/internal/storage"
	"github.com/harrison/explainer/internal/tree"
)

// NewTreeCommand creates the tree command
func NewTreeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree <project-directory>",
		Short: "Show the files a run would explain",
		Long: `Show the folder structure a run would explain, after .gitignore
filtering, without calling a generator or touching the work directory.`,
		Args: cobra.ExactArgs(1),
		RunE: treeCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .explainer/config.yaml)")
	cmd.Flags().Bool("json", false, "Print the tree as JSON")
	return cmd
}

func treeCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	files, err := ingest.LoadDirectory(afero.NewOsFs(), args[0], cfg.WorkDir, cfg.LogDir)
	if err != nil {
		return err
	}

	// Ingest into memory so the tree matches what a run would store.
	ws := storage.New(afero.NewMemMapFs(), "/explainer")
	ingested, err := ingest.New(ws, logger.NewNoOpLogger()).Ingest(cmd.Context(), files)
	if err != nil {
		return err
	}
	nodes := ingested.Run.Tree

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		data, err := json.MarshalIndent(nodes, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode tree: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprint(out, tree.Render(nodes, 0))
	fileCount, folderCount := tree.Count(nodes)
	fmt.Fprintf(out, "\n%d files, %d folders\n", fileCount, folderCount)
	return nil
}
