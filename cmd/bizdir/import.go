package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/bizdir/internal/core"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		tags   []string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a spreadsheet or CSV file",
		Long: `Import reads an .xlsx or CSV file, validates every row and stores the
valid ones. The result, including rejected rows, is printed as JSON.
Rejected rows do not make the command fail; unreadable files do.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			service, closeStore, err := a.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			result, err := service.Import(cmd.Context(), core.ImportRequest{
				FileName: filepath.Base(path),
				Data:     data,
				Tags:     tags,
				DryRun:   dryRun,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringSliceVarP(&tags, "tags", "t", nil, "tags added to every imported row (comma-separated)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate only, store nothing")
	return cmd
}
