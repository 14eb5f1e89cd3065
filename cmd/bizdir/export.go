package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/bizdir/internal/core"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		req    core.ExportRequest
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the directory to a file",
		Long: `Export writes the directory, or the businesses named by --ids, as a
spreadsheet (xlsx), CSV mailing list or Word document into --out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, closeStore, err := a.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			file, err := service.Export(cmd.Context(), req)
			if err != nil {
				return err
			}

			path := filepath.Join(outDir, file.Filename)
			if err := os.WriteFile(path, file.Data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&req.Format, "format", "f", "spreadsheet", "spreadsheet, csv or document")
	cmd.Flags().StringSliceVar(&req.IDs, "ids", nil, "export only these business ids (comma-separated)")
	cmd.Flags().StringVarP(&req.CustomName, "name", "n", "", "file name without extension")
	cmd.Flags().BoolVar(&req.PageBreaks, "page-breaks", false, "start each business on a new page (document format)")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory to write the file into")
	return cmd
}
