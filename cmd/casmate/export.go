package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garyellow/casmate/internal/config"
	"github.com/garyellow/casmate/internal/storage"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the loaded catalog into a SQLite file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, cfg, err := loadEngine(cmd.Context())
		if err != nil {
			return err
		}
		path := exportOut
		if path == "" {
			path = cfg.SQLitePath
		}
		if path == "" {
			return errors.New("no output path: pass --out")
		}
		if err := storage.Export(cmd.Context(), e.Catalog, path); err != nil {
			return fmt.Errorf("export to %s: %w", path, err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %v to %s\n", e.Catalog.Stats(), path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "SQLite output path (default "+config.EnvSQLitePath+")")
}
