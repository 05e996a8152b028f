package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/csg33k/employee-roster/internal/adapters/pdf"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the starting roster as a PDF and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		repo, closeStore, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		employees, err := repo.List(cmd.Context())
		if err != nil {
			return err
		}
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOut, err)
		}
		if err := pdf.New().Export(cmd.Context(), employees, f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d employees to %s\n", len(employees), exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "roster.pdf", "Output file")
	rootCmd.AddCommand(exportCmd)
}
