package main

import (
	"fmt"

	"dgrsdt/journals/internal/container"

	"github.com/spf13/cobra"
)

var (
	convertIn      string
	convertOut     string
	convertWorkers int
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert tables in PDF files to JSON",
	Long: `Convert reads every .pdf file directly inside the input directory, lays out
its text as table rows and writes <name>.json into the output directory.
A document that cannot be read is reported and the run continues.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("in") {
			cfg.Converter.InputDir = convertIn
		}
		if cmd.Flags().Changed("out") {
			cfg.Converter.OutputDir = convertOut
		}
		if cmd.Flags().Changed("workers") {
			cfg.Converter.Workers = convertWorkers
		}

		app, err := container.NewConverter(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer app.Close()

		result, err := app.Converter.ConvertDir(cmd.Context(), cfg.Converter.InputDir, cfg.Converter.OutputDir)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "converted: %d, skipped: %d, failed: %d\n",
			result.Converted, result.Skipped, result.Failed)

		if result.HasFailures() {
			return fmt.Errorf("%d of %d documents failed", result.Failed, result.Total())
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertIn, "in", "", "input directory (default from converter.input_dir)")
	convertCmd.Flags().StringVar(&convertOut, "out", "", "output directory (default from converter.output_dir)")
	convertCmd.Flags().IntVar(&convertWorkers, "workers", 1, "documents converted in parallel")

	rootCmd.AddCommand(convertCmd)
}
