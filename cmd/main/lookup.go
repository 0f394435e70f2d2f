package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"dgrsdt/journals/internal/container"
	"dgrsdt/journals/internal/domain"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var lookupJSON bool

var lookupCmd = &cobra.Command{
	Use:   "lookup <title...>",
	Short: "Find a journal's ranking record by title",
	Long: `Lookup searches Category A first, then each Category B subcategory in the
configured order, and prints the first row whose title is close enough to the
query. A journal that is not listed is reported and is not an error.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		app, err := container.NewLookup(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer app.Close()

		query := strings.Join(args, " ")
		log.Infof("🔎 Searching for %q", query)

		record, err := app.Engine.Find(cmd.Context(), query)
		if err != nil {
			return err
		}

		return printRecord(cmd.OutOrStdout(), record, lookupJSON)
	},
}

func init() {
	lookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "print the record as JSON")

	rootCmd.AddCommand(lookupCmd)
}

func printRecord(w io.Writer, record *domain.JournalRecord, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if record == nil {
			return enc.Encode(nil)
		}
		return enc.Encode(record)
	}

	if record == nil {
		_, err := fmt.Fprintln(w, "❌ Journal not found in Category A or B")
		return err
	}

	fmt.Fprintln(w, "📘 Journal:", record.Title)
	fmt.Fprintln(w, "🏢 Publisher:", record.Publisher)
	fmt.Fprintln(w, "📚 ISSN:", record.ISSN)
	fmt.Fprintln(w, "🌐 EISSN:", record.EISSN)
	fmt.Fprintln(w, "🗂️ Category:", record.Category)
	if record.Subcategory != "" {
		fmt.Fprintln(w, "🏷️ Subcategory:", record.Subcategory)
	}
	return nil
}
