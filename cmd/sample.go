package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MeetChauhan03/Redirection-status-checker/internal/report"
)

var sampleOut string

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Write a sample input file to get started",
	RunE: func(cmd *cobra.Command, args []string) error {
		var write func(*os.File) error
		switch ext := strings.ToLower(filepath.Ext(sampleOut)); ext {
		case ".csv":
			write = func(f *os.File) error { return report.WriteSampleCSV(f) }
		case ".xlsx":
			write = func(f *os.File) error { return report.WriteSampleWorkbook(f) }
		default:
			return fmt.Errorf("unsupported sample format %q: use .csv or .xlsx", ext)
		}
		if err := writeFile(sampleOut, write); err != nil {
			return err
		}
		slog.Info("sample written", "path", sampleOut)
		return nil
	},
}

func init() {
	sampleCmd.Flags().StringVarP(&sampleOut, "out", "o", "sample_urls.csv", "where to write the sample file")
	rootCmd.AddCommand(sampleCmd)
}
