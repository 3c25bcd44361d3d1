// package formatter renders run results to various formats (JSON, CSV, Markdown)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"plexloc/internal/tasks"
)

// ExportToJSON converts a RunResult to indented JSON.
func ExportToJSON(result *tasks.RunResult) ([]byte, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal run result: %w", err)
	}
	return data, nil
}

// ExportToCSV converts a RunResult's change records to CSV with columns:
// RatingKey, Title, Field, Before, After
func ExportToCSV(result *tasks.RunResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"RatingKey", "Title", "Field", "Before", "After"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, change := range result.Changes {
		record := []string{
			change.RatingKey,
			change.Title,
			change.Field,
			change.Before,
			change.After,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a RunResult to a Markdown report.
func ExportToMarkdown(result *tasks.RunResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Localization Run\n\n")
	buf.WriteString(fmt.Sprintf("**Started**: %s\n", result.StartedAt.Format(time.DateTime)))
	if !result.FinishedAt.IsZero() {
		buf.WriteString(fmt.Sprintf("**Finished**: %s\n", result.FinishedAt.Format(time.DateTime)))
	}
	buf.WriteString(fmt.Sprintf("**Sections**: %d\n", result.Sections))
	buf.WriteString(fmt.Sprintf("**Items**: %d\n", result.Items))
	buf.WriteString(fmt.Sprintf("**Sort-title writes**: %d\n", result.SortWrites))
	buf.WriteString(fmt.Sprintf("**Tag writes**: %d\n", result.TagWrites))
	buf.WriteString(fmt.Sprintf("**Errors**: %d\n\n", result.ItemErrors))

	if len(result.Changes) > 0 {
		buf.WriteString("## Changes\n\n")
		buf.WriteString("| Title | Field | Before | After |\n")
		buf.WriteString("|---|---|---|---|\n")
		for _, change := range result.Changes {
			buf.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
				change.Title, change.Field, change.Before, change.After))
		}
	}

	return buf.Bytes(), nil
}

// WriteRunReport renders the result in the given format (json, csv or
// markdown) and writes it to path.
func WriteRunReport(result *tasks.RunResult, format, path string) error {
	var data []byte
	var err error

	switch format {
	case "csv":
		data, err = ExportToCSV(result)
	case "markdown", "md":
		data, err = ExportToMarkdown(result)
	case "json", "":
		data, err = ExportToJSON(result)
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}
