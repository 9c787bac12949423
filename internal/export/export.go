// Package export snapshots the seeded tables to disk so a generated data set
// can be inspected or diffed between runs.
package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Rana718/storefront/internal/database"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// concurrentReads caps the tables fetched at once.
const concurrentReads = 4

type Snapshot struct {
	Timestamp string                      `json:"timestamp"`
	Version   string                      `json:"version"`
	Tables    map[string][]map[string]any `json:"tables"`
}

// Export reads every listed table and writes them under dir. It returns the
// path written: a file for json, a directory for csv.
func Export(ctx context.Context, store *database.Store, tables []string, dir, format string, now time.Time) (string, error) {
	if format != FormatJSON && format != FormatCSV {
		return "", fmt.Errorf("unsupported export format %q (expected %s or %s)", format, FormatJSON, FormatCSV)
	}

	data := make([][]map[string]any, len(tables))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrentReads)
	for i, table := range tables {
		g.Go(func() error {
			rows, err := store.FetchAll(gctx, table)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", table, err)
			}
			data[i] = normalize(rows)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	snapshot := Snapshot{
		Timestamp: now.UTC().Format(time.RFC3339),
		Version:   "1.0",
		Tables:    make(map[string][]map[string]any, len(tables)),
	}
	for i, table := range tables {
		snapshot.Tables[table] = data[i]
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	stamp := now.UTC().Format("2006-01-02_15-04-05")
	if format == FormatCSV {
		return writeCSV(snapshot, filepath.Join(dir, "export_"+stamp+"_csv"))
	}
	return writeJSON(snapshot, filepath.Join(dir, "export_"+stamp+".json"))
}

// normalize turns driver byte slices into strings so they encode as text.
func normalize(rows []database.Row) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		m := make(map[string]any, len(row))
		for col, v := range row {
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			m[col] = v
		}
		out = append(out, m)
	}
	return out
}

func writeJSON(snapshot Snapshot, path string) (string, error) {
	body, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal export: %w", err)
	}
	if err := os.WriteFile(path, body, 0644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}

func writeCSV(snapshot Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create CSV directory: %w", err)
	}

	for table, rows := range snapshot.Tables {
		if len(rows) == 0 {
			continue
		}
		if err := writeTableCSV(filepath.Join(dir, table+".csv"), rows); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", table, err)
		}
	}
	return dir, nil
}

func writeTableCSV(path string, rows []map[string]any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	headers := make([]string, 0, len(rows[0]))
	for key := range rows[0] {
		headers = append(headers, key)
	}
	sort.Strings(headers)

	w := csv.NewWriter(file)
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, row := range rows {
		values := make([]string, len(headers))
		for i, header := range headers {
			values[i] = cell(row[header])
		}
		if err := w.Write(values); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func cell(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case time.Time:
		return v.UTC().Format(time.DateTime)
	default:
		return fmt.Sprintf("%v", v)
	}
}
