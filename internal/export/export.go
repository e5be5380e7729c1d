// Package export writes linked annotations as CSV files, partitioned by the
// per-document type attribute ("tipo") recorded in the mapping state.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/evidenzia-labs/evidenzia-cli/internal/codes"
	"github.com/evidenzia-labs/evidenzia-cli/internal/core/domain"
)

// header is the CSV column order, shared by all partitions.
var header = []string{
	"filename", "tipo", "comment_id", "author", "date",
	"quoted_text", "comment_text", "code", "label",
	"category", "macro", "color",
}

// Row is one CSV record: a linked annotation exploded per classification
// pair, carrying its resolved categorization.
type Row struct {
	domain.CommentRow
	Category   string
	MacroLabel string
	Color      string
}

// Rows explodes linked annotations into export records. A comment with
// parsed (code, label) pairs yields one record per pair; a comment without
// pairs yields exactly one record whose code is its first recognized token
// (nil when unclassified) and whose label is nil.
func Rows(anns []domain.LinkedAnnotation, state domain.MappingState) []Row {
	var out []Row
	for _, a := range anns {
		c := a.Comment
		base := Row{
			CommentRow: domain.CommentRow{
				Filename: c.Filename,
				Type:     state.Tipo(c.Filename),
				ID:       c.ID,
				Author:   c.Author,
				Date:     c.Date,
				Quoted:   c.Quoted,
				Text:     c.Text,
			},
			Category:   a.Category,
			MacroLabel: a.MacroLabel,
			Color:      a.Color,
		}

		pairs := codes.ParsePairs(c.Text)
		if len(pairs) == 0 {
			r := base
			r.Code = c.Code
			out = append(out, r)
			continue
		}
		for _, p := range pairs {
			r := base
			r.Code = p.Code
			r.Label = p.Label
			out = append(out, r)
		}
	}
	return out
}

// Write emits records as CSV with a header line.
func Write(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Filename,
			r.Type,
			strconv.Itoa(r.ID),
			r.Author,
			r.Date,
			r.Quoted,
			r.Text,
			deref(r.Code),
			deref(r.Label),
			r.Category,
			r.MacroLabel,
			r.Color,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePartitions writes one CSV per tipo into dir and returns the written
// paths in deterministic order. Rows without a tipo land in annotazioni.csv;
// a tipo t lands in annotazioni_<t>.csv.
func WritePartitions(dir string, rows []Row) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}

	parts := make(map[string][]Row)
	for _, r := range rows {
		parts[r.Type] = append(parts[r.Type], r)
	}

	tipi := make([]string, 0, len(parts))
	for tipo := range parts {
		tipi = append(tipi, tipo)
	}
	sort.Strings(tipi)

	var paths []string
	for _, tipo := range tipi {
		name := "annotazioni.csv"
		if tipo != "" {
			name = "annotazioni_" + tipo + ".csv"
		}
		path := filepath.Join(dir, name)

		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", path, err)
		}
		if err := Write(f, parts[tipo]); err != nil {
			f.Close()
			return nil, fmt.Errorf("writing %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return nil, fmt.Errorf("closing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
