// File path: internal/sqlite/schema.go
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	// SamplesTable holds one row per OTU and one count column per sample.
	SamplesTable = "samples"
	// MetadataTable holds one row per sample.
	MetadataTable = "sample_metadata"
)

var (
	// ErrSchemaMismatch is returned when the database does not carry the
	// expected tables or columns.
	ErrSchemaMismatch = errors.New("sqlite schema mismatch")
	// ErrUnknownColumn is returned when a sample identifier does not name a
	// count column of the samples table.
	ErrUnknownColumn = errors.New("unknown sample column")
)

// leadingColumns precede the per-sample count columns in the samples table.
var leadingColumns = []string{"otu_id", "otu_label"}

// MetadataColumns lists the sample_metadata fields served to clients, in
// response order.
var MetadataColumns = []string{"sample", "ETHNICITY", "GENDER", "AGE", "LOCATION", "BBTYPE", "WFREQ"}

func (s *Store) tableColumns(ctx context.Context, table string) ([]string, error) {
	columns := []string{}
	if err := s.db.SelectContext(ctx, &columns, `SELECT name FROM pragma_table_info(?) ORDER BY cid`, table); err != nil {
		return nil, fmt.Errorf("inspect table %s: %w", table, err)
	}
	return columns, nil
}

func (s *Store) validateSchema(ctx context.Context) error {
	sampleCols, err := s.tableColumns(ctx, SamplesTable)
	if err != nil {
		return err
	}
	if err := checkLeadingColumns(sampleCols); err != nil {
		return err
	}
	metaCols, err := s.tableColumns(ctx, MetadataTable)
	if err != nil {
		return err
	}
	if len(metaCols) == 0 {
		return fmt.Errorf("%w: table %s not found", ErrSchemaMismatch, MetadataTable)
	}
	present := make(map[string]struct{}, len(metaCols))
	for _, col := range metaCols {
		present[strings.ToLower(col)] = struct{}{}
	}
	var missing []string
	for _, col := range MetadataColumns {
		if _, ok := present[strings.ToLower(col)]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: table %s missing columns %s", ErrSchemaMismatch, MetadataTable, strings.Join(missing, ", "))
	}
	return nil
}

func checkLeadingColumns(columns []string) error {
	if len(columns) == 0 {
		return fmt.Errorf("%w: table %s not found", ErrSchemaMismatch, SamplesTable)
	}
	if len(columns) < len(leadingColumns) {
		return fmt.Errorf("%w: table %s has %d columns", ErrSchemaMismatch, SamplesTable, len(columns))
	}
	for i, want := range leadingColumns {
		if !strings.EqualFold(columns[i], want) {
			return fmt.Errorf("%w: table %s column %d is %q, expected %q", ErrSchemaMismatch, SamplesTable, i+1, columns[i], want)
		}
	}
	return nil
}

// quoteIdent renders name as a double-quoted SQLite identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
