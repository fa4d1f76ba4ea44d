// File path: internal/sqlite/queries.go
package sqlite

import (
	"context"
	"fmt"
)

// SampleColumns returns the sample identifiers of the samples table in column
// order, skipping otu_id and otu_label.
func (s *Store) SampleColumns(ctx context.Context) ([]string, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	columns, err := s.tableColumns(ctx, SamplesTable)
	if err != nil {
		return nil, err
	}
	if err := checkLeadingColumns(columns); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(columns)-len(leadingColumns))
	names = append(names, columns[len(leadingColumns):]...)
	return names, nil
}

// MetadataRecords returns every sample_metadata row whose sample field equals
// sample, in table order.
func (s *Store) MetadataRecords(ctx context.Context, sample string) ([]MetadataRow, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	rows := []MetadataRow{}
	query := s.db.Rebind(`SELECT
                sample,
                ETHNICITY AS ethnicity,
                GENDER AS gender,
                AGE AS age,
                LOCATION AS location,
                BBTYPE AS bbtype,
                WFREQ AS wfreq
        FROM sample_metadata
        WHERE sample = ?`)
	if err := s.db.SelectContext(ctx, &rows, query, sample); err != nil {
		return nil, fmt.Errorf("select sample metadata: %w", err)
	}
	return rows, nil
}

// MeasurementRows returns otu_id, otu_label and the count stored under the
// named sample column for every row of the samples table. ErrUnknownColumn is
// returned when sample is not one of the count columns.
func (s *Store) MeasurementRows(ctx context.Context, sample string) ([]MeasurementRow, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	names, err := s.SampleColumns(ctx)
	if err != nil {
		return nil, err
	}
	column := ""
	for _, name := range names {
		if name == sample {
			column = name
			break
		}
	}
	if column == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, sample)
	}
	rows := []MeasurementRow{}
	query := fmt.Sprintf(`SELECT otu_id, otu_label, %s AS sample_value FROM samples`, quoteIdent(column))
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select sample %s: %w", sample, err)
	}
	return rows, nil
}
