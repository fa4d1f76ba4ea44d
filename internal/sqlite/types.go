// File path: internal/sqlite/types.go
package sqlite

import "database/sql"

// MeasurementRow is one OTU row of the samples table projected onto a single
// sample column.
type MeasurementRow struct {
	OTUID    int64           `db:"otu_id"`
	OTULabel sql.NullString  `db:"otu_label"`
	Value    sql.NullFloat64 `db:"sample_value"`
}

// MetadataRow mirrors a sample_metadata record.
type MetadataRow struct {
	Sample    string          `db:"sample"`
	Ethnicity sql.NullString  `db:"ethnicity"`
	Gender    sql.NullString  `db:"gender"`
	Age       sql.NullFloat64 `db:"age"`
	Location  sql.NullString  `db:"location"`
	BBType    sql.NullString  `db:"bbtype"`
	WFreq     sql.NullFloat64 `db:"wfreq"`
}
