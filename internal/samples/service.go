// File path: internal/samples/service.go

// Package samples answers the read queries behind the dashboard: which
// samples exist, who each sample came from, and which OTUs were counted in it.
package samples

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nicodishanthj/bellybutton/internal/common"
	"github.com/nicodishanthj/bellybutton/internal/sqlite"
)

var (
	// ErrSampleNotFound reports a sample identifier with no count column.
	ErrSampleNotFound = errors.New("sample not found")
	// ErrDuplicateSample reports more than one metadata record for a sample.
	ErrDuplicateSample = errors.New("duplicate sample metadata")
	// ErrEmptySample reports a blank sample identifier.
	ErrEmptySample = errors.New("sample identifier required")
)

// minCount is the exclusive lower bound for a count to be reported.
const minCount = 1

// Source is the storage contract the service reads from. *sqlite.Store
// satisfies it.
type Source interface {
	SampleColumns(ctx context.Context) ([]string, error)
	MetadataRecords(ctx context.Context, sample string) ([]sqlite.MetadataRow, error)
	MeasurementRows(ctx context.Context, sample string) ([]sqlite.MeasurementRow, error)
}

// Metadata is the demographic record of one sample.
type Metadata struct {
	Sample    string   `json:"sample"`
	Ethnicity *string  `json:"ETHNICITY"`
	Gender    *string  `json:"GENDER"`
	Age       *float64 `json:"AGE"`
	Location  *string  `json:"LOCATION"`
	BBType    *string  `json:"BBTYPE"`
	WFreq     *float64 `json:"WFREQ"`
}

// Measurements holds the OTUs counted in a sample as index-aligned slices,
// ordered by count descending.
type Measurements struct {
	OTUIDs       []int64   `json:"otu_ids"`
	SampleValues []float64 `json:"sample_values"`
	OTULabels    []string  `json:"otu_labels"`
}

// Len returns the number of OTUs in m.
func (m Measurements) Len() int {
	return len(m.OTUIDs)
}

// Service runs the read queries against a Source.
type Service struct {
	source Source
}

// NewService returns a Service reading from source.
func NewService(source Source) (*Service, error) {
	if source == nil {
		return nil, fmt.Errorf("sample source required")
	}
	return &Service{source: source}, nil
}

// Names lists the sample identifiers in table column order.
func (s *Service) Names(ctx context.Context) ([]string, error) {
	names, err := s.source.SampleColumns(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sample names: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// Metadata looks up the record for sample. The boolean is false when no
// record exists.
func (s *Service) Metadata(ctx context.Context, sample string) (Metadata, bool, error) {
	if strings.TrimSpace(sample) == "" {
		return Metadata{}, false, ErrEmptySample
	}
	rows, err := s.source.MetadataRecords(ctx, sample)
	if err != nil {
		return Metadata{}, false, fmt.Errorf("load metadata for %s: %w", sample, err)
	}
	switch len(rows) {
	case 0:
		return Metadata{}, false, nil
	case 1:
		return metadataFromRow(rows[0]), true, nil
	default:
		common.Logger().Error("samples: metadata integrity violated", "sample", sample, "records", len(rows))
		return Metadata{}, false, fmt.Errorf("%w: %s has %d records", ErrDuplicateSample, sample, len(rows))
	}
}

// Measurements returns the OTUs whose count in sample exceeds one, largest
// count first. Rows with equal counts keep their table order. sample must
// match a column name exactly; surrounding whitespace is not stripped.
func (s *Service) Measurements(ctx context.Context, sample string) (Measurements, error) {
	if strings.TrimSpace(sample) == "" {
		return Measurements{}, ErrEmptySample
	}
	rows, err := s.source.MeasurementRows(ctx, sample)
	if err != nil {
		if errors.Is(err, sqlite.ErrUnknownColumn) {
			return Measurements{}, fmt.Errorf("%w: %s", ErrSampleNotFound, sample)
		}
		return Measurements{}, fmt.Errorf("load measurements for %s: %w", sample, err)
	}
	return buildMeasurements(rows), nil
}

func buildMeasurements(rows []sqlite.MeasurementRow) Measurements {
	kept := make([]sqlite.MeasurementRow, 0, len(rows))
	for _, row := range rows {
		if !row.Value.Valid || row.Value.Float64 <= minCount {
			continue
		}
		kept = append(kept, row)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Value.Float64 > kept[j].Value.Float64
	})
	out := Measurements{
		OTUIDs:       make([]int64, 0, len(kept)),
		SampleValues: make([]float64, 0, len(kept)),
		OTULabels:    make([]string, 0, len(kept)),
	}
	for _, row := range kept {
		out.OTUIDs = append(out.OTUIDs, row.OTUID)
		out.SampleValues = append(out.SampleValues, row.Value.Float64)
		out.OTULabels = append(out.OTULabels, row.OTULabel.String)
	}
	return out
}

func metadataFromRow(row sqlite.MetadataRow) Metadata {
	return Metadata{
		Sample:    row.Sample,
		Ethnicity: nullableString(row.Ethnicity.String, row.Ethnicity.Valid),
		Gender:    nullableString(row.Gender.String, row.Gender.Valid),
		Age:       nullableFloat(row.Age.Float64, row.Age.Valid),
		Location:  nullableString(row.Location.String, row.Location.Valid),
		BBType:    nullableString(row.BBType.String, row.BBType.Valid),
		WFreq:     nullableFloat(row.WFreq.Float64, row.WFreq.Valid),
	}
}

func nullableString(value string, valid bool) *string {
	if !valid {
		return nil
	}
	return &value
}

func nullableFloat(value float64, valid bool) *float64 {
	if !valid {
		return nil
	}
	return &value
}
