// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the ctgov-export pipeline:
// the fixed export columns, the flattened Row, and stage configuration.
package types

// Column identifies one field of an exported study row. The declaration
// order of the constants is the column order of every output format.
type Column int

const (
	ColNCTID Column = iota
	ColAcronym
	ColStudyLink
	ColOverallStatus
	ColStartDate
	ColPrimaryCompletionDate
	ColStudyFirstPostDate
	ColLastUpdatePostDate
	ColConditions
	ColInterventions
	ColLocations
	ColStudyType
	ColPhases
	ColCriterion

	// NumColumns is the number of exported columns.
	NumColumns int = iota
)

var columnNames = [NumColumns]string{
	ColNCTID:                 "NCT ID",
	ColAcronym:               "Acronym",
	ColStudyLink:             "Study Link",
	ColOverallStatus:         "Overall Status",
	ColStartDate:             "Start Date",
	ColPrimaryCompletionDate: "Primary Completion Date",
	ColStudyFirstPostDate:    "Study First Post Date",
	ColLastUpdatePostDate:    "Last Update Post Date",
	ColConditions:            "Conditions",
	ColInterventions:         "Interventions",
	ColLocations:             "Locations",
	ColStudyType:             "Study Type",
	ColPhases:                "Phases",
	ColCriterion:             "Criterion",
}

// String returns the header name of the column.
func (c Column) String() string {
	if c < 0 || int(c) >= NumColumns {
		return "Column(?)"
	}
	return columnNames[c]
}

// Columns returns every column in export order.
func Columns() []Column {
	cols := make([]Column, NumColumns)
	for i := range cols {
		cols[i] = Column(i)
	}
	return cols
}

// Header returns the column names in export order.
func Header() []string {
	h := make([]string, NumColumns)
	copy(h, columnNames[:])
	return h
}

// Row is one study flattened to the fixed export columns. It is an array so
// that every column is always present; the extractor fills each cell with a
// placeholder when the source field is missing.
type Row [NumColumns]string

// Get returns the value of column c.
func (r Row) Get(c Column) string { return r[c] }

// Values returns the row cells in export order.
func (r Row) Values() []string {
	v := make([]string, NumColumns)
	copy(v, r[:])
	return v
}

// Record is one study document as decoded from the registry response. The
// extractor only reads from it.
type Record map[string]any
