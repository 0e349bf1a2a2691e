// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract flattens registry study documents into export rows.
//
// Each column is described by one entry of fieldTable: the dotted source
// path under the study document, and the placeholder used when the value
// is absent. Lookups never fail; a missing module, key, or empty list
// yields the placeholder, so every cell of a Row is a non-empty string.
package extract

import (
	"fmt"
	"strings"

	"github.com/Jeffail/gabs/v2"

	"github.com/pdiddy/ctgov-export/pkg/types"
)

// StudyLinkPrefix is prepended to the NCT ID to form the Study Link column.
const StudyLinkPrefix = "https://clinicaltrials.gov/ct2/show/"

// ListSeparator joins the items of list-valued columns.
const ListSeparator = ", "

// Placeholders for absent values.
const (
	Unknown            = "Unknown"
	UnknownDate        = "Unknown Date"
	NoConditions       = "No conditions listed"
	NoInterventions    = "No interventions listed"
	NoInterventionName = "No intervention name listed"
	NoLocations        = "No locations listed"
	NoCity             = "No City"
	NoCountry          = "No Country"
	PhasesNotAvailable = "Not Available"
)

// field maps one column to its value in a study document.
type field struct {
	col   types.Column
	value func(study *gabs.Container) string
}

// fieldTable lists every column except the Study Link, which is derived
// from the NCT ID after the table has been applied.
var fieldTable = []field{
	{types.ColNCTID, scalar("protocolSection.identificationModule.nctId", Unknown)},
	{types.ColAcronym, scalar("protocolSection.identificationModule.acronym", Unknown)},
	{types.ColOverallStatus, scalar("protocolSection.statusModule.overallStatus", Unknown)},
	{types.ColStartDate, scalar("protocolSection.statusModule.startDateStruct.date", UnknownDate)},
	{types.ColPrimaryCompletionDate, scalar("protocolSection.statusModule.primaryCompletionDateStruct.date", UnknownDate)},
	{types.ColStudyFirstPostDate, scalar("protocolSection.statusModule.studyFirstPostDateStruct.date", UnknownDate)},
	{types.ColLastUpdatePostDate, scalar("protocolSection.statusModule.lastUpdatePostDateStruct.date", UnknownDate)},
	{types.ColConditions, list("protocolSection.conditionsModule.conditions", NoConditions, plainItem)},
	{types.ColInterventions, list("protocolSection.armsInterventionsModule.interventions", NoInterventions, interventionItem)},
	{types.ColLocations, list("protocolSection.contactsLocationsModule.locations", NoLocations, locationItem)},
	{types.ColStudyType, scalar("protocolSection.designModule.studyType", Unknown)},
	{types.ColPhases, list("protocolSection.designModule.phases", PhasesNotAvailable, plainItem)},
	{types.ColCriterion, scalar("protocolSection.eligibilityModule.eligibilityCriteria", Unknown)},
}

// Extract flattens one study into a Row. The record is not modified and
// the same record always yields the same Row.
func Extract(rec types.Record) types.Row {
	study := gabs.Wrap(map[string]any(rec))

	var row types.Row
	for _, f := range fieldTable {
		row[f.col] = f.value(study)
	}
	row[types.ColStudyLink] = StudyLinkPrefix + row[types.ColNCTID]
	return row
}

// ExtractAll flattens records in order. Duplicate records yield duplicate rows.
func ExtractAll(recs []types.Record) []types.Row {
	rows := make([]types.Row, len(recs))
	for i, rec := range recs {
		rows[i] = Extract(rec)
	}
	return rows
}

// scalar reads a single value at path, falling back to def when the value
// is absent, null, or an empty string.
func scalar(path, def string) func(*gabs.Container) string {
	return func(study *gabs.Container) string {
		return text(study.Path(path), def)
	}
}

// list reads an array at path, formats each element with item, and joins
// the results. Every element is kept, blank ones included, so N elements
// always yield N-1 separators. An absent or empty array yields def, as does
// a single blank element.
func list(path, def string, item func(*gabs.Container) string) func(*gabs.Container) string {
	return func(study *gabs.Container) string {
		arr, ok := study.Path(path).Data().([]any)
		if !ok || len(arr) == 0 {
			return def
		}
		parts := make([]string, len(arr))
		for i, el := range arr {
			parts[i] = item(gabs.Wrap(el))
		}
		if joined := strings.Join(parts, ListSeparator); joined != "" {
			return joined
		}
		return def
	}
}

func plainItem(el *gabs.Container) string {
	return text(el, "")
}

func interventionItem(el *gabs.Container) string {
	return text(el.Path("name"), NoInterventionName)
}

func locationItem(el *gabs.Container) string {
	return text(el.Path("city"), NoCity) + " - " + text(el.Path("country"), NoCountry)
}

// text renders a JSON scalar. Objects and arrays count as absent.
func text(c *gabs.Container, def string) string {
	switch v := c.Data().(type) {
	case nil:
		return def
	case string:
		if strings.TrimSpace(v) == "" {
			return def
		}
		return v
	case map[string]any, []any:
		return def
	default:
		return fmt.Sprint(v)
	}
}
