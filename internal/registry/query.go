// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry pages through the ClinicalTrials.gov v2 studies endpoint.
// A Query seeds the filters; Client follows nextPageToken until the
// registry stops returning one or answers with a non-success status.
package registry

import (
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// PageSize is the number of studies requested per page in every mode.
const PageSize = 100

// Filter keys understood by the studies endpoint.
const (
	FilterID       = "query.id"
	FilterLocation = "query.locn"
	FilterSponsor  = "query.spons"
)

const (
	paramPageSize  = "pageSize"
	paramPageToken = "pageToken"
)

// ErrEmptyQuery is returned by Validate when a query has no filter.
var ErrEmptyQuery = errors.New("query has no filter: provide an NCT ID, a location, or a sponsor")

// Query holds the filters and pagination state of one logical request.
// The page token is empty on the first request and is only set from a
// prior response through WithPageToken.
type Query struct {
	filters   map[string]string
	pageSize  int
	pageToken string
}

// ByID builds an identifier-only query.
func ByID(id string) *Query {
	q := newQuery()
	q.set(FilterID, id)
	return q
}

// ByLocationOrSponsor builds a query on location text, sponsor text, or
// both. Empty arguments are left out.
func ByLocationOrSponsor(location, sponsor string) *Query {
	q := newQuery()
	q.set(FilterLocation, location)
	q.set(FilterSponsor, sponsor)
	return q
}

func newQuery() *Query {
	return &Query{filters: make(map[string]string), pageSize: PageSize}
}

func (q *Query) set(key, value string) {
	if v := strings.TrimSpace(value); v != "" {
		q.filters[key] = v
	}
}

// Filter returns the value of a filter key and whether it is present.
func (q *Query) Filter(key string) (string, bool) {
	v, ok := q.filters[key]
	return v, ok
}

// PageToken returns the continuation token of the next request, if any.
func (q *Query) PageToken() string { return q.pageToken }

// WithPageToken sets the continuation token for the next request.
func (q *Query) WithPageToken(tok string) { q.pageToken = tok }

// Validate reports ErrEmptyQuery when no filter key is set.
func (q *Query) Validate() error {
	if q == nil || len(q.filters) == 0 {
		return ErrEmptyQuery
	}
	return nil
}

// Values encodes the query as URL parameters.
func (q *Query) Values() url.Values {
	v := url.Values{}
	for k, val := range q.filters {
		v.Set(k, val)
	}
	v.Set(paramPageSize, strconv.Itoa(q.pageSize))
	if q.pageToken != "" {
		v.Set(paramPageToken, q.pageToken)
	}
	return v
}

// String is a compact human-readable form used in log lines.
func (q *Query) String() string {
	if q == nil {
		return ""
	}
	keys := make([]string, 0, len(q.filters))
	for k := range q.filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + q.filters[k]
	}
	return strings.Join(parts, " ")
}
