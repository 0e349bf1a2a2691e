// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/ctgov-export/pkg/types"
)

// FormatTable writes a short human-readable preview of rows to w.
func FormatTable(w io.Writer, rows []types.Row) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No studies found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-12s  %-24s  %-12s  %-16s  %s\n",
		"#", "NCT ID", "Overall Status", "Start Date", "Study Type", "Conditions")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, r := range rows {
		fmt.Fprintf(w, "%-4d  %-12s  %-24s  %-12s  %-16s  %s\n",
			i+1,
			truncate(r.Get(types.ColNCTID), 12),
			truncate(r.Get(types.ColOverallStatus), 24),
			truncate(r.Get(types.ColStartDate), 12),
			truncate(r.Get(types.ColStudyType), 16),
			truncate(r.Get(types.ColConditions), 30))
	}

	fmt.Fprintf(w, "\n%d studies\n", len(rows))
}

// truncate shortens s to at most max runes so multi-byte text stays valid UTF-8.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max-3]) + "..."
}
