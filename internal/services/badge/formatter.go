// SPDX-License-Identifier: AGPL-3.0-or-later

package badge

import (
	"fmt"
	"strconv"
)

var compactUnits = []struct {
	limit  int64
	suffix string
}{
	{1_000_000_000, "B"},
	{1_000_000, "M"},
	{1_000, "k"},
}

// FormatViews formats a view count for the message side of a badge. In
// compact mode large counts are shortened with k/M/B suffixes.
func FormatViews(n int64, compact bool) string {
	if n < 0 {
		n = 0
	}
	if !compact {
		return strconv.FormatInt(n, 10)
	}
	for _, u := range compactUnits {
		if n >= u.limit {
			return fmt.Sprintf("%.1f%s", float64(n)/float64(u.limit), u.suffix)
		}
	}
	return strconv.FormatInt(n, 10)
}
