package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// parseSelectSpec expands a 1-based selection like "1,3-5,9" into sorted,
// deduplicated 0-based hunk positions. count is the number of hunks in the
// model and bounds every entry.
func parseSelectSpec(spec string, count int) ([]int, error) {
	seen := make(map[int]bool)
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("selection %q has an empty entry", spec)
		}
		first, second, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(strings.TrimSpace(first))
		if err != nil {
			return nil, fmt.Errorf("selection entry %q is not a number", part)
		}
		end := start
		if isRange {
			end, err = strconv.Atoi(strings.TrimSpace(second))
			if err != nil {
				return nil, fmt.Errorf("selection entry %q is not a number", part)
			}
		}
		if start > end {
			return nil, fmt.Errorf("selection range %q runs backwards", part)
		}
		for n := start; n <= end; n++ {
			if n < 1 || n > count {
				return nil, fmt.Errorf("hunk %d is out of range 1-%d", n, count)
			}
			seen[n-1] = true
		}
	}
	positions := make([]int, 0, len(seen))
	for pos := range seen {
		positions = append(positions, pos)
	}
	sort.Ints(positions)
	return positions, nil
}
