package parse

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ChapterSelection parses a selection like "1-3,5,7.5" against the available
// chapter numbers. Ranges only select numbers that exist; single numbers are
// returned as given so the caller can report the missing ones.
func ChapterSelection[V any](input string, availableChapters map[float64]V) ([]float64, error) {
	parts := strings.Split(input, ",")
	uniqueChapters := make(map[float64]bool)

	for _, part := range parts {
		if strings.Contains(part, "-") {
			rangeParts := strings.Split(part, "-")
			if len(rangeParts) != 2 {
				return nil, errors.Errorf("invalid range format: %s", part)
			}
			start, end, err := getRange(rangeParts)
			if err != nil {
				return nil, err
			}

			for chapter := range availableChapters {
				if chapter >= start && chapter <= end {
					uniqueChapters[chapter] = true
				}
			}
		} else {
			chapter, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return nil, errors.Errorf("invalid chapter number: %s", part)
			}
			uniqueChapters[chapter] = true
		}
	}

	selectedChapters := make([]float64, 0, len(uniqueChapters))
	for chapterNumber := range uniqueChapters {
		selectedChapters = append(selectedChapters, chapterNumber)
	}
	slices.Sort(selectedChapters)

	return selectedChapters, nil
}

// getRange parses the two ends of a chapter range
func getRange(rangeParts []string) (float64, float64, error) {
	start, err := strconv.ParseFloat(strings.TrimSpace(rangeParts[0]), 64)
	if err != nil {
		return 0, 0, errors.Errorf("invalid start of range: %s", rangeParts[0])
	}
	end, err := strconv.ParseFloat(strings.TrimSpace(rangeParts[1]), 64)
	if err != nil {
		return 0, 0, errors.Errorf("invalid end of range: %s", rangeParts[1])
	}

	if start > end {
		return 0, 0, errors.Errorf("start of range should not be greater than end: %s-%s", rangeParts[0], rangeParts[1])
	}

	return start, end, nil
}

// GetMinAndMaxKeys returns the lowest and highest keys from a map that has keys that can be ordered
func GetMinAndMaxKeys[K cmp.Ordered, V any](someMap map[K]V) ([]K, []K, error) {
	if len(someMap) == 0 {
		var zero []K
		return zero, zero, errors.New("map is empty")
	}

	keys := make([]K, 0, len(someMap))
	for key := range someMap {
		keys = append(keys, key)
	}

	return []K{slices.Min(keys)}, []K{slices.Max(keys)}, nil
}
