package ingest

import (
	"fmt"
	"strings"
)

const utf8BOM = "\ufeff"

// CleanHeaders trims header names, names blank headers column_N and
// de-duplicates repeated names. Names are otherwise kept verbatim so that
// lookups such as Loan_Status keep working.
func CleanHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	for i, h := range raw {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		headers[i] = cleanHeaderName(h, i)
	}
	return ValidateHeaders(headers)
}

// ValidateHeaders suffixes duplicates with _1, _2, ... skipping suffixes
// that collide with another header.
func ValidateHeaders(headers []string) []string {
	original := make(map[string]bool, len(headers))
	for _, h := range headers {
		original[h] = true
	}
	used := make(map[string]bool, len(headers))
	result := make([]string, len(headers))

	for i, header := range headers {
		if used[header] {
			base := header
			for counter := 1; used[header] || original[header]; counter++ {
				header = fmt.Sprintf("%s_%d", base, counter)
			}
		}
		used[header] = true
		result[i] = header
	}

	return result
}

func cleanHeaderName(header string, index int) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return generateColumnName(index)
	}
	return header
}

func generateColumnName(index int) string {
	return fmt.Sprintf("column_%d", index+1)
}
