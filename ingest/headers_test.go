package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanHeaders(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "Valid headers",
			input: []string{"Loan_ID", "Gender", "Loan_Status"},
			want:  []string{"Loan_ID", "Gender", "Loan_Status"},
		},
		{
			name:  "Whitespace is trimmed",
			input: []string{" Age ", "Income\t"},
			want:  []string{"Age", "Income"},
		},
		{
			name:  "Empty headers",
			input: []string{"", "b", " "},
			want:  []string{"column_1", "b", "column_3"},
		},
		{
			name:  "Duplicate headers",
			input: []string{"Name", "Name", "Name", "Age"},
			want:  []string{"Name", "Name_1", "Name_2", "Age"},
		},
		{
			name:  "Duplicate suffix collides with existing header",
			input: []string{"a", "a", "a_1"},
			want:  []string{"a", "a_2", "a_1"},
		},
		{
			name:  "Byte order mark",
			input: []string{"\ufeffAge", "Gender"},
			want:  []string{"Age", "Gender"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanHeaders(tt.input))
		})
	}
}
