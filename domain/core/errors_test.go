package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsInputError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"matrix error", NewMatrixError("effects.csv", "no data rows"), true},
		{"wrapped gene column", fmt.Errorf("%w in drivers.tsv", ErrNoGeneColumn), true},
		{"missing column", fmt.Errorf("%w: ModelID", ErrColumnNotFound), true},
		{"empty panel", ErrEmptyMarkerPanel, true},
		{"plain error", errors.New("disk full"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInputError(tt.err); got != tt.want {
				t.Fatalf("IsInputError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
