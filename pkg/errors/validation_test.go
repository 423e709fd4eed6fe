package errors

import (
	"testing"
)

func TestValidateDocumentSize(t *testing.T) {
	if err := ValidateDocumentSize(1024); err != nil {
		t.Errorf("small document rejected: %v", err)
	}
	if err := ValidateDocumentSize(MaxDocumentSize); err != nil {
		t.Errorf("document at the limit rejected: %v", err)
	}
	err := ValidateDocumentSize(MaxDocumentSize + 1)
	if !Is(err, ErrCodeInputTooLarge) {
		t.Errorf("oversized document: got %v, want %s", err, ErrCodeInputTooLarge)
	}
}

func TestValidateOutputFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"png", "json-tree.png", false},
		{"svg", "graph.svg", false},

		{"empty", "", true},
		{"path", "out/json-tree.png", true},
		{"traversal", "../json-tree.png", true},
		{"backslash", `out\x.png`, true},
		{"dot", ".", true},
		{"quote", `a".png`, true},
		{"newline", "a\n.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
