package assets

import (
	"errors"
	"testing"
)

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		// Valid names
		{
			name:    "simple name",
			input:   "capture",
			wantErr: nil,
		},
		{
			name:    "name with hyphen",
			input:   "my-style",
			wantErr: nil,
		},
		{
			name:    "name with underscore",
			input:   "my_style",
			wantErr: nil,
		},
		{
			name:    "name with numbers",
			input:   "style123",
			wantErr: nil,
		},
		{
			name:    "mixed case",
			input:   "MyStyle",
			wantErr: nil,
		},

		// Invalid names
		{
			name:    "empty name",
			input:   "",
			wantErr: ErrInvalidAssetName,
		},
		{
			name:    "forward slash",
			input:   "styles/capture",
			wantErr: ErrInvalidAssetName,
		},
		{
			name:    "backslash",
			input:   "styles\\capture",
			wantErr: ErrInvalidAssetName,
		},
		{
			name:    "parent traversal",
			input:   "../etc/passwd",
			wantErr: ErrInvalidAssetName,
		},
		{
			name:    "dot extension",
			input:   "capture.css",
			wantErr: ErrInvalidAssetName,
		},
		{
			name:    "single dot",
			input:   ".",
			wantErr: ErrInvalidAssetName,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)

			if tt.wantErr != nil {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
