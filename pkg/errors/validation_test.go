package errors

import "testing"

func TestValidateGraphID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "terrain", false},
		{"with dash and dot", "my-graph.v2", false},
		{"uuid", "7a1f3c2e-9d4b-4a8e-b1c6-0f2d3e4a5b6c", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"traversal", "..", true},
		{"hidden", ".graph", true},
		{"null byte", "a\x00b", true},
		{"newline", "a\nb", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGraphID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGraphID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidID) {
				t.Errorf("ValidateGraphID(%q) code = %v", tt.input, GetCode(err))
			}
		})
	}
}

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"NoiseFbm##3", false},
		{"a/b", false},
		{"", true},
		{"   ", true},
		{"a\tb", true},
	}
	for _, tt := range tests {
		if err := ValidateNodeID(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
