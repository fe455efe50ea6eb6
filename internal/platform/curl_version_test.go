package platform

import (
	"context"
	"errors"
	"testing"
)

func TestParseCurlVersion(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		expected string
		wantErr  error
	}{
		{
			name:     "curl banner",
			output:   "curl 8.5.0 (x86_64-pc-linux-gnu) libcurl/8.5.0 OpenSSL/3.0.13\nRelease-Date: 2023-12-06\n",
			expected: "8.5.0",
		},
		{
			name:     "single line",
			output:   "curl 7.88.1",
			expected: "7.88.1",
		},
		{
			name:    "other tool",
			output:  "wget 1.21\n",
			wantErr: ErrNotCurl,
		},
		{
			name:    "bare name",
			output:  "curl\n",
			wantErr: ErrNotCurl,
		},
		{
			name:    "empty",
			output:  "",
			wantErr: ErrNotCurl,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, err := ParseCurlVersion(tt.output)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if version != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, version)
			}
		})
	}
}

func TestCurlVersion_MissingExecutable(t *testing.T) {
	if _, err := CurlVersion(context.Background(), ""); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := CurlVersion(context.Background(), "/nonexistent/curl-binary"); err == nil {
		t.Error("expected error for missing executable")
	}
}

func TestExitCodeText(t *testing.T) {
	tests := map[int]string{
		0:   "Success",
		7:   "Failed to connect to host",
		28:  "Operation timeout",
		200: "Unknown exit code 200",
		-1:  "Unknown exit code -1",
	}
	for code, expected := range tests {
		if got := ExitCodeText(code); got != expected {
			t.Errorf("ExitCodeText(%d) = %q, expected %q", code, got, expected)
		}
	}
}
