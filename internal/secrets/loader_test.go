package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	filled := filepath.Join(dir, "password")
	if err := os.WriteFile(filled, []byte("s3cret\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	empty := filepath.Join(dir, "empty")
	if err := os.WriteFile(empty, []byte("  \n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	t.Setenv("MOCK_INTERVIEW_TEST_PASSWORD", " from-env ")

	tests := []struct {
		name    string
		src     Source
		expect  string
		wantErr bool
		notConf bool
	}{
		{name: "file wins", src: Source{File: filled, Env: "MOCK_INTERVIEW_TEST_PASSWORD", Value: "inline"}, expect: "s3cret"},
		{name: "env before inline", src: Source{Env: "MOCK_INTERVIEW_TEST_PASSWORD", Value: "inline"}, expect: "from-env"},
		{name: "inline", src: Source{Value: "  inline "}, expect: "inline"},
		{name: "unset env falls back", src: Source{Env: "MOCK_INTERVIEW_TEST_UNSET", Value: "inline"}, expect: "inline"},
		{name: "empty file", src: Source{File: empty}, wantErr: true},
		{name: "missing file", src: Source{File: filepath.Join(dir, "missing")}, wantErr: true},
		{name: "nothing configured", src: Source{Name: "password"}, wantErr: true, notConf: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				if tt.notConf != errors.Is(err, ErrNotConfigured) {
					t.Fatalf("unexpected ErrNotConfigured match for %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
