package main

import (
	"errors"
	"testing"
)

func TestParseOptions(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/servicefinder")
	t.Setenv("DEFAULT_PHONE_REGION", "")

	tests := map[string]struct {
		args    []string
		wantErr bool
		check   func(t *testing.T, opts *options)
	}{
		"csv import": {
			args: []string{"--csv", " listings.csv ", "--region", "pt"},
			check: func(t *testing.T, opts *options) {
				if opts.CSV != "listings.csv" || opts.Region != "PT" {
					t.Fatalf("unexpected options: %+v", opts)
				}
				if opts.DatabaseURL != "postgres://localhost/servicefinder" {
					t.Fatalf("expected database url from env, got %s", opts.DatabaseURL)
				}
			},
		},
		"export import with default region": {
			args: []string{"--export-dir", "json_files"},
			check: func(t *testing.T, opts *options) {
				if opts.ExportDir != "json_files" || opts.Region != "BR" {
					t.Fatalf("unexpected options: %+v", opts)
				}
			},
		},
		"neither source": {args: []string{}, wantErr: true},
		"both sources":   {args: []string{"--csv", "a.csv", "--export-dir", "json_files"}, wantErr: true},
		"unknown flag":   {args: []string{"--csv", "a.csv", "--dry-run"}, wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			opts, err := parseOptions(tc.args)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tc.check(t, opts)
		})
	}
}

func TestParseOptionsHelp(t *testing.T) {
	if _, err := parseOptions([]string{"--help"}); !errors.Is(err, errHelp) {
		t.Fatalf("expected errHelp, got %v", err)
	}
}
