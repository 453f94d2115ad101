package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jessevdk/go-flags"
)

// options are read from flags with environment fallbacks.
type options struct {
	DatabaseURL string `long:"database-url" env:"DATABASE_URL" description:"PostgreSQL connection string" required:"true"`
	RedisURL    string `long:"redis-url" env:"REDIS_URL" description:"Redis URL whose content cache is cleared after import"`
	CSV         string `long:"csv" description:"CSV file of listings to import"`
	ExportDir   string `long:"export-dir" description:"Directory holding states.json, cities.json and Listings.json"`
	Region      string `long:"region" env:"DEFAULT_PHONE_REGION" default:"BR" description:"Region used to normalise phone numbers"`
}

var errHelp = errors.New("help requested")

func parseOptions(args []string) (*options, error) {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, errHelp
		}
		return nil, fmt.Errorf("parse options: %w", err)
	}

	opts.CSV = strings.TrimSpace(opts.CSV)
	opts.ExportDir = strings.TrimSpace(opts.ExportDir)
	if (opts.CSV == "") == (opts.ExportDir == "") {
		return nil, errors.New("exactly one of --csv or --export-dir is required")
	}
	opts.Region = strings.ToUpper(strings.TrimSpace(opts.Region))
	if opts.Region == "" {
		opts.Region = "BR"
	}
	return &opts, nil
}
