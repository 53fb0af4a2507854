package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hazyhaar/nerprep/pkg/importer"
)

func cmdCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	_, logger := loadConfig(*cfgPath)
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: nerprep check <table.csv>...")
		os.Exit(1)
	}

	checker := importer.NewChecker(logger)
	bad := 0
	for _, path := range fs.Args() {
		rep, err := checker.CheckTable(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: ERROR: %v\n", path, err)
			bad++
			continue
		}
		status := "OK"
		if !rep.OK() {
			status = "INCONSISTENT"
			bad++
		}
		fmt.Printf("%s: %s (%d rows, %d not found, %d mismatched, %d bad iob, %d duplicates)\n",
			path, status, rep.Rows, rep.NotFound, rep.Mismatched, rep.BadIOB, rep.Duplicates)
	}
	if bad > 0 {
		os.Exit(1)
	}
}
