package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hazyhaar/nerprep/pkg/importer"
)

func cmdConvert(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	source := fs.String("source", "", "converter ID to run (e.g. tasteset)")
	all := fs.Bool("all", false, "run every converter")
	input := fs.String("input", "", "input file, directory or http(s) URL (default: the converter's)")
	outputDir := fs.String("output-dir", "", "output directory for entity tables")
	encoding := fs.String("encoding", "", "input text encoding (e.g. windows-1252)")
	limit := fs.Int("limit", 0, "read at most this many sentences (0 = all)")
	fs.Parse(args)

	cfg, logger := loadConfig(*cfgPath)
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *encoding != "" {
		cfg.Encoding = *encoding
	}

	if !*all && *source == "" {
		printConverters()
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  nerprep convert --source <id> [--input <path|url>] [--output-dir <dir>]")
		fmt.Println("  nerprep convert --all [--output-dir <dir>]")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var convs []importer.Converter
	if *all {
		if *input != "" {
			fmt.Fprintln(os.Stderr, "Error: --input needs --source")
			os.Exit(1)
		}
		convs = importer.All()
	} else {
		c, err := importer.Get(*source)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
			printConverters()
			os.Exit(1)
		}
		convs = []importer.Converter{c}
	}

	failed := 0
	for _, c := range convs {
		in := *input
		if in == "" {
			in = cfg.Inputs[c.ID()]
		}
		logger.Info("converting", "source", c.ID())
		stats, err := c.Convert(ctx, importer.Options{
			Input:     in,
			OutputDir: cfg.OutputDir,
			Encoding:  cfg.Encoding,
			Limit:     *limit,
			Logger:    logger,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "[%s] ERROR: %v\n", c.ID(), err)
			failed++
			continue
		}
		fmt.Printf("[%s] OK -> %s (%d sentences, %d entities, %d unique, %d duplicates removed, %d skipped)\n",
			c.ID(), stats.Output, stats.Sentences, stats.Entities, stats.UniqueEntities, stats.Duplicates, stats.Skipped)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func cmdList() {
	printConverters()
}

func printConverters() {
	fmt.Println("Available converters:")
	fmt.Println()
	for _, c := range importer.All() {
		fmt.Printf("  %-12s  %s  (-> %s, %s)\n", c.ID(), c.Description(), c.OutputFile(), c.License())
	}
}
