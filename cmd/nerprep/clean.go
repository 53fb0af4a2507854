package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/hazyhaar/nerprep/pkg/cleaner"
)

func cmdClean(args []string) {
	fs := flag.NewFlagSet("clean", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	cleanerCfg := fs.String("cleaner-config", "", "YAML or JSON cleaner config (overrides cleaner_config)")
	tokens := fs.Bool("tokens", false, "print space-separated tokens instead of text")
	lemmaTable := fs.String("lemmas", "", "form,lemma table replacing the built-in lemmatizer")
	fs.Parse(args)

	cfg, logger := loadConfig(*cfgPath)
	if *cleanerCfg != "" {
		cfg.CleanerConfig = *cleanerCfg
	}

	cc := cleaner.DefaultConfig()
	if cfg.CleanerConfig != "" {
		cc = cleaner.LoadConfig(cfg.CleanerConfig, logger)
	}
	wantTokens := *tokens || cc.ReturnTokens

	var res *cleaner.Resources
	if cc.RemoveStopwords || cc.Lemmatize || wantTokens || *lemmaTable != "" {
		r, err := cleaner.NewResources(cc.Language)
		if err != nil {
			logger.Error("load resources", "language", cc.Language, "error", err)
			os.Exit(1)
		}
		if *lemmaTable != "" {
			forms, err := cleaner.LoadLemmaTable(*lemmaTable)
			if err != nil {
				logger.Error("load lemma table", "error", err)
				os.Exit(1)
			}
			r.Lemmatizer = &cleaner.MapLemmatizer{Forms: forms, Next: r.Lemmatizer}
		}
		res = r
	}
	c := cleaner.New(cc, res)

	emit := func(text string) {
		if wantTokens {
			toks, _ := c.Tokens(text)
			fmt.Println(strings.Join(toks, " "))
			return
		}
		out, _ := c.Clean(text)
		fmt.Println(out)
	}

	if fs.NArg() > 0 {
		emit(strings.Join(fs.Args(), " "))
		return
	}

	scan := bufio.NewScanner(os.Stdin)
	scan.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scan.Scan() {
		emit(scan.Text())
	}
	if err := scan.Err(); err != nil {
		logger.Error("read stdin", "error", err)
		os.Exit(1)
	}
}
