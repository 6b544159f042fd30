package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/peterh/liner"

	"github.com/zephyrtronium/calc"
)

func main() {
	log.SetFlags(0)
	var (
		cfgname, prompt, history string
		given                    []Variable
		prec, digits             int
		echo                     bool
	)
	def := defaultConfig()
	addgiven := func(s string) error {
		v, err := parseGiven(s)
		if err != nil {
			return err
		}
		given = append(given, v)
		return nil
	}
	flag.StringVar(&cfgname, "config", "", "YAML configuration file")
	flag.IntVar(&prec, "p", int(def.Precision), "precision of extended calculations in bits")
	flag.IntVar(&digits, "digits", def.Digits, "significant digits in results, or -1 for the shortest exact form")
	flag.Func("given", "name=expr variable definition (any number of times)", addgiven)
	flag.BoolVar(&echo, "echo", false, "print parse trees")
	flag.StringVar(&prompt, "prompt", def.Prompt, "interactive prompt")
	flag.StringVar(&history, "history", def.History, "history file, or empty to disable history")
	flag.Parse()
	if prec < calc.MinPrec {
		log.Fatalf("precision (%d) must be at least %d", prec, calc.MinPrec)
	}

	cfg := def
	if cfgname != "" {
		var err error
		cfg, err = readConfig(cfgname)
		if err != nil {
			log.Fatal(err)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "p":
			cfg.Precision = uint(prec)
		case "digits":
			cfg.Digits = digits
		case "prompt":
			cfg.Prompt = prompt
		case "history":
			cfg.History = history
		}
	})
	cfg.Variables = append(cfg.Variables, given...)

	env, err := cfg.Env()
	if err != nil {
		log.Fatal(err)
	}
	s := &session{env: env, echo: echo}

	if flag.NArg() > 0 {
		failed := false
		for _, arg := range flag.Args() {
			more, ok := s.run(os.Stdout, arg)
			failed = failed || !ok
			if !more {
				break
			}
		}
		if failed {
			os.Exit(1)
		}
		return
	}
	if err := repl(s, cfg); err != nil {
		log.Fatal(err)
	}
}

// repl reads lines interactively until exit or end of input.
func repl(s *session, cfg *Config) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	hist := cfg.historyPath()
	if hist != "" {
		if err := loadHistory(ln, hist); err != nil {
			log.Print("reading history: ", err)
		}
		defer func() {
			if err := saveHistory(ln, hist); err != nil {
				log.Print("history not saved: ", err)
			}
		}()
	}

	fmt.Println("Type 'help' for assistance.")
	for {
		line, err := ln.Prompt(cfg.Prompt)
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			continue
		case errors.Is(err, io.EOF):
			fmt.Println()
			return nil
		case err != nil:
			return err
		}
		if line != "" {
			ln.AppendHistory(line)
		}
		if more, _ := s.run(os.Stdout, line); !more {
			return nil
		}
	}
}
