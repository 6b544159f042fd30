package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/calc"
)

// Config holds the settings of a calculator session.
type Config struct {
	// Precision is the precision in bits of extended calculations.
	Precision uint `yaml:"precision"`
	// Digits is the number of significant digits printed for results.
	Digits int `yaml:"digits"`
	// Prompt is the interactive prompt.
	Prompt string `yaml:"prompt"`
	// History is the history file. Empty disables history.
	History string `yaml:"history"`
	// Variables are defined in order before the first line is read.
	Variables []Variable `yaml:"variables"`
}

// Variable is a variable definition. Value is an expression, which may refer
// to the constants and to variables defined earlier.
type Variable struct {
	Name     string `yaml:"name"`
	Value    string `yaml:"value"`
	Preserve bool   `yaml:"preserve"`
}

func defaultConfig() *Config {
	return &Config{
		Precision: calc.MinPrec,
		Digits:    15,
		Prompt:    "> ",
		History:   "~/.calc_history",
	}
}

// LoadConfig decodes a YAML configuration. Settings missing from the document
// keep their defaults.
func LoadConfig(r io.Reader) (*Config, error) {
	cfg := defaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readConfig(name string) (*Config, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg, err := LoadConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.Precision < calc.MinPrec {
		return fmt.Errorf("precision (%d) must be at least %d", cfg.Precision, calc.MinPrec)
	}
	for i, v := range cfg.Variables {
		if !isName(v.Name) {
			return fmt.Errorf("variable %d: %q is not a variable name", i+1, v.Name)
		}
		if strings.TrimSpace(v.Value) == "" {
			return fmt.Errorf("variable %s has no value", v.Name)
		}
	}
	return nil
}

// isName reports whether s lexes as exactly one variable name.
func isName(s string) bool {
	toks, err := calc.Tokenize(s)
	return err == nil && len(toks) == 2 && toks[0].Kind == calc.TokenVar && toks[0].Text == s
}

// parseGiven parses a -given flag value of the form name=expr.
func parseGiven(s string) (Variable, error) {
	d := strings.SplitN(s, "=", 2)
	if len(d) != 2 {
		return Variable{}, fmt.Errorf(`variable definitions must be "name=expr", not %q`, s)
	}
	v := Variable{Name: strings.TrimSpace(d[0]), Value: strings.TrimSpace(d[1])}
	if !isName(v.Name) {
		return Variable{}, fmt.Errorf("%q is not a variable name", v.Name)
	}
	return v, nil
}

// Env creates an environment from the configuration and defines its
// variables.
func (cfg *Config) Env() (*calc.Env, error) {
	env := calc.NewEnv(calc.Prec(cfg.Precision), calc.Digits(cfg.Digits))
	for _, v := range cfg.Variables {
		e, target, err := calc.Parse(v.Value)
		if err != nil {
			return nil, fmt.Errorf("setting %s: %w", v.Name, err)
		}
		if target != "" {
			return nil, fmt.Errorf("setting %s: value is an assignment", v.Name)
		}
		r, err := env.Eval(e)
		if err != nil {
			return nil, fmt.Errorf("setting %s: %w", v.Name, err)
		}
		env.Assign(v.Name, r)
		if v.Preserve {
			if err := env.Preserve(v.Name); err != nil {
				return nil, err
			}
		}
	}
	return env, nil
}

// historyPath expands a leading ~ in the history file name.
func (cfg *Config) historyPath() string {
	h := cfg.History
	if h == "~" || strings.HasPrefix(h, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		return filepath.Join(home, h[1:])
	}
	return h
}
