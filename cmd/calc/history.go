package main

import (
	"errors"
	"io"
	"io/fs"
	"os"
)

// history is the part of a line editor that persists entered lines.
type history interface {
	ReadHistory(r io.Reader) (int, error)
	WriteHistory(w io.Writer) (int, error)
}

// loadHistory reads the history file into h. A missing file is not an error.
func loadHistory(h history, name string) error {
	f, err := os.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()
	_, err = h.ReadHistory(f)
	return err
}

// saveHistory writes the lines of h to the history file, replacing it.
func saveHistory(h history, name string) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if _, err := h.WriteHistory(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
