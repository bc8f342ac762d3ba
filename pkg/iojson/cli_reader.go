package iojson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// FileReader decodes one T from the file named by its --file flag. The path
// "-" reads standard input. Unknown fields are rejected.
type FileReader[T any] struct {
	path string

	// Stdin replaces os.Stdin for "-". Used by tests.
	Stdin io.Reader
}

// Flag returns the --file flag bound to the reader.
func (fr *FileReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "read a JSON object from this file ('-' for stdin)",
		Destination: &fr.path,
	}
}

// Provided reports whether a file path was given on the command line.
func (fr *FileReader[T]) Provided() bool {
	return fr.path != ""
}

// Read opens the source and decodes it.
func (fr *FileReader[T]) Read() (T, error) {
	var zero T

	if fr.path == "-" {
		stdin := fr.Stdin
		if stdin == nil {
			if term.IsTerminal(int(os.Stdin.Fd())) {
				return zero, errors.New("stdin is a terminal; pipe JSON in or pass a file path")
			}
			stdin = os.Stdin
		}
		return decode[T](stdin)
	}

	f, err := os.Open(fr.path)
	if err != nil {
		return zero, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return decode[T](f)
}

func decode[T any](r io.Reader) (T, error) {
	var v T
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("decode JSON: %w", err)
	}
	return v, nil
}
