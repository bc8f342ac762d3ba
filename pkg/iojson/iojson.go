// Package iojson reads and writes the JSON used by command line output and
// input files.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

// marshalFailure is written to the error stream when obj cannot be encoded,
// so scripts reading stderr still get JSON.
type marshalFailure struct {
	Message string `json:"message"`
	Error   string `json:"json_error"`
}

// WriteWith writes obj to w as indented JSON. An encoding failure is
// reported to ew as a JSON object instead.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		failure, _ := json.Marshal(marshalFailure{Message: "error marshaling output", Error: err.Error()})
		_, werr := fmt.Fprintln(ew, string(failure))
		return werr
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// WriteLine writes obj as a single compact JSON line, the format used for
// streaming listings.
func WriteLine(w io.Writer, obj any) error {
	bits, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("marshal json line: %w", err)
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}
