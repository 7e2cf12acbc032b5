package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

func writeJSONLine(v any) error {
	return writeJSONLineTo(os.Stdout, v)
}

func writeJSONLineTo(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return withCode(exitAPI, fmt.Errorf("json encode: %w", err))
	}
	return nil
}

func writeJSONDocument(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return withCode(exitAPI, fmt.Errorf("json encode: %w", err))
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
