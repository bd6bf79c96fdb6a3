package main

import (
	"fmt"
	"io"
	"os"

	"github.com/example/picannotate/internal/annotation"
	"github.com/example/picannotate/internal/clipboard"
)

var (
	stdin io.Reader = os.Stdin

	readClipboardAnnotations = clipboard.ReadAnnotations
)

// readAnnotations loads a JSON annotation array from path, "-" for stdin
// and "clipboard:" for the clipboard text. An empty path yields nil.
func readAnnotations(path string) ([]annotation.Annotation, error) {
	if path == "" {
		return nil, nil
	}
	switch path {
	case "-":
		return annotation.Decode(stdin)
	case "clipboard:":
		list, err := readClipboardAnnotations()
		if err != nil {
			return nil, fmt.Errorf("clipboard annotations: %w", err)
		}
		return list, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open annotations: %w", err)
	}
	defer f.Close()
	list, err := annotation.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return list, nil
}
