// Package clipboard publishes annotation data and rendered images to the
// desktop clipboard and reads images back from it.
package clipboard

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/example/picannotate/internal/annotation"
)

type format int

const (
	formatText format = iota
	formatImage
)

// WriteImage encodes the provided image as PNG and publishes it to the clipboard.
func WriteImage(img image.Image) error {
	if err := ensureInit(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	return writeData(formatImage, buf.Bytes())
}

// ReadImage retrieves PNG image data from the clipboard and decodes it.
func ReadImage() (image.Image, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	data, err := readData(formatImage)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("clipboard does not contain image data")
	}
	return png.Decode(bytes.NewReader(data))
}

// WriteText writes text data to the clipboard.
func WriteText(text string) error {
	if err := ensureInit(); err != nil {
		return err
	}
	return writeData(formatText, []byte(text))
}

// ReadText returns UTF-8 text data from the clipboard.
func ReadText() (string, error) {
	if err := ensureInit(); err != nil {
		return "", err
	}
	data, err := readData(formatText)
	if err != nil {
		return "", err
	}
	// Trim trailing null byte some applications include in STRING responses.
	data = bytes.TrimSuffix(data, []byte{0})
	if len(data) == 0 {
		return "", fmt.Errorf("clipboard does not contain text data")
	}
	return string(data), nil
}

// WriteAnnotations copies the list as a JSON array.
func WriteAnnotations(list []annotation.Annotation) error {
	text, err := encodeAnnotations(list)
	if err != nil {
		return err
	}
	return WriteText(text)
}

// ReadAnnotations parses a JSON annotation array held as clipboard text.
func ReadAnnotations() ([]annotation.Annotation, error) {
	text, err := ReadText()
	if err != nil {
		return nil, err
	}
	return annotation.Decode(strings.NewReader(text))
}

func encodeAnnotations(list []annotation.Annotation) (string, error) {
	var buf bytes.Buffer
	if err := annotation.Encode(&buf, list); err != nil {
		return "", fmt.Errorf("encode annotations: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
