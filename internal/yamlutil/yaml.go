// Package yamlutil wraps YAML parsing so callers never import the YAML library directly.
package yamlutil

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// MaxInputSize bounds YAML documents (1MB). Config files are far smaller.
var MaxInputSize = 1 << 20

var (
	ErrEmptyInput     = errors.New("yamlutil: empty input")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

func checkInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrEmptyInput
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

// DecodeStrict decodes data into v and rejects keys v does not declare.
func DecodeStrict(data []byte, v any) error {
	if err := checkInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// ReadStrict reads at most MaxInputSize+1 bytes from r and decodes them with DecodeStrict.
func ReadStrict(r io.Reader, v any) error {
	data, err := io.ReadAll(io.LimitReader(r, int64(MaxInputSize)+1))
	if err != nil {
		return fmt.Errorf("yamlutil: reading input: %w", err)
	}
	return DecodeStrict(data, v)
}

// Encode renders v as YAML.
func Encode(v any) ([]byte, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return out, nil
}
