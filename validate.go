package linefold

import (
	"errors"
	"unicode/utf8"
)

var (
	// ErrInvalidUTF8 reports invalid UTF-8 input.
	ErrInvalidUTF8 = errors.New("invalid utf-8 input")
	// ErrBinaryInput reports input that appears to be binary.
	ErrBinaryInput = errors.New("binary input detected")
)

const (
	minBinarySample = 64
	maxControlPct   = 2
)

// ValidateInput returns an error if text to be segmented is not valid
// UTF-8 or appears binary. The engine itself never raises; this guards the
// boundary where raw input enters the pipeline. A NUL byte rejects
// immediately; otherwise input at least minBinarySample bytes long is
// rejected when control bytes (outside tab through carriage return)
// exceed maxControlPct percent.
func ValidateInput(src []byte) error {
	if !utf8.Valid(src) {
		return ErrInvalidUTF8
	}
	control := 0
	for _, b := range src {
		switch {
		case b == 0x00:
			return ErrBinaryInput
		case b < 0x09, b > 0x0D && b < 0x20, b == 0x7F:
			control++
		}
	}
	if len(src) >= minBinarySample && control*100 >= len(src)*maxControlPct {
		return ErrBinaryInput
	}
	return nil
}
