package receipt

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned when the model produced no text at all.
var ErrEmptyResponse = errors.New("empty response from model")

// DecodeError reports that the cleaned model output was not a valid JSON
// array of the expected shape. Raw carries the original, uncleaned text for
// diagnostics.
type DecodeError struct {
	Raw string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode model output: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
