package payload

import (
	"encoding/base64"
	"fmt"
)

// DecodeError is returned when the payload is not valid base64
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode midi payload: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode converts a standard base64 payload into raw bytes.
// An empty payload decodes to an empty, non-nil buffer.
func Decode(s string) ([]byte, error) {
	buf, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if buf == nil {
		buf = []byte{}
	}
	return buf, nil
}

// Encode is the inverse of Decode
func Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}
