package payload

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEmpty(t *testing.T) {
	buf, err := Decode("")
	require.NoError(t, err)
	assert.NotNil(t, buf)
	assert.Empty(t, buf)
}

func TestDecodeRoundTrip(t *testing.T) {
	tests := []string{
		"TVRoZA==",
		"TVRoZAAAAAYAAAABAeA=",
		"AAECAwQFBgcICQ==",
		"/w==",
		"+/+/",
	}

	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			buf, err := Decode(s)
			require.NoError(t, err)
			assert.Equal(t, s, Encode(buf))
		})
	}
}

func TestDecodeBytes(t *testing.T) {
	buf, err := Decode("TVRoZA==")
	require.NoError(t, err)
	assert.Equal(t, []byte("MThd"), buf)
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad alphabet", "not base64!"},
		{"truncated", "TVRoZA="},
		{"url alphabet", "-_-_"},
		{"whitespace", "TVRo ZA=="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.input)
			require.Error(t, err)

			var decErr *DecodeError
			assert.True(t, errors.As(err, &decErr))
		})
	}
}
