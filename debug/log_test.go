package debug

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogWritesCategory(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	defer Disable()

	Log("api", "generate %s", "ok")

	out := buf.String()
	assert.Contains(t, out, "generate ok")
	assert.Contains(t, out, "cat=api")
}

func TestLogDisabledIsSilent(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	Disable()

	Log("api", "dropped")
	Error("api", errors.New("dropped"))

	assert.Empty(t, buf.String())
}

func TestLogEvery(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	defer Disable()

	for i := 0; i < 6; i++ {
		LogEvery(3, "note", "tick")
	}

	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("tick (every 3")))
}
