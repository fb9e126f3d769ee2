package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-salmo/instrument"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newServer(t *testing.T, handler gin.HandlerFunc) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	router := gin.New()
	router.POST(GeneratePath, func(c *gin.Context) {
		atomic.AddInt32(&calls, 1)
		handler(c)
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestGenerateSendsBodyAndHeaders(t *testing.T) {
	var got GenerationRequest
	var requestID string
	srv, calls := newServer(t, func(c *gin.Context) {
		requestID = c.GetHeader("X-Request-ID")
		assert.NoError(t, c.ShouldBindJSON(&got))
		c.JSON(http.StatusOK, gin.H{"midi_data": "TVRoZA=="})
	})

	client := NewClient(srv.URL+"/", 0)
	resp, err := client.Generate(context.Background(), GenerationRequest{Text: "Salmo 23", Instrument: instrument.Piano})
	require.NoError(t, err)

	assert.Equal(t, "TVRoZA==", resp.MidiData)
	assert.Equal(t, GenerationRequest{Text: "Salmo 23", Instrument: instrument.Piano}, got)
	assert.NotEmpty(t, requestID)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, srv.URL, client.BaseURL())
}

func TestRequestJSONShape(t *testing.T) {
	b, err := json.Marshal(GenerationRequest{Text: "hola", Instrument: instrument.Organ})
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"hola","instrument":"Organ"}`, string(b))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  GenerationRequest
		ok   bool
	}{
		{"ok", GenerationRequest{Text: "Salmo 23", Instrument: instrument.Piano}, true},
		{"max length", GenerationRequest{Text: strings.Repeat("ñ", MaxTextLength), Instrument: instrument.Flute}, true},
		{"too long", GenerationRequest{Text: strings.Repeat("a", MaxTextLength+1), Instrument: instrument.Flute}, false},
		{"empty", GenerationRequest{Text: "", Instrument: instrument.Piano}, false},
		{"whitespace", GenerationRequest{Text: " \t\n", Instrument: instrument.Piano}, false},
		{"no instrument", GenerationRequest{Text: "hola"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidRequest)
			}
		})
	}
}

func TestInvalidRequestMakesNoCall(t *testing.T) {
	srv, calls := newServer(t, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})

	_, err := NewClient(srv.URL, 0).Generate(context.Background(), GenerationRequest{Text: "  ", Instrument: instrument.Piano})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestNetworkErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler gin.HandlerFunc
		status  int
	}{
		{
			name:    "server error",
			handler: func(c *gin.Context) { c.String(http.StatusInternalServerError, "boom") },
			status:  http.StatusInternalServerError,
		},
		{
			name:    "not json",
			handler: func(c *gin.Context) { c.String(http.StatusOK, "<html>") },
			status:  http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := newServer(t, tt.handler)

			_, err := NewClient(srv.URL, 0).Generate(context.Background(), GenerationRequest{Text: "hola", Instrument: instrument.Piano})
			require.Error(t, err)

			var netErr *NetworkError
			require.True(t, errors.As(err, &netErr))
			assert.Equal(t, tt.status, netErr.StatusCode)
			assert.NotEmpty(t, netErr.RequestID)
			assert.Equal(t, int32(1), atomic.LoadInt32(calls), "no retry")
		})
	}
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, 0).Generate(context.Background(), GenerationRequest{Text: "hola", Instrument: instrument.Piano})

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, 0, netErr.StatusCode)
}

func TestTimeout(t *testing.T) {
	srv, _ := newServer(t, func(c *gin.Context) {
		time.Sleep(200 * time.Millisecond)
		c.JSON(http.StatusOK, gin.H{"midi_data": ""})
	})

	_, err := NewClient(srv.URL, 20*time.Millisecond).Generate(context.Background(), GenerationRequest{Text: "hola", Instrument: instrument.Piano})

	var netErr *NetworkError
	assert.True(t, errors.As(err, &netErr))
}
