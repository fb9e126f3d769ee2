package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"go-salmo/debug"
	"go-salmo/instrument"
)

// GeneratePath is appended to the base URL
const GeneratePath = "/api/generate_music"

// MaxTextLength bounds the psalm text, in characters
const MaxTextLength = 64

// Known origins of the generation service
const (
	HostedBaseURL = "https://music21-python-server.onrender.com"
	LocalBaseURL  = "http://localhost:5000"
)

// GenerationRequest is the body of a generate call
type GenerationRequest struct {
	Text       string                `json:"text"`
	Instrument instrument.Instrument `json:"instrument"`
}

// GenerationResponse carries the base64-encoded MIDI file
type GenerationResponse struct {
	MidiData string `json:"midi_data"`
}

// ErrInvalidRequest is returned before any I/O for requests the UI would
// never send
var ErrInvalidRequest = errors.New("invalid generation request")

// NetworkError is returned when a generate call does not complete with a
// usable response
type NetworkError struct {
	RequestID  string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("generate request %s: status %d: %v", e.RequestID, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("generate request %s: %v", e.RequestID, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Validate checks the text bound and the instrument selector
func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return fmt.Errorf("%w: empty text", ErrInvalidRequest)
	}
	if n := utf8.RuneCountInString(r.Text); n > MaxTextLength {
		return fmt.Errorf("%w: text is %d characters, max %d", ErrInvalidRequest, n, MaxTextLength)
	}
	if !r.Instrument.Valid() {
		return fmt.Errorf("%w: unknown instrument %q", ErrInvalidRequest, r.Instrument)
	}
	return nil
}

// Client talks to the generation service. One Generate call is one HTTP
// request; there is no retry.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for baseURL. A zero timeout means none.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the configured origin
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Generate posts the request and returns the decoded JSON response
func (c *Client) Generate(ctx context.Context, req GenerationRequest) (*GenerationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	fail := func(status int, err error) (*GenerationResponse, error) {
		debug.Error("api", err, "request_id", id, "status", status)
		return nil, &NetworkError{RequestID: id, StatusCode: status, Err: err}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fail(0, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+GeneratePath, bytes.NewReader(body))
	if err != nil {
		return fail(0, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", id)

	start := time.Now()
	debug.Log("api", "POST %s%s id=%s instrument=%s", c.baseURL, GeneratePath, id, req.Instrument)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fail(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fail(resp.StatusCode, fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(snippet))))
	}

	var out GenerationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fail(resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}

	debug.Log("api", "id=%s ok in %s payload=%d chars", id, time.Since(start).Round(time.Millisecond), len(out.MidiData))
	return &out, nil
}
