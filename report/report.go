package report

import (
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"

	"go-salmo/debug"
)

const flushTimeout = 2 * time.Second

// Stage names where a generate cycle can fail
const (
	StageRequest = "request"
	StageDecode  = "decode"
	StageLoad    = "load"
	StageVoice   = "voice"
)

var enabled atomic.Bool

// Init enables Sentry when dsn is set. Without a dsn every call in this
// package is a no-op.
func Init(dsn, environment, release string) error {
	if dsn == "" {
		debug.Log("report", "sentry not configured")
		return nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		Release:     "go-salmo@" + release,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			// The psalm text is user content
			delete(event.Extra, "text")
			return event
		},
	}); err != nil {
		return err
	}
	enabled.Store(true)
	debug.Log("report", "sentry initialized env=%s release=%s", environment, release)
	return nil
}

// Enabled reports whether Init configured a client
func Enabled() bool {
	return enabled.Load()
}

// Capture sends err tagged with the failing stage
func Capture(stage string, err error, tags map[string]string) {
	if err == nil || !enabled.Load() {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("stage", stage)
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

// Flush waits for queued events on shutdown
func Flush() {
	if enabled.Load() {
		sentry.Flush(flushTimeout)
	}
}
