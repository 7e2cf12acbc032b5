// Package apilog records API traffic for diagnostics: call summaries,
// credential events (never secrets), connection errors, and an in-memory
// live-capture buffer. A Recorder is injected into the HTTP client and the
// bulk dispatcher, so tests and embedders own independent instances instead
// of flipping process-wide flags.
package apilog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	apiCallsFile    = "api_calls.log"
	connectionFile  = "connection_errors.log"
	credentialsFile = "credentials.log"
)

// maxCapturedEvents bounds the live-capture buffer; older events are
// dropped first.
const maxCapturedEvents = 1000

// Options configure a Recorder. Dir is where the three log files are
// created ("" means the working directory).
type Options struct {
	Dir         string
	APILogging  bool
	Credentials bool
	LiveCapture bool
}

// Recorder owns the three log streams and the live-capture buffer. All
// toggles can be flipped at runtime.
type Recorder struct {
	mu          sync.Mutex
	api         *logrus.Logger
	conn        *logrus.Logger
	cred        *logrus.Logger
	apiEnabled  bool
	credEnabled bool
	capture     bool
	events      []string
	closers     []io.Closer
}

// New opens the log files under o.Dir and returns a ready Recorder.
func New(o Options) (*Recorder, error) {
	r := &Recorder{
		apiEnabled:  o.APILogging,
		credEnabled: o.Credentials,
		capture:     o.LiveCapture,
	}
	for _, s := range []struct {
		name   string
		target **logrus.Logger
	}{
		{apiCallsFile, &r.api},
		{connectionFile, &r.conn},
		{credentialsFile, &r.cred},
	} {
		f, err := os.OpenFile(filepath.Join(o.Dir, s.name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("open %s: %w", s.name, err)
		}
		r.closers = append(r.closers, f)
		*s.target = newFileLogger(f)
	}
	return r, nil
}

// Discard returns a Recorder whose streams all go nowhere. Live capture
// still works when enabled.
func Discard() *Recorder {
	return &Recorder{
		api:         newFileLogger(io.Discard),
		conn:        newFileLogger(io.Discard),
		cred:        newFileLogger(io.Discard),
		credEnabled: true,
	}
}

func newFileLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return l
}

func (r *Recorder) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// SetAPILogging toggles call-summary logging at runtime.
func (r *Recorder) SetAPILogging(on bool) {
	r.mu.Lock()
	r.apiEnabled = on
	r.mu.Unlock()
	r.api.Infof("API logging %s", onOff(on))
}

// SetCredentialsLogging toggles credential-event logging at runtime.
func (r *Recorder) SetCredentialsLogging(on bool) {
	r.mu.Lock()
	r.credEnabled = on
	r.mu.Unlock()
	r.cred.Infof("Credentials logging %s", onOff(on))
}

// SetLiveCapture toggles the in-memory capture buffer.
func (r *Recorder) SetLiveCapture(on bool) {
	r.mu.Lock()
	r.capture = on
	r.mu.Unlock()
	r.api.Infof("Live API capture %s", onOff(on))
}

func onOff(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}

// Call records an API call summary when API logging is on, and always
// offers the line to the live-capture buffer.
func (r *Recorder) Call(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.live(msg)
	if r.enabled(&r.apiEnabled) {
		r.api.Info(msg)
	}
}

// CallError records an API failure when API logging is on.
func (r *Recorder) CallError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.live(msg)
	if r.enabled(&r.apiEnabled) {
		r.api.Error(msg)
	}
}

// Connection always writes to the connection log; it carries error traces
// and request/response summaries regardless of the API-logging toggle.
func (r *Recorder) Connection(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.live(msg)
	r.conn.Info(msg)
}

// CredentialInfo records a non-secret credential event (token obtained,
// token refused) when credential logging is on.
func (r *Recorder) CredentialInfo(format string, args ...any) {
	if r.enabled(&r.credEnabled) {
		r.cred.Infof(format, args...)
	}
}

// CredentialError records a credential failure when credential logging is on.
func (r *Recorder) CredentialError(format string, args ...any) {
	if r.enabled(&r.credEnabled) {
		r.cred.Errorf(format, args...)
	}
}

func (r *Recorder) enabled(flag *bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *flag
}

func (r *Recorder) live(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.capture {
		return
	}
	if len(r.events) >= maxCapturedEvents {
		r.events = r.events[1:]
	}
	r.events = append(r.events, time.Now().UTC().Format(time.RFC3339)+" "+msg)
}

// TakeEvents drains and returns the live-capture buffer.
func (r *Recorder) TakeEvents() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev := r.events
	r.events = nil
	return ev
}

// Preview renders b for a log line, truncated to max bytes.
func Preview(b []byte, max int) string {
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
