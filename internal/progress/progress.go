// Package progress reports pipeline milestones to the caller, either as
// server-sent event lines or as log records.
package progress

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/model"
)

// Event types.
const (
	TypeProgress = "progress"
	TypeResult   = "result"
	TypeError    = "error"
)

// Event is one line of a progress stream.
type Event struct {
	Type      string         `json:"type"`
	Message   string         `json:"message,omitempty"`
	Timestamp float64        `json:"timestamp,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Recipe    *model.Recipe  `json:"recipe,omitempty"`
}

// Emitter receives pipeline events. Implementations must be safe for concurrent use.
type Emitter interface {
	Progress(message string, data map[string]any)
	Result(recipe *model.Recipe)
	Error(message string)
}

func now() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}

// SSE writes each event as a "data: <json>" line followed by a blank line and
// flushes immediately when the writer supports it.
type SSE struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

// NewSSE creates an SSE emitter over w.
func NewSSE(w io.Writer) *SSE {
	return &SSE{w: w}
}

func (s *SSE) Progress(message string, data map[string]any) {
	s.write(Event{Type: TypeProgress, Message: message, Timestamp: now(), Data: data})
}

func (s *SSE) Result(recipe *model.Recipe) {
	s.write(Event{Type: TypeResult, Recipe: recipe, Timestamp: now()})
}

func (s *SSE) Error(message string) {
	s.write(Event{Type: TypeError, Message: message})
}

// Err returns the first write error, typically a disconnected client.
func (s *SSE) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *SSE) write(ev Event) {
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return
	}
	if _, err := s.w.Write(append(append([]byte("data: "), b...), '\n', '\n')); err != nil {
		s.err = err
		return
	}
	switch f := s.w.(type) {
	case http.Flusher:
		f.Flush()
	case interface{ Flush() error }:
		_ = f.Flush()
	}
}

// Log emits progress and errors as log records.
type Log struct {
	logger *log.Logger
}

// NewLog creates a Log emitter.
func NewLog(logger *log.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Progress(message string, data map[string]any) {
	kv := make([]any, 0, len(data)*2)
	for k, v := range data {
		kv = append(kv, k, v)
	}
	l.logger.Info(message, kv...)
}

// Result is a no-op; the processor logs completed extractions itself.
func (l *Log) Result(*model.Recipe) {}

func (l *Log) Error(message string) {
	l.logger.Error(message)
}

// Discard drops every event.
var Discard Emitter = discard{}

type discard struct{}

func (discard) Progress(string, map[string]any) {}
func (discard) Result(*model.Recipe)           {}
func (discard) Error(string)                   {}
