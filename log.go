package gami

import (
	"io"

	log15 "github.com/inconshreveable/log15"
)

// Logger exposes the named verbosity classes a Session logs against.
// There is no process-wide logger registration (the original mutates a
// global logging.Logger class hierarchy); each Session owns its own
// log15.Logger tree instead.
type Logger struct {
	root log15.Logger

	io     log15.Logger
	packet log15.Logger
	state  log15.Logger
	debug  log15.Logger
	info   log15.Logger
}

// NewLogger builds a Logger writing records of every level to w in
// logfmt; no level filter is applied. Pass io.Discard to silence the
// session entirely.
func NewLogger(w io.Writer) *Logger {
	root := log15.New("pkg", "gami")
	root.SetHandler(log15.StreamHandler(w, log15.LogfmtFormat()))
	return &Logger{
		root:   root,
		io:     root.New("class", "io"),
		packet: root.New("class", "packet"),
		state:  root.New("class", "state"),
		debug:  root.New("class", "debug"),
		info:   root.New("class", "info"),
	}
}

// NewDiscardLogger returns a Logger that drops everything, the default
// for a Session constructed without an explicit logger.
func NewDiscardLogger() *Logger {
	return NewLogger(io.Discard)
}

func (l *Logger) IO(msg string, ctx ...interface{})     { l.io.Debug(msg, ctx...) }
func (l *Logger) Packet(msg string, ctx ...interface{}) { l.packet.Debug(msg, ctx...) }
func (l *Logger) State(msg string, ctx ...interface{})  { l.state.Info(msg, ctx...) }
func (l *Logger) Debug(msg string, ctx ...interface{})  { l.debug.Debug(msg, ctx...) }
func (l *Logger) Info(msg string, ctx ...interface{})   { l.info.Info(msg, ctx...) }
