// Package logging builds the go-logger loggers used across the CLI.
package logging

import (
	"fmt"
	"strings"

	glog "github.com/goliatone/go-logger/glog"
)

// Logger is the subset of the go-logger contract the application uses.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config selects the log level and output format.
type Config struct {
	Level  string
	Format string
}

// Provider hands out named child loggers of a single root.
type Provider struct {
	root *glog.BaseLogger
}

// New constructs a Provider from cfg. Format defaults to console.
func New(cfg Config) (*Provider, error) {
	options := []glog.Option{}

	if level := normalizeLevel(cfg.Level); level != "" {
		options = append(options, glog.WithLevel(level))
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "console":
		options = append(options, glog.WithLoggerTypeConsole())
	case "json":
		options = append(options, glog.WithLoggerTypeJSON())
	case "pretty":
		options = append(options, glog.WithLoggerTypePretty())
	default:
		return nil, fmt.Errorf("logging: unsupported format %q", cfg.Format)
	}

	return &Provider{root: glog.NewLogger(options...)}, nil
}

// GetLogger returns the logger for a named component.
func (p *Provider) GetLogger(name string) Logger {
	if p == nil {
		return Discard
	}
	if name = strings.TrimSpace(name); name == "" {
		return p.root
	}
	return p.root.GetLogger(name)
}

// ValidLevel reports whether level is empty or a known level name.
func ValidLevel(level string) bool {
	return strings.TrimSpace(level) == "" || normalizeLevel(level) != ""
}

// ValidFormat reports whether format is empty or a supported output format.
func ValidFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "console", "json", "pretty":
		return true
	}
	return false
}

func normalizeLevel(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return glog.Trace
	case "debug":
		return glog.Debug
	case "info":
		return glog.Info
	case "warn", "warning":
		return glog.Warn
	case "error":
		return glog.Error
	case "fatal":
		return glog.Fatal
	default:
		return ""
	}
}

// Discard drops every message.
var Discard Logger = discard{}

type discard struct{}

func (discard) Debug(string, ...any) {}
func (discard) Info(string, ...any)  {}
func (discard) Warn(string, ...any)  {}
func (discard) Error(string, ...any) {}
