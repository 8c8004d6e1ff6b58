// Package target defines publish targets and the registry that resolves them
// by configured name.
package target

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/dt-pm-tools/mdpub/internal/config"
	"github.com/dt-pm-tools/mdpub/internal/markdown"
	"github.com/dt-pm-tools/mdpub/internal/notify"
)

const (
	configInvalidCode = "TARGET_CONFIG_INVALID"
	unknownTargetCode = "TARGET_UNKNOWN"
)

var (
	ErrRepoRootRequired = errors.New("target: repo_root is not configured")
	ErrUnknownTarget    = errors.New("target: unknown target")
)

// Target accepts a parsed document and writes it to its destination.
// A target whose configuration is absent or disabled does nothing.
type Target interface {
	Name() string
	Publish(title, body string, meta markdown.Metadata) error
}

// Composer is implemented by targets that can render a document without
// writing it.
type Composer interface {
	Compose(title, body string, meta markdown.Metadata) (filename, content string)
}

// Committer runs the post-write commit command.
type Committer interface {
	Run(template, cwd, filename string) error
}

// Deps are the collaborators handed to every target factory.
type Deps struct {
	Committer Committer
	Notifier  notify.Notifier
	Now       func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Factory builds a target from its configuration subtree, which may be nil.
type Factory func(cfg *config.TargetConfig, deps Deps) Target

// Registry maps target names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// DefaultRegistry returns a registry with every built-in target registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(AstroName, NewAstro)
	return r
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[strings.ToLower(name)] = f
}

// Names returns the registered target names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve builds the named target with its subtree from cfg.
func (r *Registry) Resolve(name string, cfg config.Config, deps Deps) (Target, error) {
	r.mu.RLock()
	f, ok := r.factories[strings.ToLower(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, goerrors.Wrap(ErrUnknownTarget, goerrors.CategoryValidation, "unknown publish target "+name).
			WithTextCode(unknownTargetCode)
	}
	return f(cfg.Target(name), deps), nil
}

// Enabled reports whether a target subtree is present and switched on.
func Enabled(cfg *config.TargetConfig) bool {
	return cfg != nil && cfg.Enabled
}

func configurationError(err error, msg string) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, msg).WithTextCode(configInvalidCode)
}
