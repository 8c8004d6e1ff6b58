// Package pipeline runs a publish from a source file: parse, relocate assets,
// compose, write and commit, strictly in that order.
//
// Runs must not overlap for the same target repository.
package pipeline

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dt-pm-tools/mdpub/internal/assets"
	"github.com/dt-pm-tools/mdpub/internal/config"
	"github.com/dt-pm-tools/mdpub/internal/logging"
	"github.com/dt-pm-tools/mdpub/internal/markdown"
	"github.com/dt-pm-tools/mdpub/internal/notify"
	"github.com/dt-pm-tools/mdpub/internal/target"
)

// Report describes a completed run.
type Report struct {
	Target  string
	Title   string
	Skipped bool // target absent or disabled in configuration
	Assets  []assets.Record
}

// Publisher wires configuration, targets and collaborators together.
type Publisher struct {
	Config   config.Config
	Registry *target.Registry
	Deps     target.Deps
	Notifier notify.Notifier
	Logger   logging.Logger
}

// Load reads and parses the document at path. Failures are reported to the
// notifier and logged, and Load returns nil.
func (p *Publisher) Load(path string) *markdown.Document {
	data, err := os.ReadFile(path)
	if err == nil {
		var doc *markdown.Document
		if doc, err = markdown.Unmarshal(string(data)); err == nil {
			return doc
		}
	}
	p.notify(notify.Failure, "Failed to read document")
	p.logger().Error("reading document", "path", path, "error", err)
	return nil
}

// Publish loads path and publishes it to the named target. A nil report with
// a nil error means the document could not be loaded and nothing was done.
// Errors from configuration, writing or committing are returned as-is.
func (p *Publisher) Publish(path, targetName string) (*Report, error) {
	doc := p.Load(path)
	if doc == nil {
		return nil, nil
	}

	tgt, err := p.Registry.Resolve(targetName, p.Config, p.deps())
	if err != nil {
		return nil, err
	}

	report := &Report{Target: tgt.Name(), Title: doc.Title}
	tc := p.Config.Target(targetName)
	if !target.Enabled(tc) {
		report.Skipped = true
		p.logger().Info("target disabled, nothing published", "target", tgt.Name())
		return report, nil
	}

	body := doc.Body
	if root := strings.TrimSpace(tc.RepoRoot); root != "" {
		res, err := assets.RelocateAt(body, root, p.now())
		if err != nil {
			return nil, fmt.Errorf("relocating images: %w", err)
		}
		body = res.Body
		report.Assets = res.Assets
		for _, a := range res.Assets {
			p.logger().Debug("image relocated", "public_path", a.PublicPath, "file", a.RelativePath)
		}
	}

	if err := tgt.Publish(doc.Title, body, doc.Meta); err != nil {
		return nil, err
	}

	p.logger().Info("document published", "target", tgt.Name(), "title", doc.Title, "images", len(report.Assets))
	return report, nil
}

// Preview composes the post for path without touching the target repository.
func (p *Publisher) Preview(path, targetName string) (filename, content string, err error) {
	doc := p.Load(path)
	if doc == nil {
		return "", "", fmt.Errorf("could not load %s", path)
	}

	tgt, err := p.Registry.Resolve(targetName, p.Config, p.deps())
	if err != nil {
		return "", "", err
	}
	composer, ok := tgt.(target.Composer)
	if !ok {
		return "", "", fmt.Errorf("target %q does not support previews", tgt.Name())
	}
	filename, content = composer.Compose(doc.Title, doc.Body, doc.Meta)
	return filename, content, nil
}

func (p *Publisher) deps() target.Deps {
	deps := p.Deps
	if deps.Notifier == nil {
		deps.Notifier = p.Notifier
	}
	if deps.Now == nil {
		deps.Now = p.now
	}
	return deps
}

func (p *Publisher) now() time.Time {
	if p.Deps.Now != nil {
		return p.Deps.Now()
	}
	return time.Now()
}

func (p *Publisher) notify(level notify.Level, msg string) {
	if p.Notifier != nil {
		p.Notifier.Notify(level, msg)
	}
}

func (p *Publisher) logger() logging.Logger {
	if p.Logger == nil {
		return logging.Discard
	}
	return p.Logger
}
