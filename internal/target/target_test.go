package target

import (
	"reflect"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/dt-pm-tools/mdpub/internal/config"
	"github.com/dt-pm-tools/mdpub/internal/markdown"
)

type fakeTarget struct {
	name string
	cfg  *config.TargetConfig
}

func (f *fakeTarget) Name() string { return f.name }

func (f *fakeTarget) Publish(string, string, markdown.Metadata) error { return nil }

func TestRegistryResolvesByName(t *testing.T) {
	r := NewRegistry()
	r.Register("Hexo", func(cfg *config.TargetConfig, _ Deps) Target {
		return &fakeTarget{name: "hexo", cfg: cfg}
	})

	var cfg config.Config
	sub := &config.TargetConfig{Enabled: true, RepoRoot: "/r"}
	cfg.SetTarget("hexo", sub)

	got, err := r.Resolve("HEXO", cfg, Deps{})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	fake, ok := got.(*fakeTarget)
	if !ok || fake.cfg != sub {
		t.Fatalf("expected fake target with its subtree, got %#v", got)
	}
}

func TestRegistryUnknownTarget(t *testing.T) {
	_, err := NewRegistry().Resolve("nope", config.Config{}, Deps{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	if got := r.Names(); !reflect.DeepEqual(got, []string{AstroName}) {
		t.Errorf("Names = %v", got)
	}
	tgt, err := r.Resolve(AstroName, config.Config{}, Deps{})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if tgt.Name() != AstroName {
		t.Errorf("Name = %q", tgt.Name())
	}
	if _, ok := tgt.(Composer); !ok {
		t.Error("expected astro target to implement Composer")
	}
}
