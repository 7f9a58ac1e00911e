// Package resolve implements the priority chain that decides which copy
// of an activity's content to show. Sources are consulted in order and
// the first one holding real content wins; absence at any step is
// normal, never an error.
package resolve

import (
	"context"
	"fmt"
	"os"

	"github.com/ricardofaria/classforge/internal/activity"
)

// Source is one step in the resolution chain.
type Source interface {
	Name() string
	Lookup(ctx context.Context, id string, typ activity.Type) *activity.Content
}

// Resolution is the outcome of a chain walk. Awaiting is set when no
// source held real content and regeneration (if any) did not produce it
// either; the caller should show a waiting state, not an error.
type Resolution struct {
	Content  *activity.Content
	Source   string
	Awaiting bool
}

// Regenerator is invoked when the chain comes up empty for a type that
// supports regeneration. Implementations typically call the generator
// pipeline and push the result through the sync service.
type Regenerator func(ctx context.Context, id string, typ activity.Type) (*activity.Content, error)

// Resolver walks an ordered source chain.
type Resolver struct {
	sources    []Source
	regenerate Regenerator
	logf       func(format string, args ...any)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRegenerator installs the regeneration callback used when the
// chain finds nothing for a regenerable type.
func WithRegenerator(fn Regenerator) Option {
	return func(r *Resolver) { r.regenerate = fn }
}

// New builds a Resolver over sources, consulted in the given order.
func New(sources []Source, opts ...Option) *Resolver {
	r := &Resolver{
		sources: sources,
		logf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve walks the chain for (id, typ). The first source whose payload
// has real content wins. When every source misses, regenerable types get
// one regeneration attempt; a failed attempt leaves the result awaiting.
func (r *Resolver) Resolve(ctx context.Context, id string, typ activity.Type) Resolution {
	for _, src := range r.sources {
		content := src.Lookup(ctx, id, typ)
		if activity.HasRealContent(content) {
			return Resolution{Content: content, Source: src.Name()}
		}
	}

	if r.regenerate != nil && typ.Regenerable() {
		content, err := r.regenerate(ctx, id, typ)
		if err != nil {
			r.logf("resolve: regeneration for %s/%s failed: %v", typ, id, err)
		} else if activity.HasRealContent(content) {
			return Resolution{Content: content, Source: "regenerated"}
		}
	}

	return Resolution{Awaiting: true}
}

// Inspect reports each source's verdict for (id, typ) without short-
// circuiting, for diagnostics.
func (r *Resolver) Inspect(ctx context.Context, id string, typ activity.Type) []SourceVerdict {
	verdicts := make([]SourceVerdict, 0, len(r.sources))
	for _, src := range r.sources {
		content := src.Lookup(ctx, id, typ)
		verdicts = append(verdicts, SourceVerdict{
			Source:  src.Name(),
			Found:   content != nil,
			HasReal: activity.HasRealContent(content),
		})
	}
	return verdicts
}

// SourceVerdict is one source's answer during an Inspect pass.
type SourceVerdict struct {
	Source  string
	Found   bool
	HasReal bool
}
