// Package app wires the application together: storage, provider,
// generators, sync service, and the resolution chain.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/ricardofaria/classforge/internal/activity"
	"github.com/ricardofaria/classforge/internal/appstate"
	"github.com/ricardofaria/classforge/internal/contentsync"
	"github.com/ricardofaria/classforge/internal/generate"
	"github.com/ricardofaria/classforge/internal/llm"
	"github.com/ricardofaria/classforge/internal/resolve"
	"github.com/ricardofaria/classforge/internal/storage"
)

// Options configures New.
type Options struct {
	// DBPath is the SQLite file location. Empty uses the default
	// resolution (CLASSFORGE_DB, then the XDG data dir).
	DBPath string

	// Provider overrides the LLM provider. Nil builds one from the
	// environment.
	Provider llm.Provider
}

// App holds the wired components.
type App struct {
	KV       *storage.KV
	Contract *storage.Contract
	Events   storage.EventRepo
	Provider llm.Provider
	Sync     *contentsync.Service
	State    *appstate.Store
}

// New opens storage and wires the component graph.
func New(ctx context.Context, opts Options) (*App, error) {
	dbPath := opts.DBPath
	if dbPath == "" {
		p, err := storage.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		dbPath = p
	}
	if err := storage.EnsureDir(dbPath); err != nil {
		return nil, err
	}

	kv, err := storage.Open(dbPath)
	if err != nil {
		return nil, err
	}

	contract := storage.NewContract(kv)
	events := kv.EventRepo()

	provider := opts.Provider
	if provider == nil {
		p, err := llm.NewProviderFromEnv(ctx, events)
		if err != nil {
			// No provider configured: generation still works, it just
			// serves fallback content the user is told to regenerate.
			fmt.Fprintf(os.Stderr, "warning: %v; activities will use placeholder content\n", err)
			p = llm.NewMockProvider()
		}
		provider = p
	}

	return &App{
		KV:       kv,
		Contract: contract,
		Events:   events,
		Provider: provider,
		Sync:     contentsync.New(contract),
		State:    appstate.NewStore(),
	}, nil
}

// Close releases the database.
func (a *App) Close() error {
	return a.KV.Close()
}

// Generate runs the pipeline for the given type, pushing the result
// through the sync service (which persists real content) and recording
// the form under the activity's fields key.
func (a *App) Generate(ctx context.Context, typ activity.Type, fields map[string]string) *generate.Result {
	input := generate.ParseForm(fields)
	run := generate.ForType(typ, a.Provider, generate.WithSync(a.Sync))
	res := run(ctx, input)

	if len(fields) > 0 {
		if err := a.Contract.WriteFields(ctx, res.ActivityID, fields); err != nil {
			fmt.Fprintf(os.Stderr, "warning: store fields for %s: %v\n", res.ActivityID, err)
		}
	}
	return res
}

// Resolver builds the standard resolution chain. Regeneration replays
// the stored form for the activity when the chain comes up empty.
func (a *App) Resolver() *resolve.Resolver {
	sources := []resolve.Source{
		resolve.SyncSource{Service: a.Sync},
		resolve.ContractSource{Contract: a.Contract},
		resolve.AppStateSource{Store: a.State},
	}
	return resolve.New(sources, resolve.WithRegenerator(a.regenerate))
}

// ResolverWith prepends caller-held state (a component snapshot and the
// origin payload) to the standard chain.
func (a *App) ResolverWith(snapshot map[string]*activity.Content, origin *activity.Content, originID string) *resolve.Resolver {
	sources := []resolve.Source{
		resolve.SyncSource{Service: a.Sync},
	}
	if snapshot != nil {
		sources = append(sources, resolve.SnapshotSource{Contents: snapshot})
	}
	sources = append(sources,
		resolve.ContractSource{Contract: a.Contract},
		resolve.AppStateSource{Store: a.State},
	)
	if origin != nil {
		sources = append(sources, resolve.OriginSource{Payload: origin, ForID: originID})
	}
	return resolve.New(sources, resolve.WithRegenerator(a.regenerate))
}

func (a *App) regenerate(ctx context.Context, id string, typ activity.Type) (*activity.Content, error) {
	fields := a.Contract.ReadFields(ctx, id)
	input := generate.ParseForm(fields)
	input.ActivityID = id

	run := generate.ForType(typ, a.Provider, generate.WithSync(a.Sync))
	res := run(ctx, input)
	if res.Notice != "" {
		return res.Content, fmt.Errorf("regeneration served fallback content")
	}
	return res.Content, nil
}
