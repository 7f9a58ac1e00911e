package resolve

import (
	"context"
	"encoding/json"

	"github.com/ricardofaria/classforge/internal/activity"
	"github.com/ricardofaria/classforge/internal/appstate"
	"github.com/ricardofaria/classforge/internal/contentsync"
	"github.com/ricardofaria/classforge/internal/storage"
)

// The standard chain, highest priority first:
// sync service → component snapshot → storage contract → app state →
// origin payload.

// SyncSource reads the content sync cache.
type SyncSource struct {
	Service *contentsync.Service
}

func (s SyncSource) Name() string { return "sync-service" }

func (s SyncSource) Lookup(_ context.Context, id string, typ activity.Type) *activity.Content {
	return s.Service.GetContentForType(id, typ)
}

// SnapshotSource reads an in-memory snapshot the caller supplies, e.g.
// content already attached to the component being rendered.
type SnapshotSource struct {
	Contents map[string]*activity.Content
}

func (s SnapshotSource) Name() string { return "component-state" }

func (s SnapshotSource) Lookup(_ context.Context, id string, _ activity.Type) *activity.Content {
	return s.Contents[id]
}

// ContractSource reads persisted content through the storage contract.
type ContractSource struct {
	Contract *storage.Contract
}

func (s ContractSource) Name() string { return "storage" }

func (s ContractSource) Lookup(ctx context.Context, id string, typ activity.Type) *activity.Content {
	return s.Contract.Read(ctx, id, typ)
}

// AppStateSource reads the session's activity records, decoding any
// generated content field attached to the record.
type AppStateSource struct {
	Store *appstate.Store
}

func (s AppStateSource) Name() string { return "app-state" }

// generatedContentFields are the record fields that may hold a full
// content payload, in lookup order.
var generatedContentFields = []string{"generatedContent", "conteudoGerado", "content"}

func (s AppStateSource) Lookup(_ context.Context, id string, _ activity.Type) *activity.Content {
	rec, ok := s.Store.GetActivityByID(id)
	if !ok {
		return nil
	}
	for _, field := range generatedContentFields {
		raw, ok := rec.BuiltData.GeneratedFields[field]
		if !ok || len(raw) == 0 {
			continue
		}
		var content activity.Content
		if err := json.Unmarshal(activity.Unwrap(raw), &content); err != nil {
			continue
		}
		return &content
	}
	return nil
}

// OriginSource serves the payload the caller was originally handed,
// the chain's last resort before awaiting.
type OriginSource struct {
	Payload *activity.Content
	ForID   string
}

func (s OriginSource) Name() string { return "origin" }

func (s OriginSource) Lookup(_ context.Context, id string, _ activity.Type) *activity.Content {
	if s.ForID != "" && s.ForID != id {
		return nil
	}
	return s.Payload
}
