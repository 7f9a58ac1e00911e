package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ricardofaria/classforge/internal/activity"
)

// Contract is the single choke point for persisting and reading activity
// content. It enforces the anti-clobber rule (placeholder data never
// overwrites real content without force) and hides the enveloped/flat
// storage convention from callers.
type Contract struct {
	kv   *KV
	logf func(format string, args ...any)
}

// NewContract wraps a KV store.
func NewContract(kv *KV) *Contract {
	return &Contract{
		kv: kv,
		logf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		},
	}
}

// Write persists content for (id, typ). When force is false and the
// stored record already has real content, the write is skipped and
// logged; this is not an error. Quiz-like types are written enveloped,
// others flat, and a secondary flat copy always lands under the legacy
// key.
func (c *Contract) Write(ctx context.Context, id string, typ activity.Type, data *activity.Content, force bool) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal content for %s/%s: %w", typ, id, err)
	}

	if !force {
		if existing := c.Read(ctx, id, typ); activity.HasRealContent(existing) && !activity.HasRealContent(data) {
			c.logf("storage: skipping write for %s/%s, stored content is real and incoming is not", typ, id)
			return nil
		}
	}

	primary := raw
	if typ.Enveloped() {
		env, err := json.Marshal(activity.Wrap(raw))
		if err != nil {
			return fmt.Errorf("marshal envelope for %s/%s: %w", typ, id, err)
		}
		primary = env
	}

	if err := c.kv.Set(ctx, ConstructedKey(string(typ), id), string(primary)); err != nil {
		return err
	}
	// Legacy flat copy for readers that predate typed keys.
	if err := c.kv.Set(ctx, LegacyKey(id), string(raw)); err != nil {
		return err
	}

	// Best effort; no-op while usage is under the cleanup threshold.
	if removed, err := c.kv.Cleanup(ctx, 0); err != nil {
		c.logf("storage: cleanup after write: %v", err)
	} else if len(removed) > 0 {
		c.logf("storage: evicted %d entries to stay within the storage budget", len(removed))
	}
	return nil
}

// Read returns the stored content for (id, typ), or nil when nothing
// usable is found. The primary typed key is tried first (unwrapping the
// envelope if present), then the legacy flat key. Corrupt JSON under
// either key is logged and treated as not found. Questions the user
// removed from the activity are filtered out.
func (c *Contract) Read(ctx context.Context, id string, typ activity.Type) *activity.Content {
	content := c.readKey(ctx, ConstructedKey(string(typ), id))
	if content == nil {
		content = c.readKey(ctx, LegacyKey(id))
	}
	if content == nil {
		return nil
	}
	return c.withoutDeleted(ctx, id, content)
}

func (c *Contract) readKey(ctx context.Context, key string) *activity.Content {
	value, ok := c.kv.Get(ctx, key)
	if !ok {
		return nil
	}

	raw := activity.Unwrap(json.RawMessage(value))

	var content activity.Content
	if err := json.Unmarshal(raw, &content); err != nil {
		c.logf("storage: unparsable record under %q, treating as not found: %v", key, err)
		return nil
	}
	return &content
}

// HasRealContent reports whether data holds real generated content.
// Delegates to the single shared predicate.
func (c *Contract) HasRealContent(data any) bool {
	return activity.HasRealContent(data)
}

// WriteFields persists the form field values an activity was built from.
func (c *Contract) WriteFields(ctx context.Context, id string, fields map[string]string) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal fields for %s: %w", id, err)
	}
	return c.kv.Set(ctx, FieldsKey(id), string(raw))
}

// ReadFields returns the stored form field values, or nil.
func (c *Contract) ReadFields(ctx context.Context, id string) map[string]string {
	value, ok := c.kv.Get(ctx, FieldsKey(id))
	if !ok {
		return nil
	}
	var fields map[string]string
	if err := json.Unmarshal([]byte(value), &fields); err != nil {
		c.logf("storage: unparsable fields under %q: %v", FieldsKey(id), err)
		return nil
	}
	return fields
}

// MarkQuestionsDeleted records question ids the user removed from an
// activity. Reads filter them out; the stored record is left intact so
// a forced rewrite can restore the full list.
func (c *Contract) MarkQuestionsDeleted(ctx context.Context, id string, questionIDs ...string) error {
	deleted := c.DeletedQuestions(ctx, id)
	seen := make(map[string]bool, len(deleted))
	for _, q := range deleted {
		seen[q] = true
	}
	for _, q := range questionIDs {
		if q != "" && !seen[q] {
			deleted = append(deleted, q)
			seen[q] = true
		}
	}

	raw, err := json.Marshal(deleted)
	if err != nil {
		return fmt.Errorf("marshal deleted questions for %s: %w", id, err)
	}
	return c.kv.Set(ctx, DeletedQuestionsKey(id), string(raw))
}

// DeletedQuestions returns the recorded removed-question ids, or nil.
func (c *Contract) DeletedQuestions(ctx context.Context, id string) []string {
	value, ok := c.kv.Get(ctx, DeletedQuestionsKey(id))
	if !ok {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(value), &ids); err != nil {
		c.logf("storage: unparsable deleted-question list under %q: %v", DeletedQuestionsKey(id), err)
		return nil
	}
	return ids
}

func (c *Contract) withoutDeleted(ctx context.Context, id string, content *activity.Content) *activity.Content {
	if len(content.Questions) == 0 {
		return content
	}
	deleted := c.DeletedQuestions(ctx, id)
	if len(deleted) == 0 {
		return content
	}
	drop := make(map[string]bool, len(deleted))
	for _, q := range deleted {
		drop[q] = true
	}

	kept := content.Questions[:0:0]
	for _, q := range content.Questions {
		if !drop[q.ID] {
			kept = append(kept, q)
		}
	}
	if len(kept) == len(content.Questions) {
		return content
	}
	filtered := *content
	filtered.Questions = kept
	filtered.QuestionCount = len(kept)
	return &filtered
}

// WriteText stores a plain-text rendition of an activity under the text
// content key, where the cleanup pass treats it as expensive to rebuild.
func (c *Contract) WriteText(ctx context.Context, typ activity.Type, id, text string) error {
	return c.kv.Set(ctx, TextContentKey(string(typ), id), text)
}

// ReadText returns the cached text rendition, if any.
func (c *Contract) ReadText(ctx context.Context, typ activity.Type, id string) (string, bool) {
	return c.kv.Get(ctx, TextContentKey(string(typ), id))
}
