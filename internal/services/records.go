package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/aura/internal/logging"
	"github.com/dmitrijs2005/aura/internal/repositories/kv"
)

// corruptSuffix marks copies of records that could not be decoded.
const corruptSuffix = "_corrupt"

func isSetAside(key string) bool {
	return strings.Contains(key, corruptSuffix)
}

// readJSON decodes key into a fresh T. It reports false when the record is
// absent or malformed; a malformed record is logged and left untouched.
func readJSON[T any](ctx context.Context, repo kv.Repository, log logging.Logger, key string) (T, bool, error) {
	var zero T
	raw, err := repo.Get(ctx, key)
	if err != nil {
		return zero, false, err
	}
	if len(raw) == 0 {
		return zero, false, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Warn(ctx, "ignoring malformed record", "key", key, "error", err)
		return zero, false, nil
	}
	return v, true, nil
}

func writeJSON(ctx context.Context, repo kv.Repository, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return repo.Set(ctx, key, raw)
}

// preserveMalformed copies key aside when it holds bytes that do not decode
// as T, so a following write cannot destroy them.
func preserveMalformed[T any](ctx context.Context, repo kv.Repository, log logging.Logger, key string) error {
	raw, err := repo.Get(ctx, key)
	if err != nil || len(raw) == 0 {
		return err
	}
	var v T
	if json.Unmarshal(raw, &v) == nil {
		return nil
	}
	_, err = setAside(ctx, repo, log, key, raw)
	return err
}

// setAside stores raw under key+"_corrupt", adding a counter when an earlier
// copy already occupies that key.
func setAside(ctx context.Context, repo kv.Repository, log logging.Logger, key string, raw []byte) (string, error) {
	dst := key + corruptSuffix
	for n := 2; ; n++ {
		existing, err := repo.Get(ctx, dst)
		if err != nil {
			return "", err
		}
		if existing == nil {
			break
		}
		dst = fmt.Sprintf("%s%s_%d", key, corruptSuffix, n)
	}
	if err := repo.Set(ctx, dst, raw); err != nil {
		return "", err
	}
	log.Warn(ctx, "malformed record set aside", "key", key, "saved_as", dst)
	return dst, nil
}

// collection is a JSON object record whose entries decode independently. An
// entry that fails to decode is kept verbatim and written back on save, so
// one bad day or account never takes the rest of the record with it.
type collection[T any] struct {
	key    string
	exists bool

	Items  map[string]T
	broken map[string]json.RawMessage
	// raw holds the whole record when it is not a JSON object at all.
	raw []byte
}

func readCollection[T any](ctx context.Context, repo kv.Repository, log logging.Logger, key string) (*collection[T], error) {
	c := &collection[T]{
		key:    key,
		Items:  map[string]T{},
		broken: map[string]json.RawMessage{},
	}

	raw, err := repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return c, nil
	}
	c.exists = true

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		log.Warn(ctx, "malformed record", "key", key, "error", err)
		c.raw = raw
		return c, nil
	}
	for name, e := range entries {
		var v T
		if err := json.Unmarshal(e, &v); err != nil {
			log.Warn(ctx, "skipping malformed entry", "key", key, "entry", name, "error", err)
			c.broken[name] = e
			continue
		}
		c.Items[name] = v
	}
	return c, nil
}

// Has reports whether name is present, decodable or not.
func (c *collection[T]) Has(name string) bool {
	if _, ok := c.Items[name]; ok {
		return true
	}
	_, ok := c.broken[name]
	return ok
}

// save writes Items back together with the undecodable entries. Broken
// entries that Items now replaces, and a record that was not an object, are
// set aside first.
func (c *collection[T]) save(ctx context.Context, repo kv.Repository, log logging.Logger) error {
	if c.raw != nil {
		if _, err := setAside(ctx, repo, log, c.key, c.raw); err != nil {
			return err
		}
		c.raw = nil
	}

	out := make(map[string]json.RawMessage, len(c.Items)+len(c.broken))
	for name, e := range c.broken {
		if _, replaced := c.Items[name]; replaced {
			if _, err := setAside(ctx, repo, log, c.key+"."+name, e); err != nil {
				return err
			}
			delete(c.broken, name)
			continue
		}
		out[name] = e
	}
	for name, v := range c.Items {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s[%s]: %w", c.key, name, err)
		}
		out[name] = b
	}

	if err := writeJSON(ctx, repo, c.key, out); err != nil {
		return err
	}
	c.exists = true
	return nil
}
