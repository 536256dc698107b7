package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jwalitptl/medoffice-api/internal/model"
	"github.com/jwalitptl/medoffice-api/internal/repository"
	"github.com/jwalitptl/medoffice-api/pkg/metrics"
)

// collection stores documents in their JSON form so callers never share
// memory with the store.
type collection[T any, U any, PT interface {
	*T
	model.Document
}] struct {
	name    string
	metrics *metrics.Metrics

	mu    sync.RWMutex
	docs  map[primitive.ObjectID][]byte
	order []primitive.ObjectID
}

func newCollection[T any, U any, PT interface {
	*T
	model.Document
}](name string, m *metrics.Metrics) *collection[T, U, PT] {
	return &collection[T, U, PT]{
		name:    name,
		metrics: m,
		docs:    make(map[primitive.ObjectID][]byte),
	}
}

func (c *collection[T, U, PT]) observe(op string, start time.Time, err error) {
	c.metrics.ObserveDB(c.name, op, start, err, repository.ErrNotFound)
}

func (c *collection[T, U, PT]) Create(ctx context.Context, doc *T) (err error) {
	defer func(start time.Time) { c.observe("insert", start, err) }(time.Now())
	if err := ctx.Err(); err != nil {
		return err
	}

	model.Stamp(PT(doc), time.Now())
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s document: %w", c.name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	id := PT(doc).Meta().ID
	c.docs[id] = b
	c.order = append(c.order, id)
	return nil
}

func (c *collection[T, U, PT]) Get(ctx context.Context, id primitive.ObjectID) (doc *T, err error) {
	defer func(start time.Time) { c.observe("find_one", start, err) }(time.Now())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	b, ok := c.docs[id]
	c.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return decode[T](b)
}

func (c *collection[T, U, PT]) List(ctx context.Context) (docs []*T, err error) {
	defer func(start time.Time) { c.observe("find", start, err) }(time.Now())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	docs = make([]*T, 0, len(c.order))
	for _, id := range c.order {
		doc, err := decode[T](c.docs[id])
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (c *collection[T, U, PT]) ListByIDs(ctx context.Context, ids []primitive.ObjectID) (docs []*T, err error) {
	defer func(start time.Time) { c.observe("find_many", start, err) }(time.Now())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := make(map[primitive.ObjectID]bool, len(ids))
	docs = make([]*T, 0, len(ids))
	for _, id := range ids {
		b, ok := c.docs[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		doc, err := decode[T](b)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (c *collection[T, U, PT]) Update(ctx context.Context, id primitive.ObjectID, fields *U) (doc *T, err error) {
	defer func(start time.Time) { c.observe("update", start, err) }(time.Now())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	patch, err := repository.JSONPatch(fields, time.Now().UTC().Truncate(time.Millisecond))
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	current, err := decode[T](b)
	if err != nil {
		return nil, err
	}

	var updated T
	if err := repository.MergeJSON(current, patch, &updated); err != nil {
		return nil, fmt.Errorf("failed to merge %s update: %w", c.name, err)
	}
	// the id is never part of an update
	PT(&updated).Meta().ID = id

	if b, err = json.Marshal(&updated); err != nil {
		return nil, fmt.Errorf("failed to encode %s document: %w", c.name, err)
	}
	c.docs[id] = b
	return &updated, nil
}

func (c *collection[T, U, PT]) Delete(ctx context.Context, id primitive.ObjectID) (err error) {
	defer func(start time.Time) { c.observe("delete", start, err) }(time.Now())
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(c.docs, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func decode[T any](b []byte) (*T, error) {
	var doc T
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return &doc, nil
}
