package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jwalitptl/medoffice-api/internal/model"
	"github.com/jwalitptl/medoffice-api/internal/repository"
	"github.com/jwalitptl/medoffice-api/pkg/metrics"
)

type table[T any, U any, PT interface {
	*T
	model.Document
}] struct {
	db      *sqlx.DB
	name    string
	metrics *metrics.Metrics
	queries queries
}

type queries struct {
	insert    string
	get       string
	list      string
	listByIDs string
	update    string
	delete    string
}

func newQueries(name string) queries {
	return queries{
		insert:    fmt.Sprintf(`INSERT INTO %s (id, doc, created_at, updated_at) VALUES ($1, $2, $3, $4)`, name),
		get:       fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, name),
		list:      fmt.Sprintf(`SELECT doc FROM %s ORDER BY created_at ASC`, name),
		listByIDs: fmt.Sprintf(`SELECT doc FROM %s WHERE id = ANY($1)`, name),
		update:    fmt.Sprintf(`UPDATE %s SET doc = doc || $2::jsonb, updated_at = $3 WHERE id = $1 RETURNING doc`, name),
		delete:    fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, name),
	}
}

func newTable[T any, U any, PT interface {
	*T
	model.Document
}](db *sqlx.DB, name string, m *metrics.Metrics) *table[T, U, PT] {
	return &table[T, U, PT]{db: db, name: name, metrics: m, queries: newQueries(name)}
}

func (r *table[T, U, PT]) observe(op string, start time.Time, err error) {
	r.metrics.ObserveDB(r.name, op, start, err, repository.ErrNotFound)
}

func (r *table[T, U, PT]) Create(ctx context.Context, doc *T) (err error) {
	defer func(start time.Time) { r.observe("insert", start, err) }(time.Now())

	model.Stamp(PT(doc), time.Now())
	meta := PT(doc).Meta()

	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s document: %w", r.name, err)
	}

	_, err = r.db.ExecContext(ctx, r.queries.insert, meta.ID.Hex(), types.JSONText(b), meta.CreatedAt, meta.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %w", r.name, err)
	}
	return nil
}

func (r *table[T, U, PT]) Get(ctx context.Context, id primitive.ObjectID) (doc *T, err error) {
	defer func(start time.Time) { r.observe("find_one", start, err) }(time.Now())

	var raw types.JSONText
	if err := r.db.GetContext(ctx, &raw, r.queries.get, id.Hex()); err != nil {
		return nil, translate(err)
	}
	return decode[T](raw)
}

func (r *table[T, U, PT]) List(ctx context.Context) (docs []*T, err error) {
	defer func(start time.Time) { r.observe("find", start, err) }(time.Now())

	var rows []types.JSONText
	if err := r.db.SelectContext(ctx, &rows, r.queries.list); err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", r.name, err)
	}
	return decodeAll[T](rows)
}

func (r *table[T, U, PT]) ListByIDs(ctx context.Context, ids []primitive.ObjectID) (docs []*T, err error) {
	defer func(start time.Time) { r.observe("find_many", start, err) }(time.Now())
	if len(ids) == 0 {
		return []*T{}, nil
	}

	hexes := make([]string, len(ids))
	for i, id := range ids {
		hexes[i] = id.Hex()
	}

	var rows []types.JSONText
	if err := r.db.SelectContext(ctx, &rows, r.queries.listByIDs, pq.Array(hexes)); err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", r.name, err)
	}
	return decodeAll[T](rows)
}

func (r *table[T, U, PT]) Update(ctx context.Context, id primitive.ObjectID, fields *U) (doc *T, err error) {
	defer func(start time.Time) { r.observe("update", start, err) }(time.Now())

	now := time.Now().UTC().Truncate(time.Millisecond)
	patch, err := repository.JSONPatch(fields, now)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(patch)
	if err != nil {
		return nil, err
	}

	var raw types.JSONText
	if err := r.db.GetContext(ctx, &raw, r.queries.update, id.Hex(), types.JSONText(b), now); err != nil {
		return nil, translate(err)
	}
	return decode[T](raw)
}

func (r *table[T, U, PT]) Delete(ctx context.Context, id primitive.ObjectID) (err error) {
	defer func(start time.Time) { r.observe("delete", start, err) }(time.Now())

	res, err := r.db.ExecContext(ctx, r.queries.delete, id.Hex())
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", r.name, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func decode[T any](raw types.JSONText) (*T, error) {
	doc := new(T)
	if err := raw.Unmarshal(doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}

func decodeAll[T any](rows []types.JSONText) ([]*T, error) {
	docs := make([]*T, 0, len(rows))
	for _, raw := range rows {
		doc, err := decode[T](raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func translate(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}
