package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jwalitptl/medoffice-api/internal/model"
	"github.com/jwalitptl/medoffice-api/internal/repository"
	"github.com/jwalitptl/medoffice-api/pkg/metrics"
)

type collection[T any, U any, PT interface {
	*T
	model.Document
}] struct {
	coll    *mongo.Collection
	metrics *metrics.Metrics
}

func newCollection[T any, U any, PT interface {
	*T
	model.Document
}](db *mongo.Database, name string, m *metrics.Metrics) *collection[T, U, PT] {
	return &collection[T, U, PT]{coll: db.Collection(name), metrics: m}
}

func (c *collection[T, U, PT]) observe(op string, start time.Time, err error) {
	c.metrics.ObserveDB(c.coll.Name(), op, start, err, repository.ErrNotFound)
}

func (c *collection[T, U, PT]) Create(ctx context.Context, doc *T) (err error) {
	defer func(start time.Time) { c.observe("insert", start, err) }(time.Now())

	model.Stamp(PT(doc), time.Now())
	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", c.coll.Name(), err)
	}
	return nil
}

func (c *collection[T, U, PT]) Get(ctx context.Context, id primitive.ObjectID) (doc *T, err error) {
	defer func(start time.Time) { c.observe("find_one", start, err) }(time.Now())

	doc = new(T)
	if err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(doc); err != nil {
		return nil, translate(err)
	}
	return doc, nil
}

func (c *collection[T, U, PT]) List(ctx context.Context) (docs []*T, err error) {
	defer func(start time.Time) { c.observe("find", start, err) }(time.Now())
	return c.find(ctx, bson.D{})
}

func (c *collection[T, U, PT]) ListByIDs(ctx context.Context, ids []primitive.ObjectID) (docs []*T, err error) {
	defer func(start time.Time) { c.observe("find_many", start, err) }(time.Now())
	if len(ids) == 0 {
		return []*T{}, nil
	}
	return c.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (c *collection[T, U, PT]) find(ctx context.Context, filter interface{}) ([]*T, error) {
	cur, err := c.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", c.coll.Name(), err)
	}
	docs := make([]*T, 0)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", c.coll.Name(), err)
	}
	return docs, nil
}

func (c *collection[T, U, PT]) Update(ctx context.Context, id primitive.ObjectID, fields *U) (doc *T, err error) {
	defer func(start time.Time) { c.observe("update", start, err) }(time.Now())

	var set bson.D
	if fields != nil {
		if set, err = setDocument(fields); err != nil {
			return nil, err
		}
	}
	set = append(set, bson.E{Key: "updatedAt", Value: time.Now().UTC().Truncate(time.Millisecond)})

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	doc = new(T)
	res := c.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts)
	if err := res.Decode(doc); err != nil {
		return nil, translate(err)
	}
	return doc, nil
}

func (c *collection[T, U, PT]) Delete(ctx context.Context, id primitive.ObjectID) (err error) {
	defer func(start time.Time) { c.observe("delete", start, err) }(time.Now())

	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", c.coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// setDocument turns an update struct into the body of a $set. Nil pointer
// fields are dropped through their omitempty tags.
func setDocument(fields interface{}) (bson.D, error) {
	raw, err := bson.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode update: %w", err)
	}
	var set bson.D
	if err := bson.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("failed to decode update: %w", err)
	}
	return set, nil
}

func translate(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	return err
}
