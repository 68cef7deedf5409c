// Package mongo provides ItemReader and ItemWriter implementations over
// go.mongodb.org/mongo-driver, grounded on the original reader/writer's
// $gt-cursor, sorted-by-_id pagination strategy: skip is avoided
// altogether, for the same reason the original's comment gives - skip
// degrades badly on large collections, whereas sorting and filtering on
// an indexed field does not.
package mongo

import (
	"context"
	"fmt"

	"github.com/joeycumines/go-catrate"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sboussekeyt/gobatch/batch"
)

// WithObjectID is implemented by document types whose _id the Reader uses
// as its pagination cursor.
type WithObjectID interface {
	ObjectID() primitive.ObjectID
}

// Reader pages through a collection sorted ascending on _id, requesting
// at most PageSize documents per query and advancing a $gt cursor after
// the last document read - there is no use of skip/offset, which
// degrades badly on large collections.
type Reader[T WithObjectID] struct {
	Collection *mongo.Collection
	Filter     bson.D
	PageSize   int64

	// Limiter, if set, is consulted once per page fetch under the
	// category "mongo.page".
	Limiter *catrate.Limiter

	cursor    *mongo.Cursor
	lastID    primitive.ObjectID
	hasLastID bool
	exhausted bool
}

func NewReader[T WithObjectID](collection *mongo.Collection, filter bson.D, pageSize int64) *Reader[T] {
	return &Reader[T]{Collection: collection, Filter: filter, PageSize: pageSize}
}

func (r *Reader[T]) Read(ctx context.Context) (item T, done bool, err error) {
	if r.exhausted {
		return item, true, nil
	}

	if r.cursor == nil || !r.cursor.Next(ctx) {
		if r.cursor != nil {
			if err := r.cursor.Err(); err != nil {
				return item, false, err
			}
			if err := r.cursor.Close(ctx); err != nil {
				return item, false, err
			}
		}
		if err := r.fetchPage(ctx); err != nil {
			return item, false, err
		}
		if !r.cursor.Next(ctx) {
			r.exhausted = true
			return item, true, nil
		}
	}

	if err := r.cursor.Decode(&item); err != nil {
		return item, false, err
	}
	r.lastID = item.ObjectID()
	r.hasLastID = true
	return item, false, nil
}

func (r *Reader[T]) fetchPage(ctx context.Context) error {
	if r.Limiter != nil {
		if _, ok := r.Limiter.Allow(`mongo.page`); !ok {
			return fmt.Errorf(`mongo: page fetch rate limited`)
		}
	}

	filter := r.Filter
	if r.hasLastID {
		filter = append(bson.D{{Key: `_id`, Value: bson.D{{Key: `$gt`, Value: r.lastID}}}}, filter...)
	}

	opts := options.Find().SetSort(bson.D{{Key: `_id`, Value: 1}}).SetLimit(r.PageSize)

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return err
	}

	r.cursor = cursor
	return nil
}

func (r *Reader[T]) Close(ctx context.Context) error {
	if r.cursor != nil {
		return r.cursor.Close(ctx)
	}
	return nil
}

// Writer inserts an entire chunk in a single unordered InsertMany call,
// so one document's failure does not block the rest of the chunk from
// being committed.
type Writer[T any] struct {
	Collection *mongo.Collection
}

func NewWriter[T any](collection *mongo.Collection) *Writer[T] {
	return &Writer[T]{Collection: collection}
}

func (w *Writer[T]) Write(ctx context.Context, chunk []T) error {
	docs := make([]any, len(chunk))
	for i, item := range chunk {
		docs[i] = item
	}
	_, err := w.Collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	return err
}

var (
	_ batch.ItemReader[objectIDDoc] = (*Reader[objectIDDoc])(nil)
	_ batch.ItemWriter[objectIDDoc] = (*Writer[objectIDDoc])(nil)
	_ batch.ItemStreamCloser        = (*Reader[objectIDDoc])(nil)
)

type objectIDDoc struct {
	ID primitive.ObjectID `bson:"_id"`
}

func (d objectIDDoc) ObjectID() primitive.ObjectID { return d.ID }
