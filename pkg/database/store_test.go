package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var errWrite = errors.New("write failed")

// failingCollection rejects every write, as a live connection would on a
// timeout or a server error
type failingCollection struct{}

func (failingCollection) FindOne(context.Context, interface{}, ...*options.FindOneOptions) *mongo.SingleResult {
	return mongo.NewSingleResultFromDocument(bson.D{}, errWrite, nil)
}

func (failingCollection) Find(context.Context, interface{}, ...*options.FindOptions) (*mongo.Cursor, error) {
	return nil, errWrite
}

func (failingCollection) UpdateOne(context.Context, interface{}, interface{}, ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return nil, errWrite
}

func (failingCollection) DeleteMany(context.Context, interface{}, ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return nil, errWrite
}

// With no connection the store serves cached values and queues writes
func TestMongoStoreOffline(t *testing.T) {
	db := NewDatabase()
	s := NewStore(db, StoreOptions{MaxCacheSize: 2})
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "warns.1.2", []byte(`[1]`)))
	assert.Equal(t, 1, db.QueueLength())

	v, err := s.Get(ctx, "warns.1.2")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(v))

	_, err = s.Get(ctx, "warns.1.3")
	require.Error(t, err)

	deleted, err := s.Delete(ctx, "warns.1")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, 2, db.QueueLength())
	assert.Zero(t, s.CacheSize())
}

func TestMongoStoreCacheEviction(t *testing.T) {
	s := NewStore(NewDatabase(), StoreOptions{MaxCacheSize: 2})
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", []byte("1")))
	require.NoError(t, s.Set(ctx, "b", []byte("2")))
	require.NoError(t, s.Set(ctx, "c", []byte("3")))

	assert.Equal(t, 2, s.CacheSize())
	_, ok := s.cached("a")
	assert.False(t, ok)
}

func TestSubtreeEscapesKey(t *testing.T) {
	q := subtree("warns.1")
	or, ok := q["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 2)

	child := or[1].(bson.M)["_id"].(bson.M)
	assert.Equal(t, `^warns\.1\.`, child["$regex"])
}

// A write rejected on a live connection is returned without touching the
// cache or the offline queue
func TestMongoStoreFailedWrite(t *testing.T) {
	db := NewDatabase()
	s := NewStore(db)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "warns.1.2", []byte(`[1]`)))
	require.Equal(t, 1, db.QueueLength())

	s.collection = func() collection { return failingCollection{} }

	err := s.Set(ctx, "warns.1.2", []byte(`[1,2]`))
	require.ErrorIs(t, err, errWrite)
	v, ok := s.cached("warns.1.2")
	require.True(t, ok)
	assert.Equal(t, `[1]`, string(v))

	err = s.Set(ctx, "warns.1.3", []byte(`[3]`))
	require.ErrorIs(t, err, errWrite)
	_, ok = s.cached("warns.1.3")
	assert.False(t, ok)

	deleted, err := s.Delete(ctx, "warns.1")
	require.ErrorIs(t, err, errWrite)
	assert.False(t, deleted)
	_, ok = s.cached("warns.1.2")
	assert.True(t, ok)

	assert.Equal(t, 1, db.QueueLength())
}
