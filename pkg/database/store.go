package database

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/PancyStudios/PancyModeratorGo/pkg/logger"
	"github.com/PancyStudios/PancyModeratorGo/pkg/store"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultCollection holds every moderation key as one document
const DefaultCollection = "moderator_kv"

// kvDocument is one stored key
type kvDocument struct {
	Path  string `bson:"_id"`
	Value []byte `bson:"value"`
}

// StoreOptions contains configuration for a MongoStore
type StoreOptions struct {
	Collection   string
	MaxCacheSize int
}

// DefaultStoreOptions returns default options for MongoStore
func DefaultStoreOptions() StoreOptions {
	return StoreOptions{
		Collection:   DefaultCollection,
		MaxCacheSize: 1000,
	}
}

// collection is the part of *mongo.Collection the store uses
type collection interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// MongoStore implements store.Store over a MongoDB collection. Values are
// cached in an LRU so reads keep working while the connection is down, and
// writes made offline are queued on the Database. A write that fails on a
// live connection is reported to the caller and leaves the cache as it was.
type MongoStore struct {
	db      *Database
	options StoreOptions
	cache   *lru.Cache[string, []byte]

	// collection returns nil while offline
	collection func() collection
}

var _ store.Store = (*MongoStore)(nil)

// NewStore creates a MongoStore on db
func NewStore(db *Database, opts ...StoreOptions) *MongoStore {
	o := DefaultStoreOptions()
	if len(opts) > 0 {
		o = opts[0]
		if o.Collection == "" {
			o.Collection = DefaultCollection
		}
		if o.MaxCacheSize <= 0 {
			o.MaxCacheSize = DefaultStoreOptions().MaxCacheSize
		}
	}

	// only fails on a non-positive size
	cache, _ := lru.New[string, []byte](o.MaxCacheSize)

	s := &MongoStore{db: db, options: o, cache: cache}
	s.collection = func() collection {
		if !s.db.Connected() {
			return nil
		}
		if col := s.db.GetCollection(s.options.Collection); col != nil {
			return col
		}
		return nil
	}
	return s
}

// Get retrieves a value from cache or database
func (s *MongoStore) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := s.cached(key); ok {
		return v, nil
	}

	col := s.collection()
	if col == nil {
		return nil, fmt.Errorf("database not connected")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc kvDocument
	err := col.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		logger.Warn(fmt.Sprintf("Fallo al leer '%s' de la DB: %v", key, err), "MongoStore")
		return nil, err
	}

	s.remember(key, doc.Value)
	return doc.Value, nil
}

// Set upserts a value in the database and cache
func (s *MongoStore) Set(ctx context.Context, key string, value []byte) error {
	query := bson.M{"_id": key}
	data := bson.M{"value": value}

	col := s.collection()
	if col == nil {
		logger.Warn(fmt.Sprintf("DB offline. Encolando escritura para '%s'", key), "MongoStore")
		s.remember(key, value)
		s.db.AddToWriteQueue(QueuedOperation{
			CollectionName: s.options.Collection,
			Query:          query,
			Operation:      "set",
			Data:           data,
		})
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := col.UpdateOne(ctx, query, bson.M{"$set": data}, options.Update().SetUpsert(true)); err != nil {
		logger.Error(fmt.Sprintf("Error en 'set' de '%s' con DB conectada: %v", key, err), "MongoStore")
		return err
	}
	s.remember(key, value)
	return nil
}

// subtree matches key and all of its children
func subtree(key string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"_id": key},
		bson.M{"_id": bson.M{"$regex": "^" + regexp.QuoteMeta(key) + `\.`}},
	}}
}

// Delete removes key and its children from the database and cache
func (s *MongoStore) Delete(ctx context.Context, key string) (bool, error) {
	query := subtree(key)
	col := s.collection()
	if col == nil {
		logger.Warn(fmt.Sprintf("DB offline. Encolando eliminación para '%s'", key), "MongoStore")
		cachedHit := s.forget(key)
		s.db.AddToWriteQueue(QueuedOperation{
			CollectionName: s.options.Collection,
			Query:          query,
			Operation:      "deleteMany",
		})
		return cachedHit, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := col.DeleteMany(ctx, query)
	if err != nil {
		logger.Error(fmt.Sprintf("Error en 'delete' de '%s' con DB conectada: %v", key, err), "MongoStore")
		return false, err
	}
	s.forget(key)
	return res.DeletedCount > 0, nil
}

// Keys lists the keys under prefix
func (s *MongoStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	col := s.collection()
	if col == nil {
		return nil, fmt.Errorf("database not connected")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if prefix != "" {
		filter = subtree(prefix)
	}
	cursor, err := col.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	keys := make([]string, 0)
	for cursor.Next(ctx) {
		var doc kvDocument
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		keys = append(keys, doc.Path)
	}
	sort.Strings(keys)
	return keys, cursor.Err()
}

// Close drops the cache; the connection belongs to the Database
func (s *MongoStore) Close() error {
	s.ClearCache()
	return nil
}

func (s *MongoStore) cached(key string) ([]byte, bool) {
	return s.cache.Get(key)
}

func (s *MongoStore) remember(key string, value []byte) {
	s.cache.Add(key, value)
}

// forget drops key and its children from the cache
func (s *MongoStore) forget(key string) bool {
	hit := false
	for _, k := range s.cache.Keys() {
		if store.Under(k, key) {
			s.cache.Remove(k)
			hit = true
		}
	}
	return hit
}

// ClearCache clears the entire cache
func (s *MongoStore) ClearCache() {
	s.cache.Purge()
}

// CacheSize returns the current cache size
func (s *MongoStore) CacheSize() int {
	return s.cache.Len()
}
