package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// Table stores ordered sequences of T as JSON arrays under dotted keys.
// Every write goes through the key's lock, so Mutate is an atomic
// read-modify-write against other writers of the same Table. Delete removes
// a whole subtree and takes the tree lock, so it never interleaves with a
// Mutate on a child key.
type Table[T any] struct {
	store Store
	locks *Locker
}

// NewTable creates a Table over s. Tables that share a Locker also share key locks.
func NewTable[T any](s Store, locks *Locker) *Table[T] {
	if locks == nil {
		locks = NewLocker()
	}
	return &Table[T]{store: s, locks: locks}
}

// Load returns the sequence under key and whether the key existed
func (t *Table[T]) Load(ctx context.Context, key string) ([]T, bool, error) {
	raw, err := t.store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, true, fmt.Errorf("store: decoding %q: %w", key, err)
	}
	return items, true, nil
}

// Save overwrites the sequence under key
func (t *Table[T]) Save(ctx context.Context, key string, items []T) error {
	unlock := t.locks.Lock(key)
	defer unlock()
	return t.save(ctx, key, items)
}

func (t *Table[T]) save(ctx context.Context, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("store: encoding %q: %w", key, err)
	}
	return t.store.Set(ctx, key, raw)
}

// Push appends item to the sequence under key and returns the new length
func (t *Table[T]) Push(ctx context.Context, key string, item T) (int, error) {
	items, err := t.Mutate(ctx, key, func(items []T, _ bool) ([]T, error) {
		return append(items, item), nil
	})
	return len(items), err
}

// Mutate loads the sequence under key, passes it to fn and stores the result.
// A nil result deletes the key. An error from fn aborts without writing.
func (t *Table[T]) Mutate(ctx context.Context, key string, fn func(items []T, found bool) ([]T, error)) ([]T, error) {
	unlock := t.locks.Lock(key)
	defer unlock()

	items, found, err := t.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	next, err := fn(items, found)
	if err != nil {
		return nil, err
	}

	if next == nil {
		if found {
			if _, err := t.store.Delete(ctx, key); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}

	if err := t.save(ctx, key, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Delete removes key and its children
func (t *Table[T]) Delete(ctx context.Context, key string) (bool, error) {
	unlock := t.locks.LockTree()
	defer unlock()
	return t.store.Delete(ctx, key)
}

// Keys lists the keys stored under prefix
func (t *Table[T]) Keys(ctx context.Context, prefix string) ([]string, error) {
	return t.store.Keys(ctx, prefix)
}
