// Package cache keeps large objects that are expensive to build, such as
// setup libraries, so that they are built once per process.
package cache

import (
	"sync"

	"github.com/rs/zerolog/log"
)

type LoadFunc[T any] func(key string) (T, error)

// Cache maps a key to the object built for it. Failed builds are not
// remembered.
type Cache[T any] struct {
	sync.Mutex
	objects map[string]T
}

func New[T any]() *Cache[T] {
	return &Cache[T]{objects: make(map[string]T)}
}

func (c *Cache[T]) load(key string, loadFunc LoadFunc[T]) (T, error) {
	log.Debug().Str("key", key).Msg("loading into cache")
	obj, err := loadFunc(key)
	if err != nil {
		return obj, err
	}
	c.objects[key] = obj
	return obj, nil
}

// Get returns the object for key, building it with loadFunc on first use.
func (c *Cache[T]) Get(key string, loadFunc LoadFunc[T]) (T, error) {
	c.Lock()
	defer c.Unlock()
	if obj, ok := c.objects[key]; ok {
		log.Debug().Str("key", key).Msg("getting obj from cache")
		return obj, nil
	}
	return c.load(key, loadFunc)
}

// Len is the number of cached objects.
func (c *Cache[T]) Len() int {
	c.Lock()
	defer c.Unlock()
	return len(c.objects)
}
