package resolver

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes per-model texture maps and shapes. Concurrent misses on the
// same model share one computation. Failed computations are not stored.
type Cache struct {
	group    singleflight.Group
	textures sync.Map // model name -> TextureMap
	shapes   sync.Map // model name -> Shape

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Hits   int64
	Misses int64
}

// Stats returns hit and miss counts.
func (c *Cache) Stats() CacheStats {
	return CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

func (c *Cache) textureMap(name string, compute func() (TextureMap, error)) (TextureMap, error) {
	return memoize(c, &c.textures, "textures:"+name, name, compute)
}

func (c *Cache) shape(name string, compute func() (Shape, error)) (Shape, error) {
	return memoize(c, &c.shapes, "shape:"+name, name, compute)
}

func memoize[T any](c *Cache, store *sync.Map, flightKey, name string, compute func() (T, error)) (T, error) {
	if v, ok := store.Load(name); ok {
		c.hits.Add(1)
		return v.(T), nil
	}
	c.misses.Add(1)

	v, err, _ := c.group.Do(flightKey, func() (any, error) {
		if v, ok := store.Load(name); ok {
			return v, nil
		}
		result, err := compute()
		if err != nil {
			return nil, err
		}
		store.Store(name, result)
		return result, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
