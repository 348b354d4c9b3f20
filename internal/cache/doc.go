// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

/*
Package cache provides the caches used by the API and the recommendation engine.

# Result Cache Backends

Recommendation responses are cached as encoded bytes behind the
recommend.ResultCache interface. Two backends exist:

  - Memory: a bounded LRU with per-entry TTL, private to the process
  - Redis: go-redis client, shared between replicas, keys namespaced by a prefix

Open selects one from the cache configuration:

	backend, err := cache.Open(ctx, &cfg.Cache, logger)
	if err != nil {
	    return err
	}
	defer backend.Close()
	engine, err := recommend.NewEngine(rcfg, loader, db, backend, logger)

Keys include the artifact checksum, so entries written for an older model
are never read after a reload. Reload still clears the backend to free space.

# TTL Cache

Cache is a map with expiry for decoded values that the API serves
repeatedly, such as the category list and catalog pages. GetOrLoad
collapses concurrent misses for one key into a single store read:

	c := cache.New(time.Minute)
	defer c.Close()

	v, cached, err := c.GetOrLoad(cache.GenerateKey("catalog:products", q), func() (interface{}, error) {
	    return store.ListProducts(ctx, filter)
	})

# Metrics

Lookups, errors, evictions and size are exported per backend through the
cache_* Prometheus series (label cache_type: memory, redis, catalog).

# Thread Safety

Every type in this package is safe for concurrent use.
*/
package cache
