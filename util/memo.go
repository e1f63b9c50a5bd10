// util/memo.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"errors"
	"fmt"
	"time"

	"github.com/brunoga/deep"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/mmp/lowry/log"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"
)

const DefaultMemoSize = 1024

// MemoMetrics counts memo table lookups by table name and result ("hit",
// "miss", "computation").
type MemoMetrics struct {
	lookups *prometheus.CounterVec
}

// NewMemoMetrics creates the lookup counter and registers it with reg.
// If an identical counter is already registered, it is shared.
func NewMemoMetrics(reg prometheus.Registerer, namespace string) (*MemoMetrics, error) {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "memo_lookups_total",
		Help:      "Memoized computation lookups by table and result.",
	}, []string{"table", "result"})

	if reg != nil {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return nil, err
			}
			existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				return nil, err
			}
			c = existing
		}
	}
	return &MemoMetrics{lookups: c}, nil
}

// Counter returns the counter for the given table and result; it is
// mostly useful for tests.
func (mm *MemoMetrics) Counter(table, result string) prometheus.Counter {
	return mm.lookups.WithLabelValues(table, result)
}

func (mm *MemoMetrics) inc(table, result string) {
	if mm != nil {
		mm.lookups.WithLabelValues(table, result).Inc()
	}
}

// Memo is a bounded cache of the results of a pure computation. Concurrent
// callers asking for the same key while it is being computed wait for
// and share the one computation. Errors are returned to every waiting
// caller but are not cached. Values are deep-copied on the way out so
// callers may not modify the cached value.
//
// A nil *Memo is valid and just calls the computation.
type Memo[K comparable, V any] struct {
	name    string
	cache   *expirable.LRU[K, V]
	group   singleflight.Group
	metrics *MemoMetrics
	lg      *log.Logger
}

type MemoOptions struct {
	Size    int           // maximum number of entries; DefaultMemoSize if zero
	TTL     time.Duration // zero means entries never expire
	Metrics *MemoMetrics
	Logger  *log.Logger
}

func NewMemo[K comparable, V any](name string, opts MemoOptions) *Memo[K, V] {
	size := opts.Size
	if size <= 0 {
		size = DefaultMemoSize
	}
	return &Memo[K, V]{
		name:    name,
		cache:   expirable.NewLRU[K, V](size, nil, opts.TTL),
		metrics: opts.Metrics,
		lg:      opts.Logger,
	}
}

// Get returns the value for key, calling compute to produce it if it is
// not already cached.
func (m *Memo[K, V]) Get(key K, compute func() (V, error)) (V, error) {
	if m == nil {
		return compute()
	}

	if v, ok := m.cache.Get(key); ok {
		m.metrics.inc(m.name, "hit")
		m.lg.Debug("memo hit", "table", m.name)
		return deep.MustCopy(v), nil
	}
	m.metrics.inc(m.name, "miss")

	sfkey, err := ObjectKey(key)
	if err != nil {
		sfkey = fmt.Sprintf("%#v", key)
	}

	r, err, shared := m.group.Do(sfkey, func() (any, error) {
		// Another caller may have finished the computation between our
		// lookup and joining the group.
		if v, ok := m.cache.Get(key); ok {
			return v, nil
		}

		m.metrics.inc(m.name, "computation")
		v, err := compute()
		if err != nil {
			return v, err
		}
		m.cache.Add(key, v)
		return v, nil
	})
	if err != nil {
		m.lg.Debug("memo computation failed", "table", m.name, "error", err)
		var zero V
		return zero, err
	}
	if shared {
		m.lg.Debug("memo computation shared", "table", m.name)
	}
	return deep.MustCopy(r.(V)), nil
}

// Len returns the number of cached entries.
func (m *Memo[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return m.cache.Len()
}

// Purge discards all cached entries.
func (m *Memo[K, V]) Purge() {
	if m != nil {
		m.cache.Purge()
	}
}
