package kv

import (
	"bytes"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/panjf2000/ants/v2"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xordered/lib/xlog"
)

func genStrKeys(prefix string, count int) []string {
	return lo.Map(lo.Range(count), func(i int, _ int) string {
		return prefix + strconv.Itoa(100000+i)
	})
}

func TestThreadSafeOrderedMap_SimpleCRUD(t *testing.T) {
	keys := genStrKeys("key", 10000)
	vals := make([]int, 0, len(keys))
	m := make(map[string]int, len(keys))
	_m := NewThreadSafeOrderedMap[string, int](WithThreadSafeMapCloseableItemCheck[string, int]())
	for i, key := range keys {
		m[key] = i
		vals = append(vals, i)
	}
	_m.Replace(m)
	require.Equal(t, int64(len(keys)), _m.Len())

	// Keys are generated in order.
	require.Equal(t, keys, _m.ListKeys())
	require.Equal(t, vals, _m.ListValues())

	i := 1001
	res, exists := _m.Get(keys[i])
	require.True(t, exists)
	require.Equal(t, i, res)
	require.True(t, _m.Contains(keys[i]))

	res, exists = _m.Delete(keys[i])
	require.True(t, exists)
	require.Equal(t, i, res)
	_, exists = _m.Delete(keys[i])
	require.False(t, exists)
	require.False(t, _m.Contains(keys[i]))

	_m.AddOrUpdate(keys[i], -1)
	_m.AddOrUpdate(keys[i], i)
	require.Equal(t, keys, _m.ListKeys())
	require.Equal(t, vals, _m.ListValues())

	require.NoError(t, _m.Purge())
	require.Equal(t, int64(0), _m.Len())
	require.Empty(t, _m.ListKeys())
}

func TestThreadSafeOrderedMap_ListAndBounds(t *testing.T) {
	m := NewThreadSafeOrderedMap[int, string]()
	for _, key := range []int{50, 10, 40, 20, 30} {
		m.AddOrUpdate(key, strconv.Itoa(key))
	}

	require.Equal(t, []int{10, 20, 30, 40, 50}, m.ListKeys(nil))
	require.Equal(t, []int{10, 30, 50}, m.ListKeys(
		func(key int) bool { return key < 15 },
		nil,
		func(key int) bool { return key > 25 && key%20 == 10 },
	))
	require.Equal(t, []string{"20", "40"}, m.ListValues(40, 20, 40, 99))

	testcases := []struct {
		name    string
		key     int
		floor   int
		ceiling int
	}{
		{"exact", 30, 30, 30},
		{"between", 35, 30, 40},
		{"before all", 5, -1, 10},
		{"after all", 55, 50, -1},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			key, val, ok := m.Floor(tc.key)
			require.Equal(tt, tc.floor >= 0, ok)
			if ok {
				require.Equal(tt, tc.floor, key)
				require.Equal(tt, strconv.Itoa(tc.floor), val)
			}
			key, _, ok = m.Ceiling(tc.key)
			require.Equal(tt, tc.ceiling >= 0, ok)
			if ok {
				require.Equal(tt, tc.ceiling, key)
			}
		})
	}

	seen := make([]int, 0, 2)
	m.Range(func(key int, val string) bool {
		seen = append(seen, key)
		return len(seen) < 2
	})
	require.Equal(t, []int{10, 20}, seen)
	m.Range(nil)

	desc := NewThreadSafeOrderedMap[int, string](
		WithThreadSafeMapOrderedOptions[int, string](WithOrderedDesc[int]()),
	)
	desc.Replace(map[int]string{1: "a", 2: "b", 3: "c"})
	require.Equal(t, []int{3, 2, 1}, desc.ListKeys())
	require.Equal(t, []string{"c", "a"}, desc.ListValues(1, 3))

	custom := NewThreadSafeOrderedMapFunc[string, int](func(i, j string) int64 {
		return int64(len(i) - len(j))
	})
	custom.AddOrUpdate("ccc", 3)
	custom.AddOrUpdate("a", 1)
	custom.AddOrUpdate("b", 2)
	require.Equal(t, []string{"a", "ccc"}, custom.ListKeys())
	v, ok := custom.Get("z")
	require.True(t, ok)
	require.Equal(t, 2, v)
}

type testCloser struct {
	id     int
	err    error
	closed *atomic.Int32
}

func (c *testCloser) Close() error {
	c.closed.Add(1)
	return c.err
}

func TestThreadSafeOrderedMap_Purge(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := xlog.NewXLogger(
		xlog.WithXLoggerWriteSyncer(zapcore.AddSync(buf)),
		xlog.WithXLoggerEncoder(xlog.JSON),
		xlog.WithXLoggerLevel(xlog.LogLevelDebug),
	)
	closed := &atomic.Int32{}
	errA, errB := errors.New("close a"), errors.New("close b")

	m := NewThreadSafeOrderedMap[int, *testCloser](WithThreadSafeMapLogger[int, *testCloser](logger))
	m.AddOrUpdate(1, &testCloser{id: 1, closed: closed})
	m.AddOrUpdate(2, &testCloser{id: 2, err: errA, closed: closed})
	m.AddOrUpdate(3, nil)
	m.AddOrUpdate(4, &testCloser{id: 4, err: errB, closed: closed})

	err := m.Purge()
	require.Error(t, err)
	require.ErrorIs(t, err, errA)
	require.ErrorIs(t, err, errB)
	require.Len(t, multierr.Errors(errors.Unwrap(err)), 2)
	require.Equal(t, int32(3), closed.Load())
	require.Equal(t, int64(0), m.Len())
	require.Equal(t, 2, strings.Count(buf.String(), "purge close item"))
	require.True(t, strings.Contains(buf.String(), `"component":"xmap"`))

	// Interface values are checked one by one.
	closers := NewThreadSafeOrderedMap[string, any]()
	closers.AddOrUpdate("closer", &testCloser{closed: closed})
	closers.AddOrUpdate("plain", 1)
	closers.AddOrUpdate("nil", nil)
	require.NoError(t, closers.Purge())
	require.Equal(t, int32(4), closed.Load())

	plain := NewThreadSafeOrderedMap[int, int]()
	plain.AddOrUpdate(1, 1)
	require.NoError(t, plain.Purge())
	require.Equal(t, int64(0), plain.Len())
}

func TestThreadSafeOrderedMap_Concurrency(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := xlog.NewXLogger(
		xlog.WithXLoggerWriteSyncer(zapcore.AddSync(buf)),
		xlog.WithXLoggerEncoder(xlog.JSON),
	)
	pool, err := ants.NewPool(16, ants.WithLogger(xlog.NewAntsXLogger(logger)))
	require.NoError(t, err)
	defer pool.Release()

	const (
		writers  = 8
		perGroup = 1000
	)
	m := NewThreadSafeOrderedMap[int, int]()
	unordered := atomic.Bool{}
	wg := sync.WaitGroup{}
	wg.Add(writers * 2)
	for w := 0; w < writers; w++ {
		base := w * perGroup
		require.NoError(t, pool.Submit(func() {
			defer wg.Done()
			for i := base; i < base+perGroup; i++ {
				m.AddOrUpdate(i, i)
			}
			for i := base; i < base+perGroup; i += 2 {
				m.Delete(i)
			}
		}))
		require.NoError(t, pool.Submit(func() {
			defer wg.Done()
			for i := 0; i < perGroup; i++ {
				m.Get(base + i)
				m.Ceiling(base + i)
				if i%100 == 0 && !sort.IntsAreSorted(m.ListKeys()) {
					unordered.Store(true)
				}
			}
		}))
	}
	wg.Wait()
	require.False(t, unordered.Load())

	require.Equal(t, int64(writers*perGroup/2), m.Len())
	keys := m.ListKeys()
	require.Len(t, keys, writers*perGroup/2)
	for _, key := range keys {
		require.Equal(t, 1, key%2)
	}
}

func BenchmarkThreadSafeOrderedMap_AddOrUpdate(b *testing.B) {
	m := NewThreadSafeOrderedMap[int, int]()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			m.AddOrUpdate(i, i)
			i++
		}
	})
}
