package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/benz9527/xordered/lib/kv"
	"github.com/benz9527/xordered/lib/tree"
)

func TestConsoleMetricsExporter(t *testing.T) {
	buf := &bytes.Buffer{}
	shutdown, err := NewConsoleMetricsExporter(
		WithExporterInterval(time.Hour, time.Second),
		WithExporterWriter(buf),
	)
	require.NoError(t, err)

	rbtree := tree.NewOrderedRBTree[int, int](tree.IdentityKey[int]{}, tree.WithRBTreeStats[int, int]("console"))
	for i := 0; i < 64; i++ {
		rbtree.Insert(i)
	}
	rbtree.Erase(0)

	// Shutdown flushes the periodic reader.
	require.NoError(t, shutdown(context.Background()))
	out := buf.String()
	require.True(t, strings.Contains(out, "xordered.rbtree.insert.count"))
	require.True(t, strings.Contains(out, "xordered.rbtree.erase.count"))
	require.True(t, strings.Contains(out, tree.RBTreeStatsName+"/console"))
}

func TestPrometheusMetricsExporter(t *testing.T) {
	reg := promclient.NewRegistry()
	shutdown, err := NewPrometheusMetricsExporter(WithExporterRegisterer(reg))
	require.NoError(t, err)
	defer func() {
		require.NoError(t, shutdown(context.Background()))
	}()

	m := kv.NewOrderedMap[string, int](kv.WithOrderedStats[string]("prom"))
	for _, key := range []string{"A", "B", "C", "D"} {
		m.Insert(key, len(key))
	}
	m.Erase("A")

	require.NoError(t, InitAppStats(context.Background(), "prom", nil))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]float64, len(mfs))
	for _, mf := range mfs {
		var sum float64
		for _, mt := range mf.GetMetric() {
			if c := mt.GetCounter(); c != nil {
				sum += c.GetValue()
			}
			if g := mt.GetGauge(); g != nil {
				sum += g.GetValue()
			}
		}
		names[mf.GetName()] = sum
	}
	var (
		inserts, size float64
		found         int
	)
	for name, val := range names {
		switch {
		case strings.HasPrefix(name, "xordered_rbtree_insert_count"):
			inserts = val
			found++
		case strings.HasPrefix(name, "xordered_rbtree_size"):
			size = val
			found++
		}
	}
	require.Equal(t, 2, found)
	require.Equal(t, float64(4), inserts)
	require.Equal(t, float64(3), size)
	_, ok := names["app_core_goroutines"]
	require.True(t, ok)
}

func gatherNames(t *testing.T, reg *promclient.Registry) []string {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(mfs))
	for _, mf := range mfs {
		names = append(names, mf.GetName())
	}
	return names
}

func TestPrometheusMetricsExporter_Scopes(t *testing.T) {
	testcases := []struct {
		name     string
		opts     []ExporterOption
		exported bool
	}{
		{"xordered scopes only", nil, false},
		{"extra scope", []ExporterOption{WithExporterScopes("other/")}, true},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			reg := promclient.NewRegistry()
			shutdown, err := NewPrometheusMetricsExporter(append(tc.opts, WithExporterRegisterer(reg))...)
			require.NoError(tt, err)
			defer func() {
				require.NoError(tt, shutdown(context.Background()))
			}()

			counter, err := otel.Meter("other/lib").Int64Counter("other.lib.count")
			require.NoError(tt, err)
			counter.Add(context.Background(), 1)
			rbtree := tree.NewOrderedRBTree[int, int](tree.IdentityKey[int]{}, tree.WithRBTreeStats[int, int]("scopes"))
			rbtree.Insert(1)
			defer rbtree.Release()

			var foreign, own bool
			for _, name := range gatherNames(tt, reg) {
				foreign = foreign || strings.HasPrefix(name, "other_lib_count")
				own = own || strings.HasPrefix(name, "xordered_rbtree_insert_count")
			}
			require.Equal(tt, tc.exported, foreign)
			require.True(tt, own)
		})
	}
}
