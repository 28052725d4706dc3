package tree

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	RBTreeStatsName = "xordered/rbtree"
	// RBTreeInstanceKey tells apart the size of the trees sharing a stats name.
	RBTreeInstanceKey = attribute.Key("xordered.rbtree.instance")
)

var rbTreeInstanceID atomic.Int64

// rbTreeStats is nil when the stats are disabled, all the
// recorders are nil safe.
// The counters are aggregated per stats name, the size gauge is
// observed per tree instance.
type rbTreeStats struct {
	name             string
	meter            metric.Meter
	instanceID       int64
	instance         metric.MeasurementOption
	sizeReg          metric.Registration
	insertCount      metric.Int64Counter
	eraseCount       metric.Int64Counter
	rotateCount      metric.Int64Counter
	insertFixupCount metric.Int64Counter
	eraseFixupCount  metric.Int64Counter
	size             metric.Int64ObservableGauge
}

func (stats *rbTreeStats) IncreaseInsertCount() {
	if stats == nil {
		return
	}
	stats.insertCount.Add(context.Background(), 1)
}

func (stats *rbTreeStats) IncreaseEraseCount() {
	if stats == nil {
		return
	}
	stats.eraseCount.Add(context.Background(), 1)
}

func (stats *rbTreeStats) IncreaseRotateCount() {
	if stats == nil {
		return
	}
	stats.rotateCount.Add(context.Background(), 1)
}

func (stats *rbTreeStats) IncreaseInsertFixupCount() {
	if stats == nil {
		return
	}
	stats.insertFixupCount.Add(context.Background(), 1)
}

func (stats *rbTreeStats) IncreaseEraseFixupCount() {
	if stats == nil {
		return
	}
	stats.eraseFixupCount.Add(context.Background(), 1)
}

// observeSize registers the size callback of one tree, it is
// unregistered by release.
func (stats *rbTreeStats) observeSize(load func() int64) {
	if stats == nil || stats.sizeReg != nil {
		return
	}
	stats.sizeReg = lo.Must[metric.Registration](stats.meter.RegisterCallback(
		func(_ context.Context, ob metric.Observer) error {
			ob.ObserveInt64(stats.size, load(), stats.instance)
			return nil
		},
		stats.size,
	))
}

func (stats *rbTreeStats) release() {
	if stats == nil || stats.sizeReg == nil {
		return
	}
	if err := stats.sizeReg.Unregister(); err != nil {
		otel.Handle(err)
	}
	stats.sizeReg = nil
}

func (stats *rbTreeStats) id() int64 {
	if stats == nil {
		return 0
	}
	return stats.instanceID
}

// fork builds the stats of a clone, same name but a new instance.
func (stats *rbTreeStats) fork() *rbTreeStats {
	if stats == nil {
		return nil
	}
	return newRBTreeStats(stats.name)
}

// WithRBTreeStats records the mutations and the rebalance work through
// the global otel meter provider.
func WithRBTreeStats[K, E any](name string) RBTreeOption[K, E] {
	return func(tree *rbTree[K, E]) {
		tree.stats = newRBTreeStats(name)
	}
}

func newRBTreeStats(name string) *rbTreeStats {
	if len(name) == 0 {
		name = "default"
	}
	meter := otel.Meter(fmt.Sprintf("%s/%s", RBTreeStatsName, name))
	id := rbTreeInstanceID.Add(1)
	return &rbTreeStats{
		name:       name,
		meter:      meter,
		instanceID: id,
		instance:   metric.WithAttributeSet(attribute.NewSet(RBTreeInstanceKey.Int64(id))),
		size: lo.Must[metric.Int64ObservableGauge](meter.
			Int64ObservableGauge(
				"xordered.rbtree.size",
				metric.WithDescription("The number of elements in the red-black tree."),
			),
		),
		insertCount: lo.Must[metric.Int64Counter](meter.
			Int64Counter(
				"xordered.rbtree.insert.count",
				metric.WithDescription("The number of nodes linked into the red-black tree."),
			),
		),
		eraseCount: lo.Must[metric.Int64Counter](meter.
			Int64Counter(
				"xordered.rbtree.erase.count",
				metric.WithDescription("The number of nodes unlinked from the red-black tree."),
			),
		),
		rotateCount: lo.Must[metric.Int64Counter](meter.
			Int64Counter(
				"xordered.rbtree.rotate.count",
				metric.WithDescription("The number of rotations."),
			),
		),
		insertFixupCount: lo.Must[metric.Int64Counter](meter.
			Int64Counter(
				"xordered.rbtree.insert.fixup.count",
				metric.WithDescription("The number of insert rebalance iterations."),
			),
		),
		eraseFixupCount: lo.Must[metric.Int64Counter](meter.
			Int64Counter(
				"xordered.rbtree.erase.fixup.count",
				metric.WithDescription("The number of erase rebalance iterations."),
			),
		),
	}
}
