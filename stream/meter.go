package stream

import (
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/rotblauer/transectd/common"
)

// TickMeter logs scan throughput on an interval while a reader runs:
// fixes per second, bytes per second, running totals, and which
// surveys have shown up in the stream.
type TickMeter struct {
	label    time.Time
	interval time.Duration
	started  time.Time
	ticker   *time.Ticker
	nn       atomic.Uint64
	sources  []string

	reg        metrics.Registry
	count      metrics.Counter
	size       metrics.Counter
	countMeter metrics.Meter
	sizeMeter  metrics.Meter
}

func NewTickMeter(interval time.Duration) *TickMeter {
	// Won't work without this global setting.
	metrics.Enabled = true

	reg := metrics.NewRegistry()
	m := &TickMeter{
		reg:        reg,
		interval:   interval,
		started:    time.Now(),
		nn:         atomic.Uint64{},
		sources:    []string{},
		count:      metrics.NewCounter(),
		size:       metrics.NewCounter(),
		countMeter: metrics.NewMeter(),
		sizeMeter:  metrics.NewMeter(),
	}

	if err := reg.Register("count.count", m.count); err != nil {
		panic(err)
	}
	if err := reg.Register("size.count", m.size); err != nil {
		panic(err)
	}
	if err := reg.Register("line.meter", m.countMeter); err != nil {
		panic(err)
	}
	if err := reg.Register("size.meter", m.sizeMeter); err != nil {
		panic(err)
	}
	m.nn.Store(0)
	go m.run()
	return m
}

// Mark counts one read line. The label is any representative time from
// the line, logged so a long import shows where in history it is.
func (m *TickMeter) Mark(label time.Time, data []byte) {
	m.label = label
	m.nn.Add(1)
	m.count.Inc(1)
	m.size.Inc(int64(len(data)))
	m.countMeter.Mark(1)
	m.sizeMeter.Mark(int64(len(data)))
}

func (m *TickMeter) AddSource(name string) {
	for _, s := range m.sources {
		if s == name {
			return
		}
	}
	m.sources = append(m.sources, name)
}

func (m *TickMeter) N() uint64 { return m.nn.Load() }

func (m *TickMeter) Count() int64 {
	return m.countMeter.Snapshot().Count()
}

func (m *TickMeter) Started() time.Time { return m.started }

func (m *TickMeter) run() {
	m.ticker = time.NewTicker(m.interval)
	for range m.ticker.C {
		m.log()
	}
}

func (m *TickMeter) log() {
	countSnap := m.countMeter.Snapshot()
	sizeSnap := m.sizeMeter.Snapshot()

	slog.Info("Read fixes", "n", humanize.Comma(countSnap.Count()),
		"surveys", strings.Join(m.sources, ","),
		"read.last", m.label.Format(time.DateTime),
		"fps", common.DecimalToFixed(countSnap.Rate1(), 0),
		"bps", humanize.Bytes(uint64(sizeSnap.Rate1())),
		"total.bytes", humanize.Bytes(uint64(sizeSnap.Count())),
		"running", time.Since(m.started).Round(time.Second))
}

func (m *TickMeter) Stop() {
	if m == nil || m.ticker == nil {
		return
	}
	m.ticker.Stop()
	m.countMeter.Stop()
	m.sizeMeter.Stop()
}
