// Package metrics collects search statistics and writes game and move
// records as CSV.
package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Goroutines   int
	Duration     time.Duration
	Episodes     int
	Cutoff       int
	FullPlayouts int
	DrawPlayouts int // Full playouts ended by a draw, usually the quiet-move rule
	IsTreeReset  bool
}

// Reporter is implemented by players and searchers exposing the metric of
// their last search.
type Reporter interface {
	LastMetric() SearchMetric
}

type Collector interface {
	Start(goroutines, cutoff int)
	SetTreeReset(value bool)
	AddFullPlayout()
	AddDrawPlayout()
	AddEpisode()
	Complete() SearchMetric
}

type collector struct {
	goroutines   int
	cutoff       int
	startTime    time.Time
	episodes     atomic.Int32
	fullPlayouts atomic.Int32
	drawPlayouts atomic.Int32
	isTreeReset  atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) SetTreeReset(value bool) {
	m.isTreeReset.Store(value)
}

// Start clears the counters of the previous search.
func (m *collector) Start(goroutines, cutoff int) {
	m.startTime = time.Now()
	m.goroutines = goroutines
	m.cutoff = cutoff
	m.episodes.Store(0)
	m.fullPlayouts.Store(0)
	m.drawPlayouts.Store(0)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) AddDrawPlayout() {
	m.drawPlayouts.Add(1)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Goroutines:   m.goroutines,
		Duration:     time.Since(m.startTime),
		Episodes:     int(m.episodes.Load()),
		FullPlayouts: int(m.fullPlayouts.Load()),
		DrawPlayouts: int(m.drawPlayouts.Load()),
		Cutoff:       m.cutoff,
		IsTreeReset:  m.isTreeReset.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(goroutines, cutoff int) {}
func (m *dummyCollector) SetTreeReset(value bool)      {}
func (m *dummyCollector) AddFullPlayout()              {}
func (m *dummyCollector) AddDrawPlayout()              {}
func (m *dummyCollector) AddEpisode()                  {}
func (m *dummyCollector) Complete() SearchMetric       { return SearchMetric{} }
