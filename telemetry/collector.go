package telemetry

import "github.com/mossline/biodome/traits"

// Collector accumulates events within tick windows and produces WindowStats.
// It implements the sim's observer contract, so it receives the same event
// stream external collaborators do.
type Collector struct {
	windowTicks int32
	windowStart int32
	lastTick    int32

	births         int
	deaths         int
	predationHits  int
	predationMiss  int
	tribesFormed   int
	weatherChanges int
	placements     int
}

// NewCollector creates a stats collector with the given window length.
func NewCollector(windowTicks int32) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: windowTicks}
}

// Notify records one event. Unknown event types are ignored.
func (c *Collector) Notify(ev Event) {
	if ev.Tick > c.lastTick {
		c.lastTick = ev.Tick
	}
	switch ev.Type {
	case EventReproduction:
		c.births++
	case EventDeath:
		c.deaths++
	case EventPredationHit:
		c.predationHits++
	case EventPredationMiss:
		c.predationMiss++
	case EventTribeEvolved:
		c.tribesFormed++
	case EventWeatherChanged:
		c.weatherChanges++
	case EventElementPlaced:
		c.placements++
	}
}

// WindowStats is one CSV row of windowed ecosystem health.
type WindowStats struct {
	Tick           int32   `csv:"tick"`
	Births         int     `csv:"births"`
	Deaths         int     `csv:"deaths"`
	PredationHits  int     `csv:"predation_hits"`
	PredationMiss  int     `csv:"predation_miss"`
	TribesFormed   int     `csv:"tribes_formed"`
	WeatherChanges int     `csv:"weather_changes"`
	Placements     int     `csv:"placements"`
	Plants         int     `csv:"plants"`
	Creatures      int     `csv:"creatures"`
	Predators      int     `csv:"predators"`
	Tribes         int     `csv:"tribes"`
	MeanHealth     float64 `csv:"mean_health"`
	StdHealth      float64 `csv:"std_health"`
	MeanEnergy     float64 `csv:"mean_energy"`
}

// WindowReady reports whether a full window has elapsed since the last flush.
func (c *Collector) WindowReady(tick int32) bool {
	return tick-c.windowStart >= c.windowTicks
}

// Flush produces the window's stats row merged with the supplied world
// aggregates, then resets the window counters.
func (c *Collector) Flush(tick int32, agg Aggregates) WindowStats {
	stats := WindowStats{
		Tick:           tick,
		Births:         c.births,
		Deaths:         c.deaths,
		PredationHits:  c.predationHits,
		PredationMiss:  c.predationMiss,
		TribesFormed:   c.tribesFormed,
		WeatherChanges: c.weatherChanges,
		Placements:     c.placements,
		Plants:         agg.PlantCount(),
		Creatures:      agg.CreatureCount(),
		Predators:      agg.Counts[traits.Predator],
		Tribes:         agg.Counts[traits.Tribe],
		MeanHealth:     agg.MeanHealth,
		StdHealth:      agg.StdHealth,
		MeanEnergy:     agg.MeanEnergy,
	}

	c.windowStart = tick
	c.births = 0
	c.deaths = 0
	c.predationHits = 0
	c.predationMiss = 0
	c.tribesFormed = 0
	c.weatherChanges = 0
	c.placements = 0

	return stats
}
