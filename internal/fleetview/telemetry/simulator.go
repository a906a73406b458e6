package telemetry

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/autopeer-io/fleetview/internal/fleetview/core"
	"github.com/autopeer-io/fleetview/internal/fleetview/core/model"
)

const DefaultWindow = 24

const (
	maxSpeed       = 120
	minTemperature = 15
	maxTemperature = 40
)

// base is the reading a simulated vehicle starts from.
type base struct {
	speed, battery, temperature float64
	location                    string
	gps                         model.GPS
}

var (
	defaultBase = base{
		speed:       55,
		battery:     80,
		temperature: 25,
		location:    "Mumbai, Maharashtra",
		gps:         model.GPS{Lat: 19.076, Lng: 72.8777},
	}

	// knownBases pins the demo fleet to recognisable readings.
	knownBases = map[string]base{
		"1": {speed: 65, battery: 87, temperature: 24, location: "Mumbai, MH", gps: model.GPS{Lat: 19.076, Lng: 72.8777}},
		"2": {speed: 42, battery: 65, temperature: 28, location: "Delhi, DL", gps: model.GPS{Lat: 28.7041, Lng: 77.1025}},
		"3": {speed: 0, battery: 23, temperature: 22, location: "Bengaluru, KA", gps: model.GPS{Lat: 12.9716, Lng: 77.5946}},
	}
)

var _ core.TelemetryProducer = (*Simulator)(nil)

// Simulator produces deterministic synthetic telemetry per vehicle.
// Readings depend only on the seed, vehicle id and the current hour.
type Simulator struct {
	mu     sync.Mutex
	seed   uint64
	window int
	now    func() time.Time
	bases  map[string]base
}

type SimulatorOption func(*Simulator)

func WithSeed(seed uint64) SimulatorOption {
	return func(s *Simulator) { s.seed = seed }
}

func WithWindow(n int) SimulatorOption {
	return func(s *Simulator) {
		if n > 0 {
			s.window = n
		}
	}
}

func WithClock(now func() time.Time) SimulatorOption {
	return func(s *Simulator) { s.now = now }
}

func NewSimulator(opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		seed:   rand.Uint64(),
		window: DefaultWindow,
		now:    time.Now,
		bases:  make(map[string]base, len(knownBases)),
	}
	for id, b := range knownBases {
		s.bases[id] = b
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Simulator) Snapshot(_ context.Context, vehicleID string) (*model.TelemetrySnapshot, error) {
	b := s.base(vehicleID)
	return &model.TelemetrySnapshot{
		VehicleID:   vehicleID,
		Speed:       b.speed,
		Battery:     b.battery,
		Temperature: b.temperature,
		Location:    b.location,
		GPS:         b.gps,
		ObservedAt:  s.now().UTC(),
	}, nil
}

// History returns window hourly samples ending at the current hour. The
// last sample is the current snapshot and earlier ones walk back from it:
// speed moves up to 10 km/h and temperature up to 1 °C per hour, and the
// battery was up to 6% (3% on average) fuller each hour before, capped at 100%.
func (s *Simulator) History(ctx context.Context, vehicleID string) (*model.TelemetryHistory, error) {
	cur, err := s.Snapshot(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	end := cur.ObservedAt.Truncate(time.Hour)
	rng := s.rng(vehicleID, end)

	h := &model.TelemetryHistory{
		Speed:       make([]model.Sample, s.window),
		Battery:     make([]model.Sample, s.window),
		Temperature: make([]model.Sample, s.window),
	}
	speed, battery, temperature := cur.Speed, cur.Battery, cur.Temperature
	for i := s.window - 1; i >= 0; i-- {
		ts := end.Add(-time.Duration(s.window-1-i) * time.Hour)
		h.Speed[i] = model.Sample{Timestamp: ts, Value: speed}
		h.Battery[i] = model.Sample{Timestamp: ts, Value: battery}
		h.Temperature[i] = model.Sample{Timestamp: ts, Value: temperature}

		speed = clamp(speed+float64(rng.IntN(21)-10), 0, maxSpeed)
		battery = math.Min(100, battery+rng.Float64()*6)
		temperature = clamp(temperature+float64(rng.IntN(3)-1), minTemperature, maxTemperature)
	}
	return h, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func (s *Simulator) base(vehicleID string) base {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.bases[vehicleID]; ok {
		return b
	}

	rng := s.rng(vehicleID, time.Time{})
	b := defaultBase
	b.speed = float64(rng.IntN(40) + 40)
	b.battery = float64(rng.IntN(70) + 30)
	b.temperature = float64(rng.IntN(10) + 20)
	s.bases[vehicleID] = b
	return b
}

func (s *Simulator) rng(vehicleID string, at time.Time) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(vehicleID))
	return rand.New(rand.NewPCG(s.seed^h.Sum64(), uint64(at.Unix())))
}
