package assistant

import (
	"context"
	"time"

	"tftnerd/internal/logging"
	"tftnerd/internal/vision"
)

// shopDetector and shopReader are the slices of the vision package the
// monitor needs; narrowed so tests can fake the screen.
type shopDetector interface {
	Visible(ctx context.Context) (bool, error)
	Wait(ctx context.Context, poll time.Duration) error
}

type shopReader interface {
	Read(ctx context.Context) (vision.Snapshot, error)
}

// ShopUpdate is one observation of the shop, with slot names resolved
// against the champion database.
type ShopUpdate struct {
	Slots []string
	Gold  int
	Level int
}

// Monitor watches the shop while it is open and reports each reading.
type Monitor struct {
	detector shopDetector
	reader   shopReader
	assist   *Assistant
	interval time.Duration
	poll     time.Duration

	// OnUpdate receives every reading. A nil OnUpdate only logs.
	OnUpdate func(ShopUpdate)
}

// NewMonitor creates a shop monitor.
func NewMonitor(a *Assistant, detector *vision.ShopDetector, reader *vision.ShopReader, interval, poll time.Duration) *Monitor {
	return newMonitor(a, detector, reader, interval, poll)
}

func newMonitor(a *Assistant, detector shopDetector, reader shopReader, interval, poll time.Duration) *Monitor {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if poll <= 0 {
		poll = time.Second
	}
	return &Monitor{
		detector: detector,
		reader:   reader,
		assist:   a,
		interval: interval,
		poll:     poll,
	}
}

// Interval returns the sampling interval.
func (m *Monitor) Interval() time.Duration { return m.interval }

// Run blocks until the shop closes or ctx ends. It waits for the shop to
// appear, then samples it once per interval; the loop ends cleanly the
// first time the shop marker disappears.
func (m *Monitor) Run(ctx context.Context) error {
	if err := m.detector.Wait(ctx, m.poll); err != nil {
		return err
	}
	logging.Monitor("shop monitor started, interval %v", m.interval)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		visible, err := m.detector.Visible(ctx)
		if err != nil {
			return err
		}
		if !visible {
			logging.Monitor("shop no longer visible, stopping")
			return nil
		}

		snap, err := m.reader.Read(ctx)
		if err != nil {
			logging.Get(logging.CategoryMonitor).Warn("shop read failed: %v", err)
		} else {
			m.emit(snap)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// emit resolves template names to canonical champion names and reports.
func (m *Monitor) emit(snap vision.Snapshot) {
	update := ShopUpdate{Gold: snap.Gold, Level: snap.Level}
	for _, raw := range snap.Slots {
		if raw == vision.EmptySlot {
			update.Slots = append(update.Slots, raw)
			continue
		}
		if hit, ok := m.assist.Matcher().Best(raw); ok {
			update.Slots = append(update.Slots, hit.Name)
		} else {
			update.Slots = append(update.Slots, raw)
		}
	}

	logging.Monitor("shop: slots=%v gold=%d level=%d", update.Slots, update.Gold, update.Level)
	if m.OnUpdate != nil {
		m.OnUpdate(update)
	}
}
