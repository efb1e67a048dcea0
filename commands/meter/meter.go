package meter

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	UnknownTotalSize = 0

	minimumFrequency = time.Second
)

type TransferMeterCommand struct {
	//nolint:lll
	TransferMeterFrequency time.Duration `long:"transfer-meter-frequency" env:"TART_TRANSFER_METER_FREQUENCY" description:"If set to more than 0s it prints a transfer meter to stderr at this interval"`
}

// UpdateCallback is called from the meter goroutine once when the meter
// starts, on every tick and a final time with done set.
type UpdateCallback func(transferred uint64, elapsed time.Duration, done bool)

type meter struct {
	transferred atomic.Uint64

	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

func newMeter(frequency time.Duration, fn UpdateCallback) *meter {
	m := &meter{
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	go m.run(max(frequency, minimumFrequency), fn)

	return m
}

func (m *meter) run(frequency time.Duration, fn UpdateCallback) {
	defer close(m.stopped)

	started := time.Now()
	ticker := time.NewTicker(frequency)
	defer ticker.Stop()

	for {
		fn(m.transferred.Load(), time.Since(started), false)

		select {
		case <-ticker.C:
		case <-m.stop:
			fn(m.transferred.Load(), time.Since(started), true)
			return
		}
	}
}

func (m *meter) count(n int) {
	if n > 0 {
		m.transferred.Add(uint64(n))
	}
}

// finish stops the meter and waits for the final update. It is safe to call
// more than once.
func (m *meter) finish() {
	m.once.Do(func() {
		close(m.stop)
		<-m.stopped
	})
}
