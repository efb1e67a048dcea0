package meter

import (
	"io"
	"time"
)

type writer struct {
	*meter

	w io.WriteCloser
}

// NewWriter counts the bytes written through w. A zero frequency disables
// the meter and returns w unchanged.
func NewWriter(w io.WriteCloser, frequency time.Duration, fn UpdateCallback) io.WriteCloser {
	if frequency <= 0 {
		return w
	}

	return &writer{w: w, meter: newMeter(frequency, fn)}
}

func (m *writer) Write(p []byte) (int, error) {
	n, err := m.w.Write(p)
	m.count(n)

	return n, err
}

func (m *writer) Close() error {
	m.finish()

	return m.w.Close()
}
