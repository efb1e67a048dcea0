package meter

import (
	"io"
	"time"
)

type reader struct {
	*meter

	r io.ReadCloser
}

// NewReader counts the bytes read from r. A zero frequency disables the
// meter and returns r unchanged.
func NewReader(r io.ReadCloser, frequency time.Duration, fn UpdateCallback) io.ReadCloser {
	if frequency <= 0 {
		return r
	}

	return &reader{r: r, meter: newMeter(frequency, fn)}
}

func (m *reader) Read(p []byte) (int, error) {
	n, err := m.r.Read(p)
	m.count(n)

	return n, err
}

func (m *reader) Close() error {
	m.finish()

	return m.r.Close()
}
