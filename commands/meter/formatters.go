package meter

import (
	"fmt"
	"io"
	"time"

	"github.com/docker/go-units"
)

func FormatBytes(b uint64) string {
	return units.HumanSize(float64(b))
}

func FormatByteRate(b uint64, d time.Duration) string {
	seconds := max(d.Seconds(), time.Nanosecond.Seconds())

	return units.HumanSize(float64(b)/seconds) + "/s"
}

// LabelledRateFormat redraws a single progress line on w. The total is
// only shown when it is known.
func LabelledRateFormat(w io.Writer, label string, totalSize int64) UpdateCallback {
	total := ""
	if totalSize > UnknownTotalSize {
		total = "/" + FormatBytes(uint64(totalSize))
	}

	return func(transferred uint64, elapsed time.Duration, done bool) {
		line := fmt.Sprintf(
			"\r%s %s%s (%s)        ",
			label,
			FormatBytes(transferred),
			total,
			FormatByteRate(transferred, elapsed),
		)

		if done {
			_, _ = fmt.Fprintln(w, line)
			return
		}
		_, _ = fmt.Fprint(w, line)
	}
}
