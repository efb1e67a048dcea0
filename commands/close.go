package commands

import (
	"io"

	"github.com/hashicorp/go-multierror"
)

// closeWithError closes c and records a close failure in err. When err is
// already set both errors are kept.
func closeWithError(c io.Closer, err *error) {
	cerr := c.Close()
	if cerr == nil {
		return
	}

	if *err == nil {
		*err = cerr
		return
	}

	*err = multierror.Append(*err, cerr)
}
