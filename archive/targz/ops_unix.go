//go:build !windows

package targz

import (
	"os"
	"runtime"
	"time"

	"golang.org/x/sys/unix"
)

// lchmod sets the permission bits of name without following a final
// symlink. Linux has no link modes, so links are left alone there.
func lchmod(name string, mode os.FileMode) error {
	flags := unix.AT_SYMLINK_NOFOLLOW
	if runtime.GOOS == "linux" {
		if mode&os.ModeSymlink != 0 {
			return nil
		}
		flags = 0
	}

	if err := unix.Fchmodat(unix.AT_FDCWD, name, uint32(mode.Perm()), flags); err != nil {
		return &os.PathError{Op: "lchmod", Path: name, Err: err}
	}

	return nil
}

// lchtimes sets access and modification times with nanosecond precision on
// name itself, also when it is a symlink.
func lchtimes(name string, _ os.FileMode, atime, mtime time.Time) error {
	ts := []unix.Timespec{
		unix.NsecToTimespec(atime.UnixNano()),
		unix.NsecToTimespec(mtime.UnixNano()),
	}

	if err := unix.UtimesNanoAt(unix.AT_FDCWD, name, ts, unix.AT_SYMLINK_NOFOLLOW); err != nil {
		return &os.PathError{Op: "lchtimes", Path: name, Err: err}
	}

	return nil
}
