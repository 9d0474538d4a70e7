//go:build unix

package sys

import (
	"errors"

	"golang.org/x/sys/unix"
)

func modeType(mode uint32) Type {
	switch mode & unix.S_IFMT {
	case unix.S_IFDIR:
		return TypeDir
	case unix.S_IFREG:
		return TypeRegular
	case unix.S_IFLNK:
		return TypeSymlink
	default:
		return TypeOther
	}
}

func lstatType(path string) Type {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return TypeNone
	}
	return modeType(uint32(st.Mode))
}

func statType(path string) Type {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return TypeNone
	}
	return modeType(uint32(st.Mode))
}

func mkdir(path string) error {
	return mapErr("mkdir", path, retry(func() error { return unix.Mkdir(path, 0o755) }))
}

func rmdir(path string) error {
	return mapErr("rmdir", path, retry(func() error { return unix.Rmdir(path) }))
}

func mkfile(path string) error {
	var fd int
	err := retry(func() error {
		var err error
		fd, err = unix.Open(path, unix.O_WRONLY|unix.O_CREAT|unix.O_EXCL|unix.O_CLOEXEC, 0o644)
		return err
	})
	if err != nil {
		return mapErr("mkfile", path, err)
	}
	return mapErr("mkfile", path, unix.Close(fd))
}

func rmfile(path string) error {
	return mapErr("rmfile", path, retry(func() error { return unix.Unlink(path) }))
}

// retry repeats fn while it is interrupted by a signal.
func retry(fn func() error) error {
	for {
		err := fn()
		if !errors.Is(err, unix.EINTR) {
			return err
		}
	}
}

func mapErr(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var sentinel error
	switch {
	case errors.Is(err, unix.ENAMETOOLONG):
		sentinel = ErrNameTooLong
	case errors.Is(err, unix.EEXIST):
		if op == "rmdir" {
			sentinel = ErrNotEmpty
		} else {
			sentinel = ErrFileExists
		}
	case errors.Is(err, unix.ENOTEMPTY):
		sentinel = ErrNotEmpty
	case errors.Is(err, unix.ENOENT):
		sentinel = ErrNotFound
	case errors.Is(err, unix.EISDIR):
		sentinel = ErrIsDir
	case errors.Is(err, unix.ENOTDIR):
		sentinel = ErrNotDir
	case errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM):
		sentinel = ErrPermission
	case errors.Is(err, unix.EINVAL):
		sentinel = ErrInvalidPath
	default:
		return opErr(op, path, err)
	}
	return opErr(op, path, sentinel)
}
