//go:build !unix

package sys

import (
	"errors"
	"io/fs"
	"os"
)

func modeType(m fs.FileMode) Type {
	switch {
	case m.IsDir():
		return TypeDir
	case m.IsRegular():
		return TypeRegular
	case m&fs.ModeSymlink != 0:
		return TypeSymlink
	default:
		return TypeOther
	}
}

func lstatType(path string) Type {
	fi, err := os.Lstat(path)
	if err != nil {
		return TypeNone
	}
	return modeType(fi.Mode())
}

func statType(path string) Type {
	fi, err := os.Stat(path)
	if err != nil {
		return TypeNone
	}
	return modeType(fi.Mode())
}

func mkdir(path string) error {
	return mapErr("mkdir", path, os.Mkdir(path, 0o755))
}

func rmdir(path string) error {
	if t := lstatType(path); t != TypeNone && t != TypeDir {
		return opErr("rmdir", path, ErrNotDir)
	}
	return mapErr("rmdir", path, os.Remove(path))
}

func mkfile(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return mapErr("mkfile", path, err)
	}
	return mapErr("mkfile", path, f.Close())
}

func rmfile(path string) error {
	if lstatType(path) == TypeDir {
		return opErr("rmfile", path, ErrIsDir)
	}
	return mapErr("rmfile", path, os.Remove(path))
}

func mapErr(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var sentinel error
	switch {
	case errors.Is(err, fs.ErrExist):
		sentinel = ErrFileExists
	case errors.Is(err, fs.ErrNotExist):
		sentinel = ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		sentinel = ErrPermission
	case op == "rmdir" && Exists(path):
		sentinel = ErrNotEmpty
	default:
		return opErr(op, path, err)
	}
	return opErr(op, path, sentinel)
}
