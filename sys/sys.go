// Package sys is a thin filesystem wrapper with a fixed set of error
// outcomes per operation.
//
// Every operation rejects the empty path with ErrInvalidPath and reports
// over-long names as ErrNameTooLong. Other outcomes are listed on each
// function. Errors not covered by a sentinel are returned wrapped with the
// operation and path.
package sys

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Type is the kind of filesystem entry at a path.
type Type int

const (
	TypeNone    Type = iota // nothing at the path
	TypeDir                 // directory
	TypeRegular             // regular file
	TypeSymlink             // symbolic link (TypeOf does not follow links)
	TypeOther               // device, socket, pipe
)

func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeDir:
		return "dir"
	case TypeRegular:
		return "regular"
	case TypeSymlink:
		return "symlink"
	default:
		return "other"
	}
}

var (
	ErrInvalidPath       = errors.New("sys: invalid path")
	ErrNameTooLong       = errors.New("sys: name too long")
	ErrFileExists        = errors.New("sys: file exists")
	ErrDirExists         = errors.New("sys: directory exists")
	ErrRegularFileExists = errors.New("sys: regular file exists")
	ErrNotEmpty          = errors.New("sys: directory not empty")
	ErrNotFound          = errors.New("sys: not found")
	ErrIsDir             = errors.New("sys: is a directory")
	ErrNotDir            = errors.New("sys: not a directory")
	ErrPermission        = errors.New("sys: permission denied")
)

// Exists reports whether anything is at path. Symlinks are not followed.
func Exists(path string) bool {
	return TypeOf(path) != TypeNone
}

// TypeOf returns the type of the entry at path without following symlinks.
// Errors, including an empty path, report TypeNone.
func TypeOf(path string) Type {
	if path == "" {
		return TypeNone
	}
	return lstatType(path)
}

// IsDir reports whether path resolves to a directory.
func IsDir(path string) bool {
	return path != "" && statType(path) == TypeDir
}

// IsFile reports whether path resolves to something other than a directory.
func IsFile(path string) bool {
	if path == "" {
		return false
	}
	t := statType(path)
	return t != TypeNone && t != TypeDir
}

// IsRegularFile reports whether path resolves to a regular file.
func IsRegularFile(path string) bool {
	return path != "" && statType(path) == TypeRegular
}

// Mkdir creates a directory with mode 0755. An existing directory is not an
// error; any other existing entry fails with ErrFileExists. A missing parent
// fails with ErrNotFound.
func Mkdir(path string) error {
	if path == "" {
		return opErr("mkdir", path, ErrInvalidPath)
	}
	err := mkdir(path)
	if errors.Is(err, ErrFileExists) && statType(path) == TypeDir {
		return nil
	}
	return err
}

// Mkdirs creates path and any missing parents.
func Mkdirs(path string) error {
	if path == "" {
		return opErr("mkdirs", path, ErrInvalidPath)
	}
	err := Mkdir(path)
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	parent := filepath.Dir(path)
	if parent == path {
		return err
	}
	if err := Mkdirs(parent); err != nil {
		return err
	}
	return Mkdir(path)
}

// Rmdir removes an empty directory. It fails with ErrNotEmpty, ErrNotFound or
// ErrNotDir.
func Rmdir(path string) error {
	if path == "" {
		return opErr("rmdir", path, ErrInvalidPath)
	}
	return rmdir(path)
}

// Mkfile creates an empty regular file with mode 0644. It never truncates:
// an existing directory fails with ErrDirExists and any other existing entry
// with ErrRegularFileExists.
func Mkfile(path string) error {
	if path == "" {
		return opErr("mkfile", path, ErrInvalidPath)
	}
	err := mkfile(path)
	if errors.Is(err, ErrFileExists) {
		if statType(path) == TypeDir {
			return opErr("mkfile", path, ErrDirExists)
		}
		return opErr("mkfile", path, ErrRegularFileExists)
	}
	return err
}

// Rmfile removes a non-directory entry. It fails with ErrNotFound or ErrIsDir.
func Rmfile(path string) error {
	if path == "" {
		return opErr("rmfile", path, ErrInvalidPath)
	}
	err := rmfile(path)
	if err != nil && !errors.Is(err, ErrNotFound) && lstatType(path) == TypeDir {
		return opErr("rmfile", path, ErrIsDir)
	}
	return err
}

func opErr(op, path string, err error) error {
	return fmt.Errorf("%w (%s %q)", err, op, path)
}
