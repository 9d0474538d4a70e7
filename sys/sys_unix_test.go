//go:build unix

package sys

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNameTooLong(t *testing.T) {
	path := filepath.Join(t.TempDir(), longName())

	require.ErrorIs(t, Mkdir(path), ErrNameTooLong)
	require.ErrorIs(t, Mkdirs(path), ErrNameTooLong)
	require.ErrorIs(t, Rmdir(path), ErrNameTooLong)
	require.ErrorIs(t, Mkfile(path), ErrNameTooLong)
	require.ErrorIs(t, Rmfile(path), ErrNameTooLong)
}
