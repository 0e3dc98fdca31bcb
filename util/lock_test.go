package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRunLockIsExclusive(t *testing.T) {
	root := t.TempDir()

	first, err := AcquireRunLock(root)
	require.NoError(t, err)

	_, err = AcquireRunLock(root)
	assert.ErrorIs(t, err, ErrRunInProgress)

	require.NoError(t, first.Release())
	again, err := AcquireRunLock(root)
	require.NoError(t, err)
	require.NoError(t, again.Release())
}
