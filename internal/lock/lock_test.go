package lock_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/undff/lzt-donate/internal/lock"
)

func TestAcquireRelease(t *testing.T) {
	l, err := lock.Acquire(0)
	require.NoError(t, err)
	require.NoError(t, l.Release())
}

func TestAcquireTwice(t *testing.T) {
	first, err := lock.Acquire(35228)
	require.NoError(t, err)
	defer first.Release()

	_, err = lock.Acquire(35228)
	require.ErrorIs(t, err, lock.ErrAlreadyRunning)
}

func TestReacquireAfterRelease(t *testing.T) {
	first, err := lock.Acquire(35229)
	require.NoError(t, err)
	require.NoError(t, first.Release())

	second, err := lock.Acquire(35229)
	require.NoError(t, err)
	require.NoError(t, second.Release())
}
