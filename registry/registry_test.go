package registry

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestInsertPendingPanicsOnDuplicate(t *testing.T) {
	r := New()
	r.InsertPending(1)
	require.Panics(t, func() { r.InsertPending(1) })
}

func TestCompleteThenTakeReady(t *testing.T) {
	require := require.New(t)
	r := New()
	r.InsertPending(1)
	r.Complete(1, []byte("payload"), nil)

	payload, err := r.Take(1, time.Time{})
	require.NoError(err)
	require.Equal([]byte("payload"), payload)
}

func TestCompleteThenTakeFailed(t *testing.T) {
	require := require.New(t)
	r := New()
	r.InsertPending(1)
	sentinel := errors.New("boom")
	r.Complete(1, nil, sentinel)

	_, err := r.Take(1, time.Time{})
	require.Equal(sentinel, err)
}

func TestTakeRemovesSlot(t *testing.T) {
	require := require.New(t)
	r := New()
	r.InsertPending(1)
	r.Complete(1, []byte("payload"), nil)
	_, err := r.Take(1, time.Time{})
	require.NoError(err)

	_, err = r.Take(1, time.Time{})
	require.ErrorIs(err, ErrUnknownID)
}

func TestTakeBlocksUntilComplete(t *testing.T) {
	require := require.New(t)
	r := New()
	r.InsertPending(1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		payload, err := r.Take(1, time.Time{})
		require.NoError(err)
		require.Equal([]byte("payload"), payload)
	}()

	time.Sleep(10 * time.Millisecond)
	r.Complete(1, []byte("payload"), nil)
	<-done
}

func TestTakeTimesOut(t *testing.T) {
	require := require.New(t)
	r := New()
	r.InsertPending(1)

	_, err := r.Take(1, time.Now().Add(5*time.Millisecond))
	require.ErrorIs(err, ErrTimeout)
}

func TestCompleteOnUnregisteredIDStashesResult(t *testing.T) {
	require := require.New(t)
	r := New()

	r.Complete(42, []byte("early"), nil)
	r.InsertPending(42)

	payload, err := r.Take(42, time.Time{})
	require.NoError(err)
	require.Equal([]byte("early"), payload)
}

func TestCancelDiscardsPendingSlot(t *testing.T) {
	require := require.New(t)
	r := New()
	r.InsertPending(1)
	r.Cancel(1)

	_, err := r.Take(1, time.Time{})
	require.ErrorIs(err, ErrUnknownID)

	// A late delivery for a cancelled ID neither panics nor blocks: Cancel
	// keeps no record of the ID, so Complete stashes the result like any
	// early delivery, and nothing ever calls Take for it again.
	r.Complete(1, []byte("late"), nil)
}

func TestFailAllFailsOnlyPendingSlots(t *testing.T) {
	require := require.New(t)
	r := New()
	r.InsertPending(1)
	r.InsertPending(2)
	r.Complete(2, []byte("already done"), nil)

	sentinel := errors.New("shutdown")
	r.FailAll(sentinel)

	_, err := r.Take(1, time.Time{})
	require.Equal(sentinel, err)

	payload, err := r.Take(2, time.Time{})
	require.NoError(err)
	require.Equal([]byte("already done"), payload)
}
