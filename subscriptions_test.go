package gami

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrySubscribeFiresInOrder(t *testing.T) {
	r := NewRegistry()
	var order []int

	require.NoError(t, r.Subscribe("on_Hangup", func(p *Packet) error {
		order = append(order, 1)
		return nil
	}))
	require.NoError(t, r.Subscribe("on_Hangup", func(p *Packet) error {
		order = append(order, 2)
		return nil
	}))

	require.NoError(t, r.Fire("on_Hangup", NewPacket()))
	assert.Equal(t, []int{1, 2}, order)
}

func TestRegistryDuplicateSubscription(t *testing.T) {
	r := NewRegistry()
	h := func(p *Packet) error { return nil }

	require.NoError(t, r.Subscribe("on_Dial", h))
	err := r.Subscribe("on_Dial", h)
	assert.ErrorIs(t, err, ErrDuplicateSubscription)
}

func TestRegistryUnsubscribe(t *testing.T) {
	r := NewRegistry()
	called := false
	h := func(p *Packet) error {
		called = true
		return nil
	}

	require.NoError(t, r.Subscribe("on_Dial", h))
	r.Unsubscribe("on_Dial", h)
	assert.False(t, r.HasHandler("on_Dial"))

	require.NoError(t, r.Fire("on_Dial", NewPacket()))
	assert.False(t, called)
}

func TestRegistryFireAbortsOnError(t *testing.T) {
	r := NewRegistry()
	secondCalled := false

	require.NoError(t, r.Subscribe("on_X", func(p *Packet) error {
		return ErrMalformed
	}))
	require.NoError(t, r.Subscribe("on_X", func(p *Packet) error {
		secondCalled = true
		return nil
	}))

	err := r.Fire("on_X", NewPacket())
	assert.ErrorIs(t, err, ErrMalformed)
	assert.False(t, secondCalled)
}

func TestRegistryMergeAllOrNothing(t *testing.T) {
	r := NewRegistry()
	h1 := func(p *Packet) error { return nil }
	require.NoError(t, r.Subscribe("on_A", h1))

	other := NewRegistry()
	h2 := func(p *Packet) error { return nil }
	require.NoError(t, other.Subscribe("on_A", h1)) // duplicate vs r
	require.NoError(t, other.Subscribe("on_B", h2))

	err := r.Merge(other)
	assert.ErrorIs(t, err, ErrDuplicateSubscription)
	assert.False(t, r.HasHandler("on_B"), "merge must roll back partial additions")
}

func TestRegistryMergeSuccess(t *testing.T) {
	r := NewRegistry()
	other := NewRegistry()
	require.NoError(t, other.Subscribe("on_C", func(p *Packet) error { return nil }))

	require.NoError(t, r.Merge(other))
	assert.True(t, r.HasHandler("on_C"))

	r.Unmerge(other)
	assert.False(t, r.HasHandler("on_C"))
}

func TestRegistryCaptureRestoresPrevious(t *testing.T) {
	r := NewRegistry()
	originalCalled := false
	require.NoError(t, r.Subscribe("on_Status", func(p *Packet) error {
		originalCalled = true
		return nil
	}))

	restore := r.capture("on_Status", func(p *Packet) error { return nil })
	assert.True(t, r.HasHandler("on_Status"))
	restore()

	require.NoError(t, r.Fire("on_Status", NewPacket()))
	assert.True(t, originalCalled)
}
