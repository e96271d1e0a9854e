package gizmo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnOff(t *testing.T) {
	c := New(NewPerspectiveCamera(60, 1, 0.1, 100))
	var got []Event
	id := c.On(EventProperty, func(e Event) { got = append(got, e) })
	other := c.On(EventProperty, func(Event) {})
	assert.NotEqual(t, id, other)

	require.NoError(t, c.SetMode(ModeScale))
	require.Len(t, got, 1)
	assert.Equal(t, PropMode, got[0].Property)
	assert.Equal(t, ModeScale, got[0].Value)
	assert.Equal(t, ModeScale, got[0].Mode, "events carry the current mode")

	assert.True(t, c.Off(id))
	assert.False(t, c.Off(id))
	require.NoError(t, c.SetMode(ModeRotate))
	assert.Len(t, got, 1)
}

func TestOffDuringEmit(t *testing.T) {
	c := New(NewPerspectiveCamera(60, 1, 0.1, 100))
	calls := 0
	var id ListenerID
	id = c.On(EventChange, func(Event) {
		calls++
		c.Off(id)
	})
	second := 0
	c.On(EventChange, func(Event) { second++ })

	c.SetSize(2)
	c.SetSize(3)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, second, "the remaining listener still runs")
}

func TestUnchangedModeIsSilent(t *testing.T) {
	c := New(NewPerspectiveCamera(60, 1, 0.1, 100))
	log := recordEvents(c)
	require.NoError(t, c.SetMode(ModeTranslate))
	require.NoError(t, c.SetSpace(SpaceWorld))
	assert.Empty(t, log.kinds)
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "dragStart", EventDragStart.String())
	assert.Equal(t, "transformChanged", EventTransformChanged.String())
	assert.Equal(t, "unknown", EventKind(42).String())
}
