package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"combatsim/pkg/combat"
)

func TestEventBus_SubscribeAndEmit(t *testing.T) {
	b := combat.NewEventBus(10)
	var got *combat.Event
	b.Subscribe(combat.EventPreDamage, 0, func(e *combat.Event) { got = e })

	b.EmitSimple(combat.EventPreDamage, 1, "src", "tgt", map[string]interface{}{"damage": 10.0})

	require.NotNil(t, got)
	assert.Equal(t, 10.0, got.GetFloat("damage"))
}

func TestEventBus_PriorityOrdering(t *testing.T) {
	b := combat.NewEventBus(10)
	var order []int
	b.Subscribe(combat.EventPreDamage, 1, func(e *combat.Event) { order = append(order, 1) })
	b.Subscribe(combat.EventPreDamage, 10, func(e *combat.Event) { order = append(order, 10) })
	b.Subscribe(combat.EventPreDamage, 5, func(e *combat.Event) { order = append(order, 5) })

	b.EmitSimple(combat.EventPreDamage, 1, "", "", nil)

	assert.Equal(t, []int{10, 5, 1}, order)
}

func TestEventBus_GlobalListenersRunBeforeTypeSpecific(t *testing.T) {
	b := combat.NewEventBus(10)
	var order []string
	b.SubscribeAll(0, func(e *combat.Event) { order = append(order, "global") })
	b.Subscribe(combat.EventPreDamage, 0, func(e *combat.Event) { order = append(order, "specific") })

	b.EmitSimple(combat.EventPreDamage, 1, "", "", nil)

	assert.Equal(t, []string{"global", "specific"}, order)
}

func TestEventBus_CancellationStopsLaterListeners(t *testing.T) {
	b := combat.NewEventBus(10)
	var secondRan bool
	b.Subscribe(combat.EventPreDamage, 10, func(e *combat.Event) { e.Cancel() })
	b.Subscribe(combat.EventPreDamage, 5, func(e *combat.Event) { secondRan = true })

	b.EmitSimple(combat.EventPreDamage, 1, "", "", nil)

	assert.False(t, secondRan)
}

func TestEventBus_OnceListenerFiresOnlyOnce(t *testing.T) {
	b := combat.NewEventBus(10)
	count := 0
	b.SubscribeOnce(combat.EventPreDamage, 0, func(e *combat.Event) { count++ })

	b.EmitSimple(combat.EventPreDamage, 1, "", "", nil)
	b.EmitSimple(combat.EventPreDamage, 2, "", "", nil)

	assert.Equal(t, 1, count)
}

func TestEventBus_UnsubscribeRemovesListener(t *testing.T) {
	b := combat.NewEventBus(10)
	count := 0
	id := b.Subscribe(combat.EventPreDamage, 0, func(e *combat.Event) { count++ })
	b.Unsubscribe(id)

	b.EmitSimple(combat.EventPreDamage, 1, "", "", nil)

	assert.Equal(t, 0, count)
}

func TestEventBus_HistoryIsBoundedAndInOrder(t *testing.T) {
	b := combat.NewEventBus(3)
	for i := 0; i < 5; i++ {
		b.EmitSimple(combat.EventTickStart, i, "", "", nil)
	}

	hist := b.History()
	require.Len(t, hist, 3)
	assert.Equal(t, 2, hist[0].Tick)
	assert.Equal(t, 4, hist[2].Tick)
}

func TestEventBus_DisabledBusSkipsDispatch(t *testing.T) {
	b := combat.NewEventBus(10)
	count := 0
	b.Subscribe(combat.EventPreDamage, 0, func(e *combat.Event) { count++ })
	b.Disable()

	b.EmitSimple(combat.EventPreDamage, 1, "", "", nil)

	assert.Equal(t, 0, count)
	assert.False(t, b.IsEnabled())
}

func TestEvent_SetMarksModified(t *testing.T) {
	e := combat.NewEvent(combat.EventPreDamage, 1, "a", "b")
	assert.False(t, e.Modified())
	e.Set("damage", 5.0)
	assert.True(t, e.Modified())
	assert.Equal(t, 5.0, e.GetFloat("damage"))
}
