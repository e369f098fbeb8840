package events_test

import (
	"testing"
	"time"

	"github.com/Crsto22/Bodega-sub000/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishFanOut(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()

	ch1, cancel1 := bus.Subscribe()
	defer cancel1()
	ch2, cancel2 := bus.Subscribe()
	defer cancel2()

	bus.Publish(events.TemaProductos, "creado", "abc")

	for _, ch := range []<-chan events.Evento{ch1, ch2} {
		select {
		case e := <-ch:
			assert.Equal(t, events.TemaProductos, e.Tema)
			assert.Equal(t, "creado", e.Accion)
			assert.Equal(t, "abc", e.ID)
			assert.False(t, e.Fecha.IsZero())
		case <-time.After(time.Second):
			t.Fatal("evento no recibido")
		}
	}
}

func TestBus_PublishNoBloqueaConSubscriptorLento(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()

	_, cancel := bus.Subscribe()
	defer cancel()

	// Fill well past the subscriber buffer without reading; Publish must
	// drop instead of stalling.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			bus.Publish(events.TemaVentas, "creado", "x")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish se bloqueó con un subscriptor lento")
	}
}

func TestBus_CancelLiberaElCanal(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()

	ch, cancel := bus.Subscribe()
	cancel()

	_, ok := <-ch
	assert.False(t, ok, "el canal debe cerrarse al cancelar")

	// publishing after cancel must not panic
	bus.Publish(events.TemaClientes, "creado", "y")
}

func TestBus_Close(t *testing.T) {
	bus := events.NewBus()
	ch, cancel := bus.Subscribe()
	defer cancel()

	bus.Close()

	_, ok := <-ch
	require.False(t, ok)

	// no-ops after close
	bus.Publish(events.TemaDeudas, "pagado", "z")
	bus.Close()
}
