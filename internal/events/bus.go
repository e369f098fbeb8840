// Package events implements the in-process change bus: services publish after
// every committed mutation and downstream read models (name caches, debt
// aggregate refresh, SSE stream) react to the push instead of polling.
package events

import (
	"sync"
	"time"
)

// Tema identifies the aggregate a change belongs to.
type Tema string

const (
	TemaProductos   Tema = "productos"
	TemaClientes    Tema = "clientes"
	TemaProveedores Tema = "proveedores"
	TemaVentas      Tema = "ventas"
	TemaDeudas      Tema = "deudas"
)

// Evento is a change notification. It carries no payload; consumers re-read
// the store, so a dropped event costs freshness, never correctness.
type Evento struct {
	Tema   Tema      `json:"tema"`
	Accion string    `json:"accion"` // "creado" | "actualizado" | "eliminado" | "pagado"
	ID     string    `json:"id"`
	Fecha  time.Time `json:"fecha"`
}

// Bus fans out events to all live subscribers. Publish never blocks: slow
// subscribers miss events instead of stalling the writer, which is safe
// because consumers always recompute from the store.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan Evento
	nextID int
	closed bool
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Evento)}
}

// Subscribe registers a listener. The returned cancel func must be called to
// release the channel.
func (b *Bus) Subscribe() (<-chan Evento, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Evento, 32)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber whose buffer has room.
func (b *Bus) Publish(tema Tema, accion, id string) {
	e := Evento{Tema: tema, Accion: accion, ID: id, Fecha: time.Now().UTC()}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Close drops all subscribers. Further Publish calls are no-ops.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
