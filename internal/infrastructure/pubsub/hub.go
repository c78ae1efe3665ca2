package pubsub

import (
	"sync"

	"github.com/chro-network/chro-marketplace/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

const listenerBufferSize = 64

type listener struct {
	topic  string
	events chan ports.Event
}

// Hub broadcasts published messages to in-process listeners. Listeners that
// can't keep up miss the events.
type Hub struct {
	lock      *sync.RWMutex
	listeners map[uint64]*listener
	nextID    uint64
	closed    bool
}

func NewHub() *Hub {
	return &Hub{
		lock:      &sync.RWMutex{},
		listeners: make(map[uint64]*listener),
	}
}

// Listen returns the channel of the events published for the topic, or for
// any topic if AnyTopic is given, and the func to stop listening. The channel
// is closed once stopped or when the hub is closed.
func (h *Hub) Listen(topic string) (<-chan ports.Event, func()) {
	h.lock.Lock()
	defer h.lock.Unlock()

	l := &listener{topic, make(chan ports.Event, listenerBufferSize)}
	if h.closed {
		close(l.events)
		return l.events, func() {}
	}

	id := h.nextID
	h.nextID++
	h.listeners[id] = l

	once := &sync.Once{}
	return l.events, func() {
		once.Do(func() { h.remove(id) })
	}
}

func (h *Hub) Close() {
	h.lock.Lock()
	defer h.lock.Unlock()

	for id, l := range h.listeners {
		close(l.events)
		delete(h.listeners, id)
	}
	h.closed = true
}

func (h *Hub) broadcast(topic, message string) {
	h.lock.RLock()
	defer h.lock.RUnlock()

	event := ports.Event{Topic: topic, Payload: message}
	for _, l := range h.listeners {
		if l.topic != ports.AnyTopic && l.topic != topic {
			continue
		}
		select {
		case l.events <- event:
		default:
			log.Warnf("pubsub: dropped %s event for slow listener", topic)
		}
	}
}

func (h *Hub) remove(id uint64) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if l, ok := h.listeners[id]; ok {
		close(l.events)
		delete(h.listeners, id)
	}
}

type hubPubSub struct {
	ports.SecurePubSub
	hub *Hub
}

// WithHub returns a SecurePubSub that also broadcasts every published message
// to the listeners of the hub.
func WithHub(pubsub ports.SecurePubSub, hub *Hub) ports.SecurePubSub {
	return &hubPubSub{pubsub, hub}
}

func (p *hubPubSub) Publish(topic, message string) error {
	p.hub.broadcast(topic, message)
	return p.SecurePubSub.Publish(topic, message)
}

func (p *hubPubSub) Close() error {
	p.hub.Close()
	return p.SecurePubSub.Close()
}
