package session

import (
	"sync"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

const defaultEventBuffer = 64

// Subscriber receives the events of one session on a buffered channel.
// Send never blocks: when the buffer is full the oldest event is dropped.
type Subscriber struct {
	id       uint64
	events   chan t2048.Event
	done     chan struct{}
	doneOnce sync.Once
}

func newSubscriber(id uint64, buffer int) *Subscriber {
	if buffer < 1 {
		buffer = defaultEventBuffer
	}
	return &Subscriber{
		id:     id,
		events: make(chan t2048.Event, buffer),
		done:   make(chan struct{}),
	}
}

// Events returns the channel events are delivered on.
func (s *Subscriber) Events() <-chan t2048.Event {
	return s.events
}

// Done is closed when the subscriber is closed.
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

func (s *Subscriber) send(e t2048.Event) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- e:
	default:
		// Full: drop the oldest and retry once.
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- e:
		default:
		}
	}
}

func (s *Subscriber) close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}
