package websocket

import (
	"chat-relay/domain/event"
	"chat-relay/errors"
	"context"
)

// Sink is the push side of one websocket connection.
// Frames are encoded by the caller's goroutine and drained by the write pump.
type Sink struct {
	frames chan []byte
}

func NewSink(bufferSize int) *Sink {
	return &Sink{frames: make(chan []byte, bufferSize)}
}

// Consume never blocks the router: a full buffer drops the event.
func (s *Sink) Consume(ctx context.Context, e event.DomainEvent) error {
	frame, err := event.Encode(e)
	if err != nil {
		return err
	}
	select {
	case s.frames <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return errors.ErrSinkFull
	}
}

func (s *Sink) Frames() <-chan []byte { return s.frames }
