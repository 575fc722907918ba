package gladia

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// inbound is one received frame, decoded or not.
type inbound struct {
	event Event
	err   *Error
}

// readLoop owns the receive side of the socket. It decodes frames in receipt
// order, applies the state transitions they imply and queues them for
// delivery. It exits when the socket fails or is closed.
func (s *Session) readLoop() {
	defer close(s.events)

	for {
		msgType, frame, err := s.conn.ReadMessage()
		if err != nil {
			s.handleReadError(err)
			return
		}
		if msgType != TextMessage {
			s.events <- inbound{err: NewError(ErrorStatusMalformedEvent, fmt.Sprintf("unexpected frame type %d", msgType))}
			continue
		}

		ev, err := DecodeEvent(frame)
		if err != nil {
			derr, ok := err.(*Error)
			if !ok {
				derr = NewErrorWithCause(ErrorStatusMalformedEvent, "invalid event", err)
			}
			s.events <- inbound{err: derr}
			continue
		}

		s.events <- inbound{event: ev}

		if s.endsSession(ev) {
			if s.transition(StateClosed) {
				s.closeConn()
			}
		}
	}
}

// endsSession reports whether ev is the last message the session waits for.
func (s *Session) endsSession(ev Event) bool {
	switch ev.Kind() {
	case KindEndSession:
		return true
	case KindStopRecordingAcknowledged:
		return s.client.options.CloseOnStopAck && s.State() == StateStopping
	default:
		return false
	}
}

func (s *Session) handleReadError(err error) {
	switch st := s.State(); {
	case st.IsTerminal():
		// Closed locally; the read error is the expected wake-up.
	case st == StateStopping:
		s.logger.Debug().Err(err).Msg("connection closed while stopping")
		if s.transition(StateClosed) {
			s.closeConn()
		}
	case isNormalClose(err):
		s.fault(NewErrorWithCause(ErrorStatusTransportFault, "connection closed by server before stop", err))
	default:
		s.fault(NewErrorWithCause(ErrorStatusTransportFault, "connection lost", err))
	}
}

// deliverLoop invokes handlers one at a time in receipt order. When the
// reader is done it reports the fault, if any, to the error callback.
func (s *Session) deliverLoop() {
	defer close(s.done)

	for in := range s.events {
		if s.aborted.Load() {
			continue
		}
		if in.err != nil {
			s.logger.Debug().Err(in.err).Msg("dropping malformed event")
			s.reportError(in.err)
			continue
		}
		s.deliver(in.event)
	}

	if s.State() == StateFaulted {
		s.mu.RLock()
		err := s.err
		s.mu.RUnlock()
		if err != nil {
			s.reportError(err)
		}
	}
}

func (s *Session) deliver(ev Event) {
	kind := ev.Kind()

	s.mu.RLock()
	h := s.handlers[kind]
	s.mu.RUnlock()

	if h == nil {
		if e, ok := ev.(*ErrorEvent); ok {
			s.reportError(serverError(e))
		}
		return
	}

	eventsCounter.Add(context.Background(), 1, metric.WithAttributes(attribute.String("kind", string(kind))))
	if err := invokeHandler(h, ev); err != nil {
		s.reportError(NewErrorWithCause(ErrorStatusHandlerError, fmt.Sprintf("%s handler failed", kind), err))
	}
}

func invokeHandler(h HandlerFunc, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h(ev)
}

// reportError hands err to the error callback, or logs it when none is set.
func (s *Session) reportError(err *Error) {
	s.mu.RLock()
	cb := s.onError
	s.mu.RUnlock()

	if cb == nil {
		s.logger.Warn().Err(err).Str("status", string(err.Status)).Msg("unhandled session error")
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Msg("error callback panicked")
		}
	}()
	cb(err)
}

func serverError(e *ErrorEvent) *Error {
	msg := e.Error.Message
	if msg == "" {
		msg = e.Error.Exception
	}
	if msg == "" {
		msg = "server reported an error"
	}
	if e.Error.StatusCode != 0 {
		return NewErrorWithCode(ErrorStatusServerError, msg, e.Error.StatusCode)
	}
	return NewError(ErrorStatusServerError, msg)
}
