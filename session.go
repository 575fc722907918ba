package gladia

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// HandlerFunc handles one event. A returned error, or a panic, is reported
// through the session's error callback and does not stop delivery.
type HandlerFunc func(Event) error

// Session is one live transcription session. It is created Active by
// Client.CreateSession and ends Closed or Faulted.
//
// SendAudio, SendAudioJSON and Stop are serialised by a write lock, so frames
// from one goroutine go out in call order.
type Session struct {
	client *Client
	config SessionConfig
	logger zerolog.Logger

	id  string
	url string

	state atomic.Value // State

	mu            sync.RWMutex // transitions, handlers, callbacks, err, pending
	handlers      map[EventKind]HandlerFunc
	onError       func(*Error)
	onStateChange func(oldState, newState State)
	err           *Error
	pending       []stateChange
	notifying     bool

	writeMu   sync.Mutex
	conn      Conn
	closeOnce sync.Once

	events  chan inbound
	done    chan struct{}
	aborted atomic.Bool
}

func newSession(client *Client, config SessionConfig) *Session {
	s := &Session{
		client:        client,
		config:        config,
		logger:        *client.options.Logger,
		handlers:      make(map[EventKind]HandlerFunc),
		onError:       client.options.OnError,
		onStateChange: client.options.OnStateChange,
		done:          make(chan struct{}),
	}
	s.state.Store(StateCreated)
	return s
}

// connect performs Created -> Active. On failure the session is Faulted, the
// socket (if any) is closed and a SessionCreation error is returned.
func (s *Session) connect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.client.options.HandshakeTimeout)
	defer cancel()

	s.transition(StateConnecting)

	body, err := json.Marshal(s.config)
	if err != nil {
		return s.abortCreate(ctx, "failed to encode session config", err)
	}

	s.transition(StateHandshaking)
	created, err := s.client.initSession(ctx, body)
	if err != nil {
		return s.abortCreate(ctx, "session handshake failed", err)
	}
	s.id = created.ID
	s.url = created.URL
	s.logger = s.logger.With().Str("session_id", created.ID).Logger()

	conn, err := s.client.options.Dialer.Dial(ctx, created.URL)
	if err != nil {
		return s.abortCreate(ctx, "failed to connect", err)
	}
	if ctx.Err() != nil {
		conn.Close()
		return s.abortCreate(ctx, "failed to connect", ctx.Err())
	}
	s.conn = conn
	s.events = make(chan inbound, s.client.options.EventBufferSize)

	s.transition(StateActive)
	go s.readLoop()
	go s.deliverLoop()
	if interval := s.client.options.KeepAliveInterval; interval > 0 {
		go s.keepAliveLoop(interval)
	}
	return nil
}

func (s *Session) abortCreate(ctx context.Context, msg string, cause error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		msg = "session handshake timed out after " + s.client.options.HandshakeTimeout.String()
	}
	err := NewErrorWithCause(ErrorStatusSessionCreation, msg, cause)
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	s.transition(StateFaulted)
	close(s.done)
	return err
}

// ID returns the identifier assigned by the server.
func (s *Session) ID() string { return s.id }

// URL returns the socket endpoint assigned by the server.
func (s *Session) URL() string { return s.url }

// Config returns the effective configuration, defaults applied.
func (s *Session) Config() SessionConfig { return s.config.clone() }

func (s *Session) State() State {
	return s.state.Load().(State)
}

// Done is closed once the session is terminal and its goroutines have exited.
func (s *Session) Done() <-chan struct{} { return s.done }

// Err returns the error that faulted the session, or nil.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err == nil {
		return nil
	}
	return s.err
}

// Wait blocks until the session is done or ctx ends. Done closes only after
// the last handler returns, so a handler that calls Wait blocks until its ctx
// ends; handlers should call Close or Stop and return instead.
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Handle registers h for kind, replacing any previous handler. A nil h
// removes the handler.
func (s *Session) Handle(kind EventKind, h HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h == nil {
		delete(s.handlers, kind)
		return
	}
	s.handlers[kind] = h
}

func (s *Session) OnPartialTranscript(fn func(*TranscriptEvent) error) {
	s.Handle(KindPartialTranscript, func(ev Event) error { return fn(ev.(*TranscriptEvent)) })
}

func (s *Session) OnFinalTranscript(fn func(*TranscriptEvent) error) {
	s.Handle(KindFinalTranscript, func(ev Event) error { return fn(ev.(*TranscriptEvent)) })
}

func (s *Session) OnTranslation(fn func(*TranslationEvent) error) {
	s.Handle(KindTranslation, func(ev Event) error { return fn(ev.(*TranslationEvent)) })
}

func (s *Session) OnPostFinalTranscript(fn func(*PostFinalTranscriptEvent) error) {
	s.Handle(KindPostFinalTranscript, func(ev Event) error { return fn(ev.(*PostFinalTranscriptEvent)) })
}

// OnError replaces the error callback inherited from ClientOptions.
func (s *Session) OnError(fn func(*Error)) {
	s.mu.Lock()
	s.onError = fn
	s.mu.Unlock()
}

// OnStateChange replaces the state callback inherited from ClientOptions.
func (s *Session) OnStateChange(fn func(oldState, newState State)) {
	s.mu.Lock()
	s.onStateChange = fn
	s.mu.Unlock()
}

// SendAudio writes data as one binary frame. It fails with
// ErrorStatusInvalidState unless the session is Active. data is not retained.
func (s *Session) SendAudio(data []byte) error {
	if err := s.writeActive(BinaryMessage, data); err != nil {
		return err
	}
	audioBytesCounter.Add(context.Background(), int64(len(data)))
	return nil
}

// SendAudioJSON writes data as a base64 audio_chunk JSON frame.
func (s *Session) SendAudioJSON(data []byte) error {
	frame, err := json.Marshal(audioChunkMessage{
		Type: messageTypeAudioChunk,
		Data: audioChunkData{Chunk: base64.StdEncoding.EncodeToString(data)},
	})
	if err != nil {
		return err
	}
	if err := s.writeActive(TextMessage, frame); err != nil {
		return err
	}
	audioBytesCounter.Add(context.Background(), int64(len(data)))
	return nil
}

// SendStream reads from r and sends audio chunks until EOF.
func (s *Session) SendStream(r io.Reader, opts ...SendStreamOptions) error {
	var opt SendStreamOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	if opt.ChunkSize <= 0 {
		opt.ChunkSize = DefaultStreamChunkSize
	}
	send := s.SendAudio
	if opt.JSON {
		send = s.SendAudioJSON
	}

	buf := make([]byte, opt.ChunkSize)
	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			if sendErr := send(buf[:n]); sendErr != nil {
				return sendErr
			}
			if opt.PaceInterval > 0 {
				time.Sleep(opt.PaceInterval)
			}
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return err
		}
	}
	if opt.Finish {
		return s.Stop()
	}
	return nil
}

// Stop sends the stop_recording signal and moves the session to Stopping.
// The server keeps sending results until end_session. Calling Stop in any
// state other than Active is a no-op.
func (s *Session) Stop() error {
	frame, err := json.Marshal(stopRecordingMessage{Type: messageTypeStopRecording})
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	if !s.setState(StateStopping) {
		s.writeMu.Unlock()
		return nil
	}
	err = writeFrame(s.conn, s.client.options.WriteTimeout, TextMessage, frame)
	s.writeMu.Unlock()

	s.notifyState()
	if err != nil {
		werr := NewErrorWithCause(ErrorStatusTransportFault, "failed to send stop signal", err)
		s.fault(werr)
		return werr
	}
	return nil
}

// Close aborts the session without waiting for the server. Events not yet
// delivered are discarded. Close does not wait for the goroutines, so it is
// safe to call from a handler; use Done or Wait outside handlers.
func (s *Session) Close() error {
	s.aborted.Store(true)
	closed := s.setState(StateClosed)
	s.closeConn()
	if closed {
		s.notifyState()
	}
	return nil
}

// keepAliveLoop pings the server while the session is connected so that idle
// sockets survive NATs and proxies between utterances.
func (s *Session) keepAliveLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.writeMu.Lock()
			if !s.State().IsConnected() {
				s.writeMu.Unlock()
				continue
			}
			err := writePing(s.conn, s.client.options.WriteTimeout)
			s.writeMu.Unlock()

			// Best-effort: a broken socket also fails the read loop.
			if err != nil {
				s.logger.Debug().Err(err).Msg("keepalive ping failed")
			}
		}
	}
}

func (s *Session) writeActive(msgType int, data []byte) error {
	s.writeMu.Lock()
	if st := s.State(); st != StateActive {
		s.writeMu.Unlock()
		if st.IsTerminal() {
			return ErrSessionClosed
		}
		return ErrSessionNotActive
	}
	err := writeFrame(s.conn, s.client.options.WriteTimeout, msgType, data)
	s.writeMu.Unlock()

	if err != nil {
		werr := NewErrorWithCause(ErrorStatusTransportFault, "write failed", err)
		s.fault(werr)
		return werr
	}
	return nil
}

type stateChange struct {
	from, to State
}

// setState stores next if the transition is legal and queues the change for
// notification. Callers must follow a successful call with notifyState.
func (s *Session) setState(next State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setStateLocked(next)
}

func (s *Session) setStateLocked(next State) bool {
	old := s.State()
	if !old.canTransition(next) {
		return false
	}
	s.state.Store(next)
	s.pending = append(s.pending, stateChange{from: old, to: next})
	return true
}

// notifyState delivers queued state changes to the state callback in the
// order they happened, one at a time. If another goroutine (or a callback
// further up the stack) is already delivering, it returns and leaves the
// queue to that caller.
func (s *Session) notifyState() {
	s.mu.Lock()
	if s.notifying {
		s.mu.Unlock()
		return
	}
	s.notifying = true
	for len(s.pending) > 0 {
		change := s.pending[0]
		s.pending = s.pending[1:]
		cb := s.onStateChange
		s.mu.Unlock()

		s.logger.Debug().Str("from", change.from.String()).Str("to", change.to.String()).Msg("session state changed")
		if cb != nil {
			s.runStateCallback(cb, change)
		}

		s.mu.Lock()
	}
	s.notifying = false
	s.mu.Unlock()
}

func (s *Session) runStateCallback(cb func(oldState, newState State), change stateChange) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Msg("state callback panicked")
		}
	}()
	cb(change.from, change.to)
}

func (s *Session) transition(next State) bool {
	if !s.setState(next) {
		return false
	}
	s.notifyState()
	return true
}

// fault moves the session to Faulted and closes the socket. The error
// callback is invoked later, once, by the delivery goroutine.
func (s *Session) fault(err *Error) {
	s.mu.Lock()
	if !s.setStateLocked(StateFaulted) {
		s.mu.Unlock()
		return
	}
	s.err = err
	s.mu.Unlock()

	s.logger.Warn().Err(err).Msg("session faulted")
	s.closeConn()
	s.notifyState()
}

func (s *Session) closeConn() {
	s.closeOnce.Do(func() {
		if s.conn != nil {
			s.conn.Close()
		}
	})
}
