package gladia

// State represents the lifecycle state of a live session.
type State string

const (
	// StateCreated is the initial state before any network activity.
	StateCreated State = "Created"

	// StateConnecting indicates CreateSession has started and the handshake deadline is running.
	StateConnecting State = "Connecting"

	// StateHandshaking indicates the session configuration was sent and the
	// session identifier has not been received yet.
	StateHandshaking State = "Handshaking"

	// StateActive indicates the socket is open and audio is accepted.
	StateActive State = "Active"

	// StateStopping indicates the stop signal was sent and the server is
	// flushing the remaining results.
	StateStopping State = "Stopping"

	// StateClosed indicates the session ended normally.
	StateClosed State = "Closed"

	// StateFaulted indicates the session ended because of a transport or
	// protocol failure.
	StateFaulted State = "Faulted"
)

// IsTerminal returns true if the state cannot transition further.
func (s State) IsTerminal() bool {
	switch s {
	case StateClosed, StateFaulted:
		return true
	default:
		return false
	}
}

// IsConnected returns true if a socket should be open in this state.
func (s State) IsConnected() bool {
	switch s {
	case StateActive, StateStopping:
		return true
	default:
		return false
	}
}

// canTransition reports whether the state machine allows s -> next.
func (s State) canTransition(next State) bool {
	if s.IsTerminal() || s == next {
		return false
	}
	switch next {
	case StateConnecting:
		return s == StateCreated
	case StateHandshaking:
		return s == StateConnecting
	case StateActive:
		return s == StateHandshaking
	case StateStopping:
		return s == StateActive
	case StateClosed:
		// Close() may abort a live session from any connected state.
		return s == StateActive || s == StateStopping
	case StateFaulted:
		return true
	default:
		return false
	}
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}
