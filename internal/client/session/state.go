package session

// ConnState is owned exclusively by the connection manager.
type ConnState int

const (
	StateIdle ConnState = iota
	StateConnecting
	StateOpen
	StateReconnecting
	StateAbandoned
)

func (s ConnState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateReconnecting:
		return "reconnecting"
	case StateAbandoned:
		return "abandoned"
	}

	return "unknown"
}
