package conn

type State int

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	default:
		return "closed"
	}
}

type eventType int

const (
	evDial eventType = iota
	evOpened
	evClosed
)

type event struct {
	typ     eventType
	session Session // evOpened only
	err     error   // evClosed only
}
