package enums

// TrackingStatus is the polling state of an event. It is stored as the
// legacy 1/0 column so existing rows keep their meaning.
type TrackingStatus int16

const (
	// TrackingStopped is terminal: the event's start date has passed.
	TrackingStopped TrackingStatus = 0
	// TrackingActive events are polled for a fresh price each run.
	TrackingActive TrackingStatus = 1
)

func (s TrackingStatus) String() string {
	switch s {
	case TrackingActive:
		return "active"
	case TrackingStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
