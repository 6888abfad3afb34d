package models

// Media type constants stored alongside reported entries.
const (
	MediaTypeLivestream int16 = 0
	MediaTypeMovie      int16 = 1
)

// Probe outcome reasons.
const (
	ReasonOK        = "ok"
	ReasonStatus    = "status"
	ReasonTimeout   = "timeout"
	ReasonTransport = "transport"
)
