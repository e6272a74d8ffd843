package channel

import "errors"

var (
	errChannelClosed = errors.New("channel: closed")
	errWouldBlock    = errors.New("channel: would block")
	errSendTimedOut  = errors.New("channel: send timed out")
	errRecvTimedOut  = errors.New("channel: receive timed out")
	errNoPullers     = errors.New("channel: no connected pullers")
	errReqTimedOut   = errors.New("channel: request timed out awaiting reply")
)
