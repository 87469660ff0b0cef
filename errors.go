package gami

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// Sentinel error kinds. Callers distinguish them with errors.Is.
var (
	ErrBannerMismatch        = eris.New("gami: banner mismatch")
	ErrAuthenticationFailure = eris.New("gami: authentication failed")
	ErrPermissionDenied      = eris.New("gami: permission denied")
	ErrGoneAway              = eris.New("gami: connection gone away")
	ErrMalformed             = eris.New("gami: malformed packet")
	ErrTransportClosed       = eris.New("gami: transport closed")
	ErrDuplicateSubscription = eris.New("gami: duplicate subscription")
	ErrKeyNotFound           = eris.New("gami: key not found")
	ErrTimeout               = eris.New("gami: action timed out")
	ErrResponseOverflow      = eris.New("gami: response buffer overflow")
)

// ActionFailedError reports a non-success response that is not a
// permission failure. It carries the PBX's Message header verbatim.
type ActionFailedError struct {
	Message string
}

func (e *ActionFailedError) Error() string {
	return fmt.Sprintf("gami: action failed: %s", e.Message)
}

// NewActionFailed wraps a PBX failure message as an ActionFailedError.
func NewActionFailed(message string) error {
	return eris.Wrap(&ActionFailedError{Message: message}, "action failed")
}

// CommunicationError reports a packet shape the protocol does not allow,
// such as a missing ActionID or an unexpected close handshake.
type CommunicationError struct {
	Packet  *Packet
	Context string
}

func (e *CommunicationError) Error() string {
	return fmt.Sprintf("gami: unexpected response from PBX (%s): %v", e.Context, e.Packet.Raw())
}

// NewCommunicationError builds a CommunicationError for packet in context.
func NewCommunicationError(packet *Packet, context string) error {
	return eris.Wrap(&CommunicationError{Packet: packet, Context: context}, "communication error")
}
