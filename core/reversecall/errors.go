package reversecall

import "errors"

var (
	// Transport errors
	ErrTransportClosed = errors.New("transport closed")
	ErrNoSubscriber    = errors.New("no subscriber for subject")

	// Connection errors
	ErrRegistrationFailed = errors.New("registration failed")
	ErrPingTimeout        = errors.New("no ping received from runtime")
	ErrUnknownFrame       = errors.New("unknown frame kind")
)
