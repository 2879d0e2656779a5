package modem

import "errors"

var (
	// ErrNoDialer is returned when a Modem is constructed without a Dialer.
	//
	// This indicates a configuration error. A Dialer is required in order to
	// establish a connection to the modem.
	ErrNoDialer = errors.New("no dialer configured")

	// ErrNotInitialized is returned when an operation is attempted on a Modem
	// that has not been successfully initialized.
	//
	// This can occur if initialization failed or if the Modem was not created
	// via New.
	ErrNotInitialized = errors.New("modem not initialized")

	// ErrAlreadyClosed is returned when Close is called on a Modem that has
	// already been closed.
	ErrAlreadyClosed = errors.New("modem already closed")

	// ErrSIMPinRequired is returned when the SIM card requires a PIN and no
	// PIN was provided in the Config.
	//
	// Callers may handle this error specially (for example, by prompting
	// the user for a PIN) and retry initialization.
	ErrSIMPinRequired = errors.New("SIM PIN required")

	// ErrLoopRunning is returned when Loop is called while another Loop
	// invocation is still active. The event loop must be the single reader
	// of the transport.
	ErrLoopRunning = errors.New("event loop already running")

	// ErrNoSocketData is returned when a RECEIVE response contains no
	// parsable %SOCKETDATA line. The socket may simply have no pending
	// data; callers typically retry after the next socket event.
	ErrNoSocketData = errors.New("no socket data in response")

	// ErrSocketRejected is returned when the modem answers a %SOCKETCMD
	// allocation without a usable connection id.
	ErrSocketRejected = errors.New("socket allocation rejected")
)
