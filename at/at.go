package at

const (
	// Terminal Control
	CRLF = "\r\n"

	// Response Codes
	OK         = "OK"
	ERROR      = "ERROR"
	NoCarrier  = "NO CARRIER"
	NoDialtone = "NO DIALTONE"
	Busy       = "BUSY"
	NoAnswer   = "NO ANSWER"
	CmeError   = "+CME ERROR:"
	CmsError   = "+CMS ERROR:"

	// URCs (Unsolicited Result Codes) from the Altair socket family
	UrcSocketEvent = "%SOCKETEV:"
	UrcShutdown    = "%SHUTDOWN"

	// Intermediate response prefixes for socket commands
	SocketCmdPrefix  = "%SOCKETCMD:"
	SocketDataPrefix = "%SOCKETDATA:"

	// Send command token. The trailing <cid>,<len>,"<payload>" structure is
	// appended by the caller.
	SocketDataSendToken = `AT%SOCKETDATA="SEND"`

	// Initialization commands
	CmdAt            = "AT"
	CmdEchoOff       = "ATE0"
	CmdVerboseErrors = "AT+CMEE=2"
	CmdSimStatus     = "AT+CPIN?"
	CmdPacketAttach  = "AT+CGATT?"

	// SIM states reported by AT+CPIN?
	SimReady = "READY"
	SimPin   = "SIM PIN"
)

type ResponseType int

const (
	TypeFinal ResponseType = iota // OK, ERROR
	TypeURC                       // Asynchronous notifications
	TypeData                      // Intermediate command output (%SOCKETCMD: ...)
)
