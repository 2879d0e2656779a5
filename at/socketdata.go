package at

import "strings"

// SocketData holds the fields extracted from one %SOCKETDATA line.
//
// Payload is the raw substring between the payload quotes, not hex-decoded;
// whether it is hex or literal text depends on the modem's data mode, so
// interpretation is left to the caller. Flags is only present in the
// notification form and is zero for parsed send commands.
type SocketData struct {
	ConnID  int
	Length  int
	Flags   int
	Payload string
}

// ParseSocketDataRx extracts connection id, length, flags and the raw
// payload from a %SOCKETDATA notification or RECEIVE response line:
//
//	%SOCKETDATA:<cid>,<len>,<flags>,"<payload>"...
//
// The prefix between the token and the first double quote must contain
// three comma separators; flags is always the third comma-delimited field
// and anything after it up to the quote is ignored. The payload is the
// substring strictly between the first quote at or after the token and the
// last quote in the line.
//
// Known limitation: a payload containing an unescaped double quote corrupts
// the extraction, since the boundaries are purely positional. No escaping
// convention is defined for this command family.
//
// Integer fields use lenient parsing (see Atoi). On any structural failure
// ok is false and the record must not be trusted.
func ParseSocketDataRx(line string) (sd SocketData, ok bool) {
	p := strings.Index(line, SocketDataPrefix)
	if p < 0 {
		return SocketData{}, false
	}

	rest := line[p+len(SocketDataPrefix):]
	q1 := strings.Index(rest, `"`)
	q2 := strings.LastIndex(line, `"`)
	if q1 < 0 {
		return SocketData{}, false
	}
	q1 += p + len(SocketDataPrefix)
	if q2 <= q1 {
		return SocketData{}, false
	}

	prefix := strings.TrimSpace(line[p+len(SocketDataPrefix) : q1])
	c1 := strings.Index(prefix, ",")
	if c1 < 0 {
		return SocketData{}, false
	}
	sd.ConnID = Atoi(prefix[:c1])
	c2 := strings.Index(prefix[c1+1:], ",")
	if c2 < 0 {
		return SocketData{}, false
	}
	c2 += c1 + 1
	sd.Length = Atoi(prefix[c1+1 : c2])
	c3 := strings.Index(prefix[c2+1:], ",")
	if c3 < 0 {
		return SocketData{}, false
	}
	c3 += c2 + 1
	sd.Flags = Atoi(prefix[c2+1 : c3])

	sd.Payload = line[q1+1 : q2]
	return sd, true
}

// ParseSocketEvent extracts the event kind and connection id from a
// %SOCKETEV:<ev>,<cid> URC. Event 1 signals pending received data.
func ParseSocketEvent(line string) (ev, cid int, ok bool) {
	p := strings.Index(line, UrcSocketEvent)
	if p < 0 {
		return 0, 0, false
	}
	rest := strings.TrimSpace(line[p+len(UrcSocketEvent):])
	c := strings.Index(rest, ",")
	if c < 0 {
		return 0, 0, false
	}
	return Atoi(rest[:c]), Atoi(rest[c+1:]), true
}

// ParseSocketDataSend extracts connection id, length and the raw payload
// from an outbound send command:
//
//	AT%SOCKETDATA="SEND"[...],<cid>,<len>,"<payload>"
//
// The payload is delimited by the last two double quotes in the string,
// scanning backward from the end, so variable-width or optional fields may
// appear earlier in the command as long as the trailing
// <cid>,<len>,"<payload>" structure holds. The length field sits between
// the two commas immediately before the payload's opening quote and the
// connection id between the comma pair before that; a missing comma fails
// the parse.
func ParseSocketDataSend(cmd string) (sd SocketData, ok bool) {
	if !strings.Contains(cmd, SocketDataSendToken) {
		return SocketData{}, false
	}

	q2 := strings.LastIndex(cmd, `"`)
	if q2 <= 0 {
		return SocketData{}, false
	}
	q1 := strings.LastIndex(cmd[:q2], `"`)
	if q1 < 0 {
		return SocketData{}, false
	}
	sd.Payload = cmd[q1+1 : q2]

	c2 := strings.LastIndex(cmd[:q1], ",")
	if c2 < 0 {
		return SocketData{}, false
	}
	c1 := strings.LastIndex(cmd[:c2], ",")
	if c1 < 0 {
		return SocketData{}, false
	}
	sd.Length = Atoi(cmd[c1+1 : c2])
	c0 := strings.LastIndex(cmd[:c1], ",")
	if c0 < 0 {
		return SocketData{}, false
	}
	sd.ConnID = Atoi(cmd[c0+1 : c1])

	return sd, true
}
