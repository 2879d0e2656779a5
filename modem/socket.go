package modem

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"i4.energy/across/ltecheck/at"
)

// AllocateUDP allocates a UDP socket on the modem, targeting the given
// remote host and port. The local port may be zero to let the modem pick
// one. Returns the connection id assigned by the modem.
//
// The modem answers with a %SOCKETCMD:<cid> line; a response without a
// positive cid is treated as a rejection even when the final result is OK.
func (m *Modem) AllocateUDP(ctx context.Context, host string, remotePort, localPort int) (int, error) {
	cmd := fmt.Sprintf(`AT%%SOCKETCMD="ALLOCATE",1,"UDP","OPEN","%s",%d,%d`, host, remotePort, localPort)
	resp, err := m.Command(ctx, cmd)
	if err != nil {
		return 0, fmt.Errorf("allocate socket: %w", err)
	}

	for line := range strings.Lines(resp) {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, at.SocketCmdPrefix) {
			continue
		}
		cid := at.Atoi(line[len(at.SocketCmdPrefix):])
		if cid <= 0 {
			return 0, fmt.Errorf("%w: %q", ErrSocketRejected, line)
		}
		return cid, nil
	}
	return 0, fmt.Errorf("%w: no connection id in %q", ErrSocketRejected, resp)
}

// Activate opens the previously allocated socket for traffic.
func (m *Modem) Activate(ctx context.Context, cid int) error {
	cmd := fmt.Sprintf(`AT%%SOCKETCMD="ACTIVATE",%d`, cid)
	if _, err := m.Command(ctx, cmd); err != nil {
		return fmt.Errorf("activate socket %d: %w", cid, err)
	}
	return nil
}

// Delete deactivates and releases the socket.
func (m *Modem) Delete(ctx context.Context, cid int) error {
	cmd := fmt.Sprintf(`AT%%SOCKETCMD="DELETE",%d`, cid)
	if _, err := m.Command(ctx, cmd); err != nil {
		return fmt.Errorf("delete socket %d: %w", cid, err)
	}
	return nil
}

// SendData transmits payload over the socket using the hex data mode:
//
//	AT%SOCKETDATA="SEND",<cid>,<len>,"<payload hex>"
//
// where <len> is the payload length in bytes, not hex characters. The built
// command is parsed back before it goes on the wire, so a payload that would
// produce an unparsable command is rejected locally instead of confusing the
// modem. Returns the uppercase hex string that was sent, for later
// comparison against echoed data.
func (m *Modem) SendData(ctx context.Context, cid int, payload []byte) (string, error) {
	hexPayload := strings.ToUpper(hex.EncodeToString(payload))
	cmd := fmt.Sprintf(`AT%%SOCKETDATA="SEND",%d,%d,"%s"`, cid, len(payload), hexPayload)

	sd, ok := at.ParseSocketDataSend(cmd)
	if !ok || sd.ConnID != cid || sd.Length != len(payload) || sd.Payload != hexPayload {
		return "", fmt.Errorf("send command for socket %d does not round-trip", cid)
	}

	if _, err := m.Command(ctx, cmd); err != nil {
		return "", fmt.Errorf("send %d bytes on socket %d: %w", len(payload), cid, err)
	}
	return hexPayload, nil
}

// ReceiveData asks the modem for pending data on the socket and parses the
// %SOCKETDATA line out of the response. Returns ErrNoSocketData when the
// response carries no parsable data line, which usually just means nothing
// has arrived yet.
func (m *Modem) ReceiveData(ctx context.Context, cid int) (at.SocketData, error) {
	cmd := fmt.Sprintf(`AT%%SOCKETDATA="RECEIVE",%d`, cid)
	resp, err := m.Command(ctx, cmd)
	if err != nil {
		return at.SocketData{}, fmt.Errorf("receive on socket %d: %w", cid, err)
	}

	for line := range strings.Lines(resp) {
		if sd, ok := at.ParseSocketDataRx(strings.TrimSpace(line)); ok {
			return sd, nil
		}
	}
	return at.SocketData{}, ErrNoSocketData
}
