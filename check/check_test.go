package check_test

import (
	"context"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"i4.energy/across/ltecheck/at"
	"i4.energy/across/ltecheck/check"
)

// fakeModem is a minimal in-memory stand-in for *modem.Modem. It answers
// the socket sequence with canned data and can be told to fail individual
// steps a number of times.
type fakeModem struct {
	echoPayload string // what ReceiveData reports back
	sendFails   int    // SendData errors this many times first
	allocFails  int    // AllocateUDP errors this many times first

	urc     chan string
	deleted bool
	sent    []byte
}

func newFakeModem(echoPayload string) *fakeModem {
	return &fakeModem{
		echoPayload: echoPayload,
		urc:         make(chan string, 4),
	}
}

func (f *fakeModem) Command(ctx context.Context, cmd string) (string, error) {
	return "OK", nil
}

func (f *fakeModem) AllocateUDP(ctx context.Context, host string, remotePort, localPort int) (int, error) {
	if f.allocFails > 0 {
		f.allocFails--
		return 0, errors.New("ERROR")
	}
	return 1, nil
}

func (f *fakeModem) Activate(ctx context.Context, cid int) error { return nil }

func (f *fakeModem) Delete(ctx context.Context, cid int) error {
	f.deleted = true
	return nil
}

func (f *fakeModem) SendData(ctx context.Context, cid int, payload []byte) (string, error) {
	if f.sendFails > 0 {
		f.sendFails--
		return "", errors.New("ERROR")
	}
	f.sent = payload
	f.urc <- "%SOCKETEV:1,1"
	return strings.ToUpper(hex.EncodeToString(payload)), nil
}

func (f *fakeModem) ReceiveData(ctx context.Context, cid int) (at.SocketData, error) {
	return at.SocketData{
		ConnID:  cid,
		Length:  len(f.echoPayload) / 2,
		Flags:   0,
		Payload: f.echoPayload,
	}, nil
}

func (f *fakeModem) URC() <-chan string { return f.urc }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPayloadMatches(t *testing.T) {
	tests := []struct {
		name     string
		sent     []byte
		received string
		expected bool
	}{
		{name: "Uppercase hex echo", sent: []byte("Hello"), received: "48656C6C6F", expected: true},
		{name: "Lowercase hex echo", sent: []byte("Hello"), received: "48656c6c6f", expected: true},
		{name: "Literal text echo", sent: []byte("Hello"), received: "Hello", expected: true},
		{name: "Different payload", sent: []byte("Hello"), received: "48656C6C00", expected: false},
		{name: "Truncated hex", sent: []byte("Hello"), received: "48656C", expected: false},
		{name: "Empty received", sent: []byte("Hello"), received: "", expected: false},
		{name: "Binary payload hex only", sent: []byte{0x00, 0xFF}, received: "00FF", expected: true},
		// "CAFE" decodes to two non-ASCII bytes but also reads as text;
		// the hex interpretation wins, so a text peer echoing the literal
		// string "CAFE" to a sender of 0xCA 0xFE still matches.
		{name: "Ambiguous hex text", sent: []byte{0xCA, 0xFE}, received: "CAFE", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := check.PayloadMatches(tt.sent, tt.received); got != tt.expected {
				t.Errorf("PayloadMatches(%v, %q) = %v, expected %v", tt.sent, tt.received, got, tt.expected)
			}
		})
	}
}

func TestSessionRun(t *testing.T) {
	baseConfig := func() check.Config {
		return check.Config{
			RemoteHost: "192.0.2.50",
			RemotePort: 10510,
			Payload:    []byte("Hello"),
			MaxRetries: 3,
			RetryDelay: time.Millisecond,
			Logger:     quietLogger(),
		}
	}

	t.Run("Hex echo passes", func(t *testing.T) {
		m := newFakeModem("48656C6C6F")
		session := check.NewSession(baseConfig())

		res := session.Run(context.Background(), m)
		if !res.OK {
			t.Fatalf("expected OK result, got: %+v", res)
		}
		if res.Sent != "Hello" {
			t.Errorf("expected printable sent Hello, got %q", res.Sent)
		}
		if res.Received != "48656C6C6F" {
			t.Errorf("expected received hex, got %q", res.Received)
		}
		if !m.deleted {
			t.Error("socket was not torn down")
		}
	})

	t.Run("Text echo passes", func(t *testing.T) {
		m := newFakeModem("Hello")
		session := check.NewSession(baseConfig())

		res := session.Run(context.Background(), m)
		if !res.OK {
			t.Fatalf("expected OK result, got: %+v", res)
		}
	})

	t.Run("Mismatch reported", func(t *testing.T) {
		m := newFakeModem("4141414141")
		session := check.NewSession(baseConfig())

		res := session.Run(context.Background(), m)
		if res.OK {
			t.Fatal("expected mismatch result")
		}
		if res.Error != "payload mismatch" {
			t.Errorf("expected payload mismatch error, got %q", res.Error)
		}
		if !m.deleted {
			t.Error("socket was not torn down after mismatch")
		}
	})

	t.Run("Send retried until it succeeds", func(t *testing.T) {
		m := newFakeModem("48656C6C6F")
		m.sendFails = 2
		session := check.NewSession(baseConfig())

		res := session.Run(context.Background(), m)
		if !res.OK {
			t.Fatalf("expected OK result after retries, got: %+v", res)
		}
		if res.Attempts < 3 {
			t.Errorf("expected at least 3 attempts counted, got %d", res.Attempts)
		}
	})

	t.Run("Allocate failure exhausts retries", func(t *testing.T) {
		m := newFakeModem("48656C6C6F")
		m.allocFails = 100
		session := check.NewSession(baseConfig())

		res := session.Run(context.Background(), m)
		if res.OK {
			t.Fatal("expected failed result")
		}
		if !strings.Contains(res.Error, "allocate failed after 3 attempts") {
			t.Errorf("unexpected error: %q", res.Error)
		}
		if m.deleted {
			t.Error("no socket existed, nothing should be deleted")
		}
	})

	t.Run("Binary payload rendered printable", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Payload = []byte{0x01, 0x02, 'A'}
		m := newFakeModem("010241")
		session := check.NewSession(cfg)

		res := session.Run(context.Background(), m)
		if !res.OK {
			t.Fatalf("expected OK result, got: %+v", res)
		}
		if res.Sent != "<01><02>A" {
			t.Errorf("expected escaped sent payload, got %q", res.Sent)
		}
	})
}

func TestRunner(t *testing.T) {
	m := newFakeModem("48656C6C6F")
	session := check.NewSession(check.Config{
		RemoteHost: "192.0.2.50",
		RemotePort: 10510,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
		Logger:     quietLogger(),
	})
	runner := check.NewRunner(session, m)

	if _, ok := runner.Last(); ok {
		t.Error("expected no result before first check")
	}

	res := runner.Check(context.Background())
	if !res.OK {
		t.Fatalf("expected OK result, got: %+v", res)
	}

	last, ok := runner.Last()
	if !ok {
		t.Fatal("expected last result after check")
	}
	if last.OK != res.OK || last.Received != res.Received {
		t.Errorf("last result differs from returned result: %+v vs %+v", last, res)
	}
}
