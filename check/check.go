// Package check verifies that a payload sent over a modem-managed UDP
// socket comes back intact from an echo peer.
package check

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"i4.energy/across/ltecheck/at"
)

// Modem is the slice of the modem API a Session needs. *modem.Modem
// satisfies it.
type Modem interface {
	Commander
	AllocateUDP(ctx context.Context, host string, remotePort, localPort int) (int, error)
	Activate(ctx context.Context, cid int) error
	Delete(ctx context.Context, cid int) error
	SendData(ctx context.Context, cid int, payload []byte) (string, error)
	ReceiveData(ctx context.Context, cid int) (at.SocketData, error)
	URC() <-chan string
}

// Config holds the parameters of an echo check.
type Config struct {
	// RemoteHost and RemotePort identify the UDP echo peer.
	RemoteHost string
	RemotePort int
	// LocalPort is the local UDP port; zero lets the modem choose.
	LocalPort int
	// Payload is the data sent to the peer. Defaults to "Hello".
	Payload []byte
	// MaxRetries caps how often a failing step is retried before the
	// check is abandoned.
	MaxRetries int
	// RetryDelay is the pause between retries of a failing step.
	RetryDelay time.Duration
	// ReceiveWait bounds how long the session waits for the socket data
	// event before polling the socket anyway.
	ReceiveWait time.Duration
	// Script, when set, is executed before the socket sequence (e.g.
	// operator selection, PDN setup).
	Script *Script
	// Logger receives per-step progress. Defaults to slog.Default().
	Logger *slog.Logger
}

// Result is the outcome of one echo check. Sent and Received hold the
// printable renditions of the payloads, safe to log and serialize.
type Result struct {
	OK         bool      `json:"ok"`
	Sent       string    `json:"sent"`
	Received   string    `json:"received,omitempty"`
	Attempts   int       `json:"attempts"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
}

// Session carries the state of one echo verification exchange: what was
// sent, what came back, and how many command attempts it took. The
// firmware this harness talks to was originally driven by process-wide
// globals for this bookkeeping; a Session makes that state explicit and
// private to one exchange.
type Session struct {
	cfg Config
	log *slog.Logger

	sentHex  string
	received string
	attempts int
}

// NewSession prepares a session with defaults filled in. The session is
// reusable; each Run starts a fresh exchange.
func NewSession(cfg Config) *Session {
	if len(cfg.Payload) == 0 {
		cfg.Payload = []byte("Hello")
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 10
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	if cfg.ReceiveWait <= 0 {
		cfg.ReceiveWait = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Session{cfg: cfg, log: cfg.Logger}
}

// PayloadMatches reports whether a received payload string carries the
// sent bytes. The modem reports received data either as a hex string
// (binary data mode) or as literal text (text mode), so both renditions
// count as a match.
func PayloadMatches(sent []byte, received string) bool {
	if at.IsPureHexString(received) && bytes.Equal(at.HexToBytes(received), sent) {
		return true
	}
	return received == string(sent)
}

// Run performs one complete echo check: preamble script, socket
// allocation and activation, send, wait for the data event, receive,
// compare, socket teardown. Step failures are retried up to the
// configured cap; the returned Result is self-contained and never nil.
func (s *Session) Run(ctx context.Context, m Modem) Result {
	start := time.Now()
	s.sentHex = ""
	s.received = ""
	s.attempts = 0

	res := Result{
		Sent:      at.MakePrintable(s.cfg.Payload),
		StartedAt: start,
	}
	finish := func() Result {
		res.Attempts = s.attempts
		res.DurationMS = time.Since(start).Milliseconds()
		return res
	}
	fail := func(err error) Result {
		res.Error = err.Error()
		s.log.Error("echo check failed", "error", err, "attempts", s.attempts)
		return finish()
	}

	if s.cfg.Script != nil {
		if err := s.cfg.Script.Run(ctx, m); err != nil {
			return fail(err)
		}
	}

	var cid int
	err := s.retry(ctx, "allocate", func() error {
		var err error
		cid, err = m.AllocateUDP(ctx, s.cfg.RemoteHost, s.cfg.RemotePort, s.cfg.LocalPort)
		return err
	})
	if err != nil {
		return fail(err)
	}
	defer func() {
		if err := m.Delete(ctx, cid); err != nil {
			s.log.Warn("socket teardown failed", "cid", cid, "error", err)
		}
	}()

	if err := s.retry(ctx, "activate", func() error {
		return m.Activate(ctx, cid)
	}); err != nil {
		return fail(err)
	}

	if err := s.retry(ctx, "send", func() error {
		var err error
		s.sentHex, err = m.SendData(ctx, cid, s.cfg.Payload)
		return err
	}); err != nil {
		return fail(err)
	}
	s.log.Debug("payload sent", "cid", cid, "hex", s.sentHex)

	s.waitForDataEvent(ctx, m, cid)

	var sd at.SocketData
	if err := s.retry(ctx, "receive", func() error {
		var err error
		sd, err = m.ReceiveData(ctx, cid)
		return err
	}); err != nil {
		return fail(err)
	}
	s.received = sd.Payload
	res.Received = at.MakePrintable([]byte(sd.Payload))

	if !PayloadMatches(s.cfg.Payload, sd.Payload) {
		res.Error = "payload mismatch"
		s.log.Warn("echo mismatch", "sent", res.Sent, "received", res.Received)
		return finish()
	}

	res.OK = true
	s.log.Info("echo check passed", "cid", cid, "bytes", len(s.cfg.Payload), "attempts", s.attempts)
	return finish()
}

// waitForDataEvent consumes URCs until the data-pending event for cid
// shows up or the wait budget runs out. A missed event is not fatal;
// the subsequent receive simply polls the socket.
func (s *Session) waitForDataEvent(ctx context.Context, m Modem, cid int) {
	deadline := time.NewTimer(s.cfg.ReceiveWait)
	defer deadline.Stop()

	for {
		select {
		case urc := <-m.URC():
			ev, evCid, ok := at.ParseSocketEvent(urc)
			if ok && ev == 1 && evCid == cid {
				return
			}
			s.log.Debug("ignoring URC while waiting for data", "urc", urc)
		case <-deadline.C:
			s.log.Warn("no data event before deadline, polling socket", "cid", cid)
			return
		case <-ctx.Done():
			return
		}
	}
}

// retry runs f until it succeeds, counting every attempt, with a pause
// between failures. The cap mirrors the harness firmware's ERROR retry
// limit.
func (s *Session) retry(ctx context.Context, op string, f func() error) error {
	var err error
	for i := 0; i < s.cfg.MaxRetries; i++ {
		s.attempts++
		if err = f(); err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		s.log.Warn("step failed", "op", op, "attempt", i+1, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.cfg.RetryDelay):
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", op, s.cfg.MaxRetries, err)
}
