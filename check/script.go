package check

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Commander executes a single AT command and returns the full response.
type Commander interface {
	Command(ctx context.Context, cmd string) (string, error)
}

// Step is one scripted AT command.
type Step struct {
	// Cmd is the AT command line, without trailing CR.
	Cmd string `toml:"cmd"`
	// TimeoutMS overrides the modem's default command timeout, in
	// milliseconds. Zero keeps the default.
	TimeoutMS int `toml:"timeout_ms"`
	// Expect, when non-empty, must appear in the response for the step
	// to count as successful.
	Expect string `toml:"expect"`
}

// Script is an ordered list of AT commands played before the echo
// sequence, typically network bring-up the modem does not do on its own
// (operator selection, PDN configuration).
//
// TOML format:
//
//	[[step]]
//	cmd = "AT+COPS=0"
//	timeout_ms = 10000
//
//	[[step]]
//	cmd = "AT+CEREG?"
//	expect = "+CEREG: 0,1"
type Script struct {
	Steps []Step `toml:"step"`
}

// LoadScript reads a Script from a TOML file.
func LoadScript(path string) (*Script, error) {
	var s Script
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return nil, fmt.Errorf("load command script %s: %w", path, err)
	}
	return &s, nil
}

// Run plays the script in order, stopping at the first failing step.
func (s *Script) Run(ctx context.Context, m Commander) error {
	for _, step := range s.Steps {
		if err := runStep(ctx, m, step); err != nil {
			return err
		}
	}
	return nil
}

func runStep(ctx context.Context, m Commander, step Step) error {
	if step.TimeoutMS > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(step.TimeoutMS)*time.Millisecond)
		defer cancel()
	}

	resp, err := m.Command(ctx, step.Cmd)
	if err != nil {
		return fmt.Errorf("script command %q: %w", step.Cmd, err)
	}
	if step.Expect != "" && !strings.Contains(resp, step.Expect) {
		return fmt.Errorf("script command %q: expected %q in response %q", step.Cmd, step.Expect, resp)
	}
	return nil
}
