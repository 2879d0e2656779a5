package at_test

import (
	"bytes"
	"fmt"
	"testing"

	"i4.energy/across/ltecheck/at"
)

func TestMakePrintable(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "Plain ASCII passes through",
			input:    []byte("AT+CSQ OK"),
			expected: "AT+CSQ OK",
		},
		{
			name:     "CR and LF pass through",
			input:    []byte("OK\r\n"),
			expected: "OK\r\n",
		},
		{
			name:     "Control bytes escaped",
			input:    []byte{0x00, 0x1A, 0x7F},
			expected: "<00><1A><7F>",
		},
		{
			name:     "High bytes escaped uppercase",
			input:    []byte{0xAB, 0xFF},
			expected: "<AB><FF>",
		},
		{
			name:     "Mixed text and binary",
			input:    []byte("OK\x01\xFEdone"),
			expected: "OK<01><FE>done",
		},
		{
			name:     "Empty input",
			input:    nil,
			expected: "",
		},
		{
			name:     "Printable range boundaries",
			input:    []byte{0x1F, 0x20, 0x7E, 0x7F},
			expected: "<1F> ~<7F>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := at.MakePrintable(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

// Every one of the 256 byte values must map to either itself (CR, LF,
// printable ASCII) or a 4-character <XX> token.
func TestMakePrintableTotal(t *testing.T) {
	for b := 0; b <= 0xFF; b++ {
		got := at.MakePrintable([]byte{byte(b)})
		if b == '\r' || b == '\n' || (b >= 0x20 && b <= 0x7E) {
			if len(got) != 1 || got[0] != byte(b) {
				t.Errorf("byte 0x%02X: expected passthrough, got %q", b, got)
			}
			continue
		}
		want := fmt.Sprintf("<%02X>", b)
		if got != want {
			t.Errorf("byte 0x%02X: expected %q, got %q", b, want, got)
		}
	}
}

func TestIsPureHexString(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"", false},
		{"A", false}, // odd length
		{"AB", true},
		{"ZZ", false},
		{"48656C6C6F", true},
		{"48656c6c6f", true}, // lowercase accepted
		{"ABC", false},
		{"12 4", false},
		{"0xAB", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.input), func(t *testing.T) {
			if got := at.IsPureHexString(tt.input); got != tt.expected {
				t.Errorf("IsPureHexString(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestHexToBytes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []byte
	}{
		{
			name:     "Hello",
			input:    "48656C6C6F",
			expected: []byte("Hello"),
		},
		{
			name:     "Lowercase",
			input:    "deadbeef",
			expected: []byte{0xDE, 0xAD, 0xBE, 0xEF},
		},
		{
			name:     "Stops at invalid nibble",
			input:    "48G5",
			expected: []byte{0x48},
		},
		{
			name:     "Invalid low nibble stops too",
			input:    "484X65",
			expected: []byte{0x48},
		},
		{
			name:     "Trailing odd character ignored",
			input:    "48656",
			expected: []byte{0x48, 0x65},
		},
		{
			name:     "Empty input",
			input:    "",
			expected: []byte{},
		},
		{
			name:     "Single character never inspected",
			input:    "G",
			expected: []byte{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := at.HexToBytes(tt.input)
			if !bytes.Equal(got, tt.expected) {
				t.Errorf("HexToBytes(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestAtoi(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"5", 5},
		{"  42", 42},
		{"-7", -7},
		{"+13", 13},
		{"12abc", 12},
		{"abc", 0},
		{"", 0},
		{"  -0", 0},
		{"1500,", 1500},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.input), func(t *testing.T) {
			if got := at.Atoi(tt.input); got != tt.expected {
				t.Errorf("Atoi(%q) = %d, expected %d", tt.input, got, tt.expected)
			}
		})
	}
}
