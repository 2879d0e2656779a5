package at_test

import (
	"bufio"
	"strings"
	"testing"

	"i4.energy/across/ltecheck/at"
)

func TestSplitter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Simple AT command response",
			input:    "AT+CSQ\r\n+CSQ: 15,99\r\nOK\r\n",
			expected: []string{"AT+CSQ", "+CSQ: 15,99", "OK"},
		},
		{
			name:     "AT command with error",
			input:    "AT+CPIN?\r\n+CME ERROR: 10\r\n",
			expected: []string{"AT+CPIN?", "+CME ERROR: 10"},
		},
		{
			name:     "Socket allocation",
			input:    "AT%SOCKETCMD=\"ALLOCATE\",1,\"UDP\",\"OPEN\",\"192.0.2.50\",10510,0\r\n%SOCKETCMD:1\r\nOK\r\n",
			expected: []string{"AT%SOCKETCMD=\"ALLOCATE\",1,\"UDP\",\"OPEN\",\"192.0.2.50\",10510,0", "%SOCKETCMD:1", "OK"},
		},
		{
			name:     "Socket event mixed with response",
			input:    "OK\r\n%SOCKETEV:1,1\r\n%SOCKETDATA:1,5,0,\"48656C6C6F\"\r\nOK\r\n",
			expected: []string{"OK", "%SOCKETEV:1,1", "%SOCKETDATA:1,5,0,\"48656C6C6F\"", "OK"},
		},
		{
			name:     "Empty lines handling",
			input:    "\r\n\r\nAT\r\nOK\r\n\r\n",
			expected: []string{"", "", "AT", "OK", ""},
		},
		// EOF scenarios - testing atEOF functionality
		{
			name:     "Incomplete command at EOF",
			input:    "AT+CSQ\r\n+CSQ: 15,99",
			expected: []string{"AT+CSQ", "+CSQ: 15,99"},
		},
		{
			name:     "Command without CRLF at EOF",
			input:    "AT+CPIN",
			expected: []string{"AT+CPIN"},
		},
		{
			name:     "Response cut off mid-stream at EOF",
			input:    "OK\r\n%SOCKETEV:1,1",
			expected: []string{"OK", "%SOCKETEV:1,1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tokens []string
			scanner := bufio.NewScanner(strings.NewReader(tt.input))
			scanner.Split(at.Splitter)

			for scanner.Scan() {
				tokens = append(tokens, scanner.Text())
			}

			if err := scanner.Err(); err != nil {
				t.Fatalf("Scanner error: %v", err)
			}

			if len(tokens) != len(tt.expected) {
				t.Fatalf("Expected %d tokens, got %d.\nExpected: %v\nGot: %v",
					len(tt.expected), len(tokens), tt.expected, tokens)
			}

			for i, expected := range tt.expected {
				if tokens[i] != expected {
					t.Errorf("Token %d: expected %q, got %q", i, expected, tokens[i])
				}
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected at.ResponseType
	}{
		// Final responses
		{name: "OK response", input: "OK", expected: at.TypeFinal},
		{name: "ERROR response", input: "ERROR", expected: at.TypeFinal},
		{name: "CME Error", input: "+CME ERROR: 30", expected: at.TypeFinal},
		{name: "CMS Error", input: "+CMS ERROR: 500", expected: at.TypeFinal},
		{name: "NO CARRIER", input: "NO CARRIER", expected: at.TypeFinal},

		// URCs
		{name: "Socket event", input: "%SOCKETEV:1,1", expected: at.TypeURC},
		{name: "Shutdown warning", input: "%SHUTDOWN", expected: at.TypeURC},

		// Data responses
		{name: "AT command echo", input: "AT+CSQ", expected: at.TypeData},
		{name: "Signal quality response", input: "+CSQ: 15,99", expected: at.TypeData},
		{name: "PIN status", input: "+CPIN: READY", expected: at.TypeData},
		{name: "Socket command response", input: "%SOCKETCMD:1", expected: at.TypeData},
		{name: "Socket data response", input: "%SOCKETDATA:1,5,0,\"AB\"", expected: at.TypeData},
		{name: "Packet attach response", input: "+CGATT: 1", expected: at.TypeData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := at.Classify(tt.input)
			if result != tt.expected {
				t.Errorf("Expected %v, got %v for input %q", tt.expected, result, tt.input)
			}
		})
	}
}
