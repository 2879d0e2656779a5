package at

import "strings"

const hexDigits = "0123456789ABCDEF"

// MakePrintable renders an arbitrary byte sequence as display-safe ASCII.
// Carriage return, newline and printable ASCII (0x20-0x7E) pass through
// unchanged; every other byte is replaced by a 4-character escape token
// "<XX>" with XX the uppercase hex value of the byte.
//
// The mapping is total over all 256 byte values and every escape token
// corresponds to exactly one original byte, so printable-range input is
// returned unchanged.
func MakePrintable(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if c == '\r' || c == '\n' || (c >= 0x20 && c <= 0x7E) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('<')
		sb.WriteByte(hexDigits[c>>4])
		sb.WriteByte(hexDigits[c&0x0F])
		sb.WriteByte('>')
	}
	return sb.String()
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return 10 + int(c-'A')
	case c >= 'a' && c <= 'f':
		return 10 + int(c-'a')
	}
	return -1
}

// IsPureHexString reports whether s is a non-empty, even-length sequence of
// hex digits (case-insensitive). Callers should use it as a precondition
// check before HexToBytes when correctness matters.
func IsPureHexString(s string) bool {
	if len(s) == 0 || len(s)%2 != 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if hexVal(s[i]) < 0 {
			return false
		}
	}
	return true
}

// HexToBytes decodes a hex string two characters at a time. Decoding stops
// at the first pair containing an invalid hex digit and returns the bytes
// decoded so far; this is best-effort by contract, not an error. A trailing
// odd character is never inspected.
func HexToBytes(s string) []byte {
	out := make([]byte, 0, len(s)/2)
	for i := 0; i+1 < len(s); i += 2 {
		hi, lo := hexVal(s[i]), hexVal(s[i+1])
		if hi < 0 || lo < 0 {
			break
		}
		out = append(out, byte(hi<<4|lo))
	}
	return out
}

// Atoi parses leading digits the way Arduino-class firmware does: skip
// leading whitespace, accept an optional sign, consume digits until the
// first non-digit. Anything unparseable yields zero rather than an error,
// so callers must treat zero as possibly meaning "field absent or garbled".
func Atoi(s string) int {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\r' || s[i] == '\n') {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	n := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
	}
	if neg {
		return -n
	}
	return n
}
