// Package hexstream turns raw file bytes into the two-hex-digit token
// stream consumed by the alignment engine, and back.
package hexstream

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Token is one input byte rendered as exactly two uppercase hex digits.
type Token = string

const hexDigits = "0123456789ABCDEF"

// Encode renders data as one Token per byte, preserving order and count.
func Encode(data []byte) []Token {
	toks := make([]Token, len(data))
	for i, b := range data {
		toks[i] = encodeByte(b)
	}
	return toks
}

// EncodeFile reads path in full and encodes it. Open and read failures are
// returned, never papered over with a truncated stream.
func EncodeFile(path string) ([]Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Encode(data), nil
}

// DecodeToken is the inverse of Encode for a single token.
func DecodeToken(tok Token) (byte, error) {
	if len(tok) != 2 {
		return 0, fmt.Errorf("malformed token %q: want 2 hex digits", tok)
	}
	hi := strings.IndexByte(hexDigits, tok[0])
	lo := strings.IndexByte(hexDigits, tok[1])
	if hi < 0 || lo < 0 {
		return 0, fmt.Errorf("malformed token %q: want 2 hex digits", tok)
	}
	return byte(hi<<4 | lo), nil
}

// WriteTokens emits the stream form: one token per line. This is the shape
// handed to an external alignment command.
func WriteTokens(w io.Writer, toks []Token) error {
	var b strings.Builder
	b.Grow(len(toks) * 3)
	for _, tok := range toks {
		b.WriteString(tok)
		b.WriteByte('\n')
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write token stream: %w", err)
	}
	return nil
}

// Printable maps a byte to its single-character column rendering, with '.'
// standing in for anything outside printable ASCII.
func Printable(b byte) byte {
	if b >= 0x20 && b <= 0x7e {
		return b
	}
	return '.'
}

func encodeByte(b byte) Token {
	return string([]byte{hexDigits[b>>4], hexDigits[b&0x0f]})
}
