package rcon

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrInvalidBody is returned for bodies that cannot be put on the wire. No
// bytes are written when it is returned.
var ErrInvalidBody = errors.New("rcon: invalid packet body")

// bodyCharset is the text encoding of every packet body. The server emits
// 0xA7 color-code bytes that must survive decoding, so bodies are ISO-8859-1
// rather than UTF-8.
var bodyCharset = charmap.ISO8859_1

func encodeBody(s string) ([]byte, error) {
	if strings.IndexByte(s, 0) >= 0 {
		return nil, fmt.Errorf("%w: body contains a NUL byte", ErrInvalidBody)
	}
	b, err := bodyCharset.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return b, nil
}

func decodeBody(b []byte) string {
	// Every byte is a valid ISO-8859-1 code point.
	s, _ := bodyCharset.NewDecoder().Bytes(b)
	return string(s)
}

// StripColorCodes removes "§x" formatting pairs from decoded output.
func StripColorCodes(text string) string {
	if !strings.ContainsRune(text, '§') {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == '§' && i+size < len(text) {
			_, codeSize := utf8.DecodeRuneInString(text[i+size:])
			i += size + codeSize
			continue
		}
		b.WriteString(text[i : i+size])
		i += size
	}
	return b.String()
}
