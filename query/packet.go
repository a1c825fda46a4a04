package query

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/apparentlyarhm/validator/errs"
)

const (
	typeHandshake byte = 0x09
	typeStat      byte = 0x00

	// challengeHeader is the type byte and session id preceding the token.
	challengeHeader = 5

	// statHeader is skipped before the key/value text of a full stat reply.
	statHeader = 11

	// playerSection separates the key/value pairs from the player names.
	playerSection = "\x00\x01player_\x00\x00"
)

// header is the magic, the packet type and the client session id.
func header(typ byte) []byte {
	return []byte{0xFE, 0xFD, typ, 0x01, 0x01, 0x01, 0x01}
}

// BuildHandshake returns the 7-byte datagram that requests a challenge token.
func BuildHandshake() []byte {
	return header(typeHandshake)
}

// ParseChallenge extracts the challenge token from a handshake reply: a
// 5-byte header followed by the token in ASCII decimal, NUL terminated.
func ParseChallenge(d []byte) (int32, error) {
	if len(d) < challengeHeader {
		return 0, errs.Protocol("query: parse challenge", errs.KindFormat, "reply is %d bytes", len(d))
	}

	token := d[challengeHeader:]
	if i := bytes.IndexByte(token, 0); i >= 0 {
		token = token[:i]
	}

	n, err := strconv.ParseInt(strings.TrimSpace(string(token)), 10, 64)
	if err != nil {
		return 0, errs.Protocol("query: parse challenge", errs.KindFormat, "token %q: %v", token, err)
	}
	// Some servers print the token unsigned.
	if n < -1<<31 || n > 1<<32-1 {
		return 0, errs.Protocol("query: parse challenge", errs.KindFormat, "token %d out of range", n)
	}
	return int32(uint32(n)), nil
}

// BuildFullQuery returns the 15-byte full stat request. The token is
// big-endian on this protocol.
func BuildFullQuery(challenge int32) []byte {
	d := make([]byte, 0, 15)
	d = append(d, header(typeStat)...)
	d = binary.BigEndian.AppendUint32(d, uint32(challenge))
	return append(d, 0x00, 0x00, 0x00, 0x00)
}

// Outcome tells a complete decode apart from a lenient partial one.
type Outcome int

const (
	// OutcomeComplete means the reply had both sections.
	OutcomeComplete Outcome = iota
	// OutcomePartial means the player section marker was missing. Nothing
	// was decoded.
	OutcomePartial
)

func (o Outcome) String() string {
	if o == OutcomePartial {
		return "partial"
	}
	return "complete"
}

// ServerStatus is a decoded full stat reply.
type ServerStatus struct {
	Fields  map[string]string
	Players []string
	Outcome Outcome
}

// ParseFullQueryResponse decodes a full stat reply. Servers vary in what they
// put into the payload, so a reply without the player section is not an
// error: it decodes to an empty status with OutcomePartial.
func ParseFullQueryResponse(d []byte) (ServerStatus, error) {
	if len(d) < statHeader {
		return ServerStatus{}, errs.Protocol("query: parse stat", errs.KindFormat, "reply is %d bytes", len(d))
	}

	status := ServerStatus{Fields: map[string]string{}}

	kv, players, found := strings.Cut(string(d[statHeader:]), playerSection)
	if !found {
		status.Outcome = OutcomePartial
		return status, nil
	}

	pairs := strings.Split(kv, "\x00")
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i] == "" {
			continue
		}
		status.Fields[pairs[i]] = pairs[i+1]
	}

	for _, name := range strings.Split(players, "\x00") {
		if name != "" {
			status.Players = append(status.Players, name)
		}
	}

	return status, nil
}
