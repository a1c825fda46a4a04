package rcon

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/apparentlyarhm/validator/errs"
)

// Packet types.
const (
	TypeCommandResponse int32 = 0
	TypeCommand         int32 = 2
	TypeLogin           int32 = 3

	// TypeSentinel is not a type the server knows. It answers with one short
	// packet that is never fragmented.
	TypeSentinel int32 = 200
)

// InvalidAuthID is the request id of a login response for a wrong password.
const InvalidAuthID int32 = -1

const (
	// frameOverhead is everything the length prefix covers besides the body:
	// request id, type, NUL terminator and pad byte.
	frameOverhead = 4 + 4 + 1 + 1

	// MaxRequestBody is the largest body the server accepts from a client.
	MaxRequestBody = 1446

	maxFrameLength = 1 << 20
)

// A Packet is one console protocol message.
type Packet struct {
	RequestID int32
	Type      int32
	Body      string
}

// Encode returns the wire frame for one packet:
//
//	length | request id | type | body | 0x00 | 0x00
//
// All integers are little-endian and length covers everything after itself.
func Encode(requestID, typ int32, body string) ([]byte, error) {
	b, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	frame := make([]byte, 4+frameOverhead+len(b))
	binary.LittleEndian.PutUint32(frame[0:4], uint32(frameOverhead+len(b)))
	binary.LittleEndian.PutUint32(frame[4:8], uint32(requestID))
	binary.LittleEndian.PutUint32(frame[8:12], uint32(typ))
	copy(frame[12:], b)
	// terminator and pad are already zero
	return frame, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (p Packet) MarshalBinary() ([]byte, error) {
	return Encode(p.RequestID, p.Type, p.Body)
}

// ReadPacket reads exactly one frame from r. A peer that goes away mid-frame
// yields a *errs.ProtocolError of kind errs.KindConnectionClosed. The two
// trailing bytes are discarded without being checked.
func ReadPacket(r io.Reader) (Packet, error) {
	p, _, err := readFrame(r)
	return p, err
}

// readFrame reads one packet and also returns its raw bytes, length prefix
// included.
func readFrame(r io.Reader) (Packet, []byte, error) {
	var lb [4]byte
	if _, err := io.ReadFull(r, lb[:]); err != nil {
		return Packet{}, nil, readError("rcon: read length", err)
	}

	length := int32(binary.LittleEndian.Uint32(lb[:]))
	if length < frameOverhead || length > maxFrameLength {
		return Packet{}, nil, errs.Protocol("rcon: read length", errs.KindFormat, "frame length %d out of range", length)
	}

	raw := make([]byte, 4+length)
	copy(raw, lb[:])
	frame := raw[4:]
	if _, err := io.ReadFull(r, frame); err != nil {
		return Packet{}, nil, readError("rcon: read frame", err)
	}

	return Packet{
		RequestID: int32(binary.LittleEndian.Uint32(frame[0:4])),
		Type:      int32(binary.LittleEndian.Uint32(frame[4:8])),
		Body:      decodeBody(frame[8 : length-2]),
	}, raw, nil
}

func readError(op string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &errs.ProtocolError{Op: op, Kind: errs.KindConnectionClosed, Err: err}
	}
	return errs.Classify(op, err)
}
