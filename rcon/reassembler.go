package rcon

import (
	"github.com/apparentlyarhm/validator/errs"
)

// maxFragmentBody is the largest body the server puts in one response packet.
const maxFragmentBody = 4096

// PacketWriter sends one packet and returns the request id it was given.
type PacketWriter interface {
	WritePacket(typ int32, body string) (int32, error)
}

// A Reassembler decides which inbound packets belong to a command response
// and when that response is complete. Sessions use a fresh Reassembler for
// every command.
type Reassembler interface {
	// Arm is called once the command packet with commandID has been written.
	Arm(w PacketWriter, commandID int32) error

	// Accept classifies one inbound packet. fragment reports that its body is
	// part of the response, done ends the read loop. A non-nil error aborts
	// the command.
	Accept(p Packet) (fragment, done bool, err error)
}

type sentinelReassembler struct {
	commandID  int32
	sentinelID int32
}

// NewSentinelReassembler returns the default Reassembler. It follows the
// command with a TypeSentinel packet and treats the reply to it as the end of
// the response.
//
// This relies on the server answering in order. A server that answers the
// sentinel before the last fragment ends the response early; fragments
// still in flight are never read.
func NewSentinelReassembler() Reassembler {
	return &sentinelReassembler{}
}

func (r *sentinelReassembler) Arm(w PacketWriter, commandID int32) error {
	id, err := w.WritePacket(TypeSentinel, "")
	if err != nil {
		return err
	}
	r.commandID, r.sentinelID = commandID, id
	return nil
}

func (r *sentinelReassembler) Accept(p Packet) (bool, bool, error) {
	switch p.RequestID {
	case r.commandID:
		return true, false, nil
	case r.sentinelID:
		return false, true, nil
	}
	return false, false, errs.Protocol("rcon: execute", errs.KindMismatch,
		"unexpected request id %d (command %d, sentinel %d)", p.RequestID, r.commandID, r.sentinelID)
}

type sizeReassembler struct {
	commandID int32
}

// NewSizeReassembler returns a Reassembler that sends nothing extra and ends
// the response at the first fragment shorter than a full packet. A response
// that is an exact multiple of the packet size leaves the read loop waiting
// for the I/O timeout.
func NewSizeReassembler() Reassembler {
	return &sizeReassembler{}
}

func (r *sizeReassembler) Arm(_ PacketWriter, commandID int32) error {
	r.commandID = commandID
	return nil
}

func (r *sizeReassembler) Accept(p Packet) (bool, bool, error) {
	if p.RequestID != r.commandID {
		return false, false, errs.Protocol("rcon: execute", errs.KindMismatch,
			"unexpected request id %d (command %d)", p.RequestID, r.commandID)
	}
	return true, len(bodyBytes(p.Body)) < maxFragmentBody, nil
}

// bodyBytes is the wire form of an already decoded body.
func bodyBytes(body string) []byte {
	b, err := bodyCharset.NewEncoder().Bytes([]byte(body))
	if err != nil {
		return []byte(body)
	}
	return b
}
