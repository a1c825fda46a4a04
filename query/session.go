// Package query is a client for the Minecraft UDP query protocol: a handshake
// that yields a challenge token, then a full stat request carrying the token.
package query

import (
	"context"
	"encoding/hex"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/apparentlyarhm/validator/errs"
	vlog "github.com/apparentlyarhm/validator/log"
	"github.com/sirupsen/logrus"
)

var log = vlog.Log.WithField("sys", "QUERY")

// DefaultTimeout bounds each receive.
const DefaultTimeout = 2 * time.Second

// maxDatagram is the largest UDP payload.
const maxDatagram = 65535

// Config controls sessions. The zero value uses the defaults.
type Config struct {
	Timeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// A Session owns one UDP socket for a single exchange.
type Session struct {
	conn net.Conn
	cfg  Config
	buf  []byte
	log  *logrus.Entry
}

// Dial opens a UDP socket to host:port.
func Dial(ctx context.Context, host string, port int, cfg Config) (*Session, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", addr)
	if err != nil {
		return nil, fmt.Errorf("query: dial %s: %w: %v", addr, errs.ErrConnection, err)
	}
	return NewSession(conn, cfg), nil
}

// NewSession wraps a connected datagram socket. The session owns conn.
func NewSession(conn net.Conn, cfg Config) *Session {
	return &Session{
		conn: conn,
		cfg:  cfg.withDefaults(),
		log:  log.WithField("addr", conn.RemoteAddr().String()),
	}
}

// Close releases the socket.
func (s *Session) Close() error {
	return s.conn.Close()
}

// Challenge performs the handshake and returns the challenge token.
func (s *Session) Challenge() (int32, error) {
	d, err := s.roundTrip(BuildHandshake())
	if err != nil {
		return 0, err
	}
	return ParseChallenge(d)
}

// FullStat requests and decodes the full stat reply.
func (s *Session) FullStat(challenge int32) (ServerStatus, error) {
	d, err := s.roundTrip(BuildFullQuery(challenge))
	if err != nil {
		return ServerStatus{}, err
	}

	status, err := ParseFullQueryResponse(d)
	if err != nil {
		return ServerStatus{}, err
	}
	if status.Outcome == OutcomePartial {
		s.log.Warn("reply has no player section, returning partial status")
	}
	return status, nil
}

// roundTrip sends one datagram and waits up to the timeout for one reply. The
// returned slice is only valid until the next roundTrip.
func (s *Session) roundTrip(req []byte) ([]byte, error) {
	s.log.WithField("packet", hex.EncodeToString(req)).Trace("sending packet")
	if _, err := s.conn.Write(req); err != nil {
		return nil, errs.Classify("query: send", err)
	}

	if s.buf == nil {
		s.buf = make([]byte, maxDatagram)
	}
	s.conn.SetReadDeadline(time.Now().Add(s.cfg.Timeout))
	n, err := s.conn.Read(s.buf)
	if err != nil {
		return nil, errs.Classify("query: receive", err)
	}

	s.log.WithField("packet", hex.EncodeToString(s.buf[:n])).Trace("received packet")
	return s.buf[:n], nil
}

// Query runs one handshake and full stat exchange against host:port. It does
// not retry; a silent server surfaces as errs.ErrTimeout.
func Query(ctx context.Context, cfg Config, host string, port int) (ServerStatus, error) {
	s, err := Dial(ctx, host, port, cfg)
	if err != nil {
		return ServerStatus{}, err
	}
	defer s.Close()

	challenge, err := s.Challenge()
	if err != nil {
		return ServerStatus{}, err
	}
	return s.FullStat(challenge)
}
