package rcon

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/apparentlyarhm/validator/errs"
	vlog "github.com/apparentlyarhm/validator/log"
	"github.com/sirupsen/logrus"
)

var log = vlog.Log.WithField("sys", "RCON")

const (
	// DefaultDialTimeout bounds connection establishment.
	DefaultDialTimeout = 2 * time.Second

	// DefaultIOTimeout bounds every single read and write on a session.
	DefaultIOTimeout = 10 * time.Second
)

// ErrSessionState is returned for operations the session's state does not
// allow, such as executing before a successful Authenticate.
var ErrSessionState = errors.New("rcon: operation not allowed in session state")

// Config controls sessions. The zero value uses the defaults.
type Config struct {
	DialTimeout time.Duration
	IOTimeout   time.Duration

	// Reassembly returns the Reassembler for one command. Defaults to
	// NewSentinelReassembler.
	Reassembly func() Reassembler
}

func (c Config) withDefaults() Config {
	if c.DialTimeout <= 0 {
		c.DialTimeout = DefaultDialTimeout
	}
	if c.IOTimeout <= 0 {
		c.IOTimeout = DefaultIOTimeout
	}
	if c.Reassembly == nil {
		c.Reassembly = NewSentinelReassembler
	}
	return c
}

type state int

const (
	stateConnected state = iota
	stateReady
	stateFailed
	stateClosed
)

func (s state) String() string {
	switch s {
	case stateConnected:
		return "connected"
	case stateReady:
		return "ready"
	case stateFailed:
		return "failed"
	case stateClosed:
		return "closed"
	}
	return "state(" + strconv.Itoa(int(s)) + ")"
}

// A Session is one authenticated console connection. It is not meant to be
// shared: calls are serialized and a second Execute waits for the first.
type Session struct {
	// mu serializes Authenticate and Execute.
	mu    sync.Mutex
	state state
	ids   idAllocator

	conn      net.Conn
	cfg       Config
	log       *logrus.Entry
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// Dial connects to host:port with the configured dial timeout. The timeout
// applies to the connect itself; failures wrap errs.ErrConnection and are not
// retried.
func Dial(ctx context.Context, host string, port int, cfg Config) (*Session, error) {
	cfg = cfg.withDefaults()
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	d := net.Dialer{Timeout: cfg.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		log.WithField("addr", addr).WithError(err).Warn("could not connect")
		return nil, fmt.Errorf("rcon: dial %s: %w: %v", addr, errs.ErrConnection, err)
	}

	if tcp, ok := conn.(*net.TCPConn); ok {
		tcp.SetNoDelay(true)
	}

	return NewSession(conn, cfg), nil
}

// NewSession wraps an established connection. The session owns conn from
// here on.
func NewSession(conn net.Conn, cfg Config) *Session {
	return &Session{
		conn: conn,
		cfg:  cfg.withDefaults(),
		log:  log.WithField("addr", conn.RemoteAddr().String()),
	}
}

// Authenticate logs in with password. A wrong password is reported as false
// with a nil error. A response for any other request id is treated the same
// way, since the session cannot be trusted afterwards. Either way the session
// can only be closed.
func (s *Session) Authenticate(password string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(stateConnected); err != nil {
		return false, err
	}

	id, err := s.send(TypeLogin, password)
	if err != nil {
		if errors.Is(err, ErrInvalidBody) {
			return false, err
		}
		return false, s.abort(err)
	}

	resp, err := s.read()
	if err != nil {
		return false, s.abort(err)
	}

	switch resp.RequestID {
	case InvalidAuthID:
		s.log.Info("password rejected")
		s.state = stateFailed
		return false, nil
	case id:
		s.log.Info("authenticated")
		s.state = stateReady
		return true, nil
	}

	s.log.WithFields(logrus.Fields{"want": id, "got": resp.RequestID}).Warn("login response for another request id")
	s.state = stateFailed
	return false, nil
}

// Execute runs command and returns its complete, reassembled output. Any
// protocol or transport error closes the session and discards output read so
// far.
func (s *Session) Execute(command string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(stateReady); err != nil {
		return "", err
	}

	cmdLog := s.log.WithField("cmd", command)
	cmdLog.Debug("executing")

	id, err := s.send(TypeCommand, command)
	if err != nil {
		if errors.Is(err, ErrInvalidBody) {
			return "", err
		}
		return "", s.abort(err)
	}

	r := s.cfg.Reassembly()
	if err := r.Arm(writer{s}, id); err != nil {
		return "", s.abort(err)
	}

	var out strings.Builder
	fragments := 0
	for {
		p, err := s.read()
		if err != nil {
			return "", s.abort(err)
		}

		fragment, done, err := r.Accept(p)
		if err != nil {
			cmdLog.WithError(err).Warn("aborting command")
			return "", s.abort(err)
		}
		if fragment {
			out.WriteString(p.Body)
			fragments++
		}
		if done {
			break
		}
	}

	cmdLog.WithField("fragments", fragments).Debug("executed")
	return out.String(), nil
}

// Close releases the connection. It is safe to call more than once and from
// another goroutine, where it unblocks a pending read or write.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}

func (s *Session) check(want state) error {
	if s.closed.Load() {
		s.state = stateClosed
	}
	if s.state != want {
		return fmt.Errorf("%w: %s", ErrSessionState, s.state)
	}
	return nil
}

// abort closes the session after an unrecoverable error and returns err.
func (s *Session) abort(err error) error {
	s.state = stateClosed
	s.Close()
	return err
}

func (s *Session) send(typ int32, body string) (int32, error) {
	id := s.ids.next()
	frame, err := Encode(id, typ, body)
	if err != nil {
		return 0, err
	}
	if n := len(frame) - 4 - frameOverhead; n > MaxRequestBody {
		return 0, fmt.Errorf("%w: body is %d bytes, limit %d", ErrInvalidBody, n, MaxRequestBody)
	}

	if typ == TypeLogin {
		scrubbed, _ := Encode(id, typ, "xxxxx")
		s.tracePacket("sending packet", id, typ, scrubbed)
	} else {
		s.tracePacket("sending packet", id, typ, frame)
	}

	s.conn.SetWriteDeadline(time.Now().Add(s.cfg.IOTimeout))
	if _, err := s.conn.Write(frame); err != nil {
		return 0, errs.Classify("rcon: write", err)
	}
	return id, nil
}

func (s *Session) read() (Packet, error) {
	s.conn.SetReadDeadline(time.Now().Add(s.cfg.IOTimeout))
	p, raw, err := readFrame(s.conn)
	if err != nil {
		return Packet{}, err
	}
	s.tracePacket("received packet", p.RequestID, p.Type, raw)
	return p, nil
}

// tracePacket dumps a frame at trace level. Callers scrub login bodies.
func (s *Session) tracePacket(msg string, id, typ int32, frame []byte) {
	if !s.log.Logger.IsLevelEnabled(logrus.TraceLevel) {
		return
	}

	s.log.WithFields(logrus.Fields{
		"rID":    id,
		"type":   typ,
		"packet": hex.EncodeToString(frame),
	}).Trace(msg)
}

// writer lets a Reassembler send packets without exposing send.
type writer struct {
	s *Session
}

func (w writer) WritePacket(typ int32, body string) (int32, error) {
	return w.s.send(typ, body)
}

// Exec connects, authenticates, runs one command and closes the connection.
// A rejected password wraps errs.ErrAuthentication. ctx bounds the whole
// exchange: when it ends the connection is closed, unblocking any pending
// read, and a deadline surfaces as errs.ErrTimeout.
func Exec(ctx context.Context, cfg Config, host string, port int, password, command string) (string, error) {
	s, err := Dial(ctx, host, port, cfg)
	if err != nil {
		return "", contextError(ctx, err)
	}
	defer s.Close()

	stop := context.AfterFunc(ctx, func() { s.Close() })
	defer stop()

	ok, err := s.Authenticate(password)
	if err != nil {
		return "", contextError(ctx, err)
	}
	if !ok {
		return "", fmt.Errorf("rcon: %w", errs.ErrAuthentication)
	}

	out, err := s.Execute(command)
	if err != nil {
		return "", contextError(ctx, err)
	}
	return out, nil
}

// contextError reports an ended ctx in place of the transport error it
// caused.
func contextError(ctx context.Context, err error) error {
	switch ctx.Err() {
	case nil:
		return err
	case context.DeadlineExceeded:
		return fmt.Errorf("rcon: %w: %v", errs.ErrTimeout, err)
	}
	return fmt.Errorf("rcon: %w: %v", ctx.Err(), err)
}
