package server

import (
	"bufio"
	"io"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/elastic/hey-wdi/commands"
	"github.com/elastic/hey-wdi/out"
)

// a connected client
// reads one line, writes one reply, until the client disconnects or the server stops
type session struct {
	id     uint64
	conn   net.Conn
	srv    *Server
	logger *out.Logger

	mu       sync.Mutex
	stopping bool
}

func newSession(id uint64, conn net.Conn, srv *Server) *session {
	return &session{
		id:     id,
		conn:   conn,
		srv:    srv,
		logger: srv.logger,
	}
}

func (ss *session) serve() {
	defer ss.terminate()
	ss.logger.Infof("client %d connected from %s", ss.id, ss.conn.RemoteAddr())

	r := bufio.NewReader(ss.conn)
	w := bufio.NewWriter(ss.conn)
	for {
		if !ss.waitForCommand() {
			ss.logger.Debugf("client %d: server shutting down", ss.id)
			return
		}
		line, err := r.ReadString('\n')
		if err != nil && !(err == io.EOF && line != "") {
			ss.readFailed(err)
			return
		}

		ss.logger.Debugf("client %d sent %q", ss.id, line)
		res := ss.execute(line)
		if werr := out.ReplyNL(w, res.Reply); werr != nil {
			ss.logger.Errorf("client %d: writing reply: %v", ss.id, werr)
			return
		}
		ss.logger.Debugf("client %d got %q", ss.id, res.Reply)

		switch {
		case res.Action == commands.StopServer:
			ss.logger.Infof("client %d stopped the server", ss.id)
			ss.srv.Shutdown()
			return
		case res.Action == commands.CloseSession:
			return
		case err == io.EOF:
			// last line without terminator
			ss.readFailed(err)
			return
		}
	}
}

func (ss *session) execute(line string) commands.Result {
	cmd := commands.Parse(line)
	verb := cmd.Verb()
	if _, ok := cmd.(commands.Malformed); ok {
		verb = "unknown"
	}

	start := time.Now()
	res := commands.Execute(cmd, ss.srv.store, ss.logger)
	ss.srv.metrics.Commands.WithLabelValues(verb).Inc()
	ss.srv.metrics.CommandDuration.WithLabelValues(verb).Observe(time.Since(start).Seconds())

	if ss.srv.cfg.InvalidateAfterRequest {
		switch cmd.(type) {
		case commands.Query, commands.Report:
			ss.srv.store.Invalidate()
		}
	}
	return res
}

// sets the idle deadline for the next read
// returns false if the server is shutting down and no more commands should be read
func (ss *session) waitForCommand() bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if ss.stopping {
		return false
	}
	var deadline time.Time
	if ss.srv.cfg.ReadTimeout > 0 {
		deadline = time.Now().Add(ss.srv.cfg.ReadTimeout)
	}
	if err := ss.conn.SetReadDeadline(deadline); err != nil {
		ss.logger.Errorf("client %d: setting read deadline: %v", ss.id, err)
	}
	return true
}

func (ss *session) readFailed(err error) {
	ss.mu.Lock()
	stopping := ss.stopping
	ss.mu.Unlock()

	var netErr net.Error
	switch {
	case err == io.EOF:
		ss.logger.Debugf("client %d closed the connection", ss.id)
	case stopping:
		ss.logger.Debugf("client %d: read interrupted by shutdown", ss.id)
	case errors.As(err, &netErr) && netErr.Timeout():
		ss.logger.Infof("client %d idle for more than %s", ss.id, ss.srv.cfg.ReadTimeout)
	case errors.Is(err, net.ErrClosed):
		ss.logger.Debugf("client %d: connection closed by the server", ss.id)
	default:
		ss.logger.Errorf("client %d: reading command: %v", ss.id, err)
	}
}

// asks the session to finish
// a session blocked reading a command is woken up, a session executing one finishes writing the reply first
func (ss *session) stop() {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.stopping = true
	// only affects reads, a reply being written goes through
	if err := ss.conn.SetReadDeadline(time.Unix(1, 0)); err != nil {
		ss.logger.Debugf("client %d: interrupting read: %v", ss.id, err)
	}
}

// forcibly closes the connection, the session goroutine terminates on its next read or write
func (ss *session) close() {
	if err := ss.conn.Close(); err != nil {
		ss.logger.Debugf("client %d: closing connection: %v", ss.id, err)
	}
}

func (ss *session) terminate() {
	if err := ss.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		ss.logger.Errorf("client %d: closing connection: %v", ss.id, err)
	}
	ss.srv.deregister(ss.id)
	ss.logger.Infof("client %d disconnected", ss.id)
}
