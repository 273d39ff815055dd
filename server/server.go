package server

import (
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
	"golang.org/x/net/netutil"

	"github.com/elastic/hey-wdi/metric"
	"github.com/elastic/hey-wdi/out"
	"github.com/elastic/hey-wdi/store"
)

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
	// time given to sessions to notice their connection was closed after the grace period
	closeWait = 500 * time.Millisecond
)

type Config struct {
	// host:port to listen on, eg ":8080"
	Addr string
	// how long a connection can stay idle before it is closed, 0 means forever
	ReadTimeout time.Duration
	// how long to wait for open connections to finish after a shutdown request
	ShutdownGrace time.Duration
	// maximum number of connections served at the same time, 0 means no limit
	MaxConnections int
	// drops the dataset after every query and report, so it is read again from disk
	InvalidateAfterRequest bool
}

// Server accepts connections and coordinates their shutdown.
type Server struct {
	cfg     Config
	store   *store.Store
	logger  *out.Logger
	metrics *metric.Metrics

	mu           sync.Mutex // protects the fields below
	listener     net.Listener
	clients      uint64
	sessions     map[uint64]*session
	shuttingDown bool

	quit     chan struct{} // closed on shutdown
	done     chan struct{} // closed when Serve is done
	doneOnce sync.Once
	wg       sync.WaitGroup
}

// New returns a server for the given store. `metrics` might be nil.
func New(cfg Config, st *store.Store, logger *out.Logger, metrics *metric.Metrics) *Server {
	if logger == nil {
		logger = out.Discard()
	}
	if metrics == nil {
		metrics = metric.NewMetrics()
	}
	return &Server{
		cfg:      cfg,
		store:    st,
		logger:   logger,
		metrics:  metrics,
		sessions: make(map[uint64]*session),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Listen binds the listening socket.
func (srv *Server) Listen() error {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.listener != nil {
		return errors.New("server is already listening")
	}
	if srv.shuttingDown {
		return errors.New("server is shutting down")
	}
	ln, err := net.Listen("tcp", srv.cfg.Addr)
	if err != nil {
		return errors.Wrapf(err, "listening on %s", srv.cfg.Addr)
	}
	if srv.cfg.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, srv.cfg.MaxConnections)
	}
	srv.listener = ln
	srv.logger.Infof("listening on %s", ln.Addr())
	return nil
}

// Addr returns the address the server listens on, or nil if it isn't listening.
func (srv *Server) Addr() net.Addr {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.listener == nil {
		return nil
	}
	return srv.listener.Addr()
}

// ListenAndServe is a shorthand for Listen followed by Serve.
func (srv *Server) ListenAndServe() error {
	if err := srv.Listen(); err != nil {
		return err
	}
	return srv.Serve()
}

// Serve accepts connections until Shutdown is called, then waits for the connections to be closed, up to the
// shutdown grace period. It returns nil after a shutdown.
func (srv *Server) Serve() error {
	srv.mu.Lock()
	ln := srv.listener
	srv.mu.Unlock()
	if ln == nil {
		return errors.New("server is not listening")
	}
	defer srv.drain()

	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if srv.ShuttingDown() {
				return nil
			}
			srv.metrics.AcceptErrors.Inc()
			delay = backoff(delay)
			srv.logger.Errorf("accepting connection: %v, retrying in %s", err, delay)
			select {
			case <-time.After(delay):
			case <-srv.quit:
				return nil
			}
			continue
		}
		delay = 0
		srv.start(conn)
	}
}

// 5ms, 10ms, 20ms ... up to 1s
func backoff(delay time.Duration) time.Duration {
	if delay == 0 {
		return minAcceptDelay
	}
	if delay *= 2; delay > maxAcceptDelay {
		delay = maxAcceptDelay
	}
	return delay
}

func (srv *Server) start(conn net.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.shuttingDown {
		conn.Close()
		return
	}
	srv.clients++
	ss := newSession(srv.clients, conn, srv)
	srv.sessions[ss.id] = ss
	srv.wg.Add(1)
	srv.metrics.SessionsAccepted.Inc()
	srv.metrics.SessionsActive.Inc()
	go ss.serve()
}

func (srv *Server) deregister(id uint64) {
	srv.mu.Lock()
	delete(srv.sessions, id)
	srv.mu.Unlock()
	srv.metrics.SessionsActive.Dec()
	srv.wg.Done()
}

// Shutdown stops accepting connections and asks every open connection to terminate.
// It doesn't wait, see Done. Calling it more than once has no effect.
func (srv *Server) Shutdown() {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.shuttingDown {
		return
	}
	srv.shuttingDown = true
	close(srv.quit)
	srv.logger.Infof("shutting down, %d sessions open", len(srv.sessions))
	if srv.listener != nil {
		if err := srv.listener.Close(); err != nil {
			srv.logger.Errorf("closing listener: %v", err)
		}
	}
	for _, ss := range srv.sessions {
		ss.stop()
	}
}

// ShuttingDown tells whether Shutdown has been called.
func (srv *Server) ShuttingDown() bool {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	return srv.shuttingDown
}

// Done is closed when Serve returns.
func (srv *Server) Done() <-chan struct{} {
	return srv.done
}

// Sessions returns the number of open connections.
func (srv *Server) Sessions() int {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	return len(srv.sessions)
}

// waits for sessions to finish on their own during the grace period, then closes them
// sessions stuck in something else than reading or writing are left behind
func (srv *Server) drain() {
	finished := make(chan struct{})
	go func() {
		srv.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(srv.cfg.ShutdownGrace):
		srv.mu.Lock()
		srv.logger.Errorf("%d sessions still open after %s, closing them", len(srv.sessions), srv.cfg.ShutdownGrace)
		for _, ss := range srv.sessions {
			ss.close()
		}
		srv.mu.Unlock()

		select {
		case <-finished:
		case <-time.After(closeWait):
			srv.logger.Errorf("giving up on sessions %v", srv.sessionIDs())
		}
	}
	srv.doneOnce.Do(func() {
		srv.logger.Infof("server stopped after serving %d clients", srv.clientCount())
		close(srv.done)
	})
}

func (srv *Server) sessionIDs() []uint64 {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	ids := make([]uint64, 0, len(srv.sessions))
	for id := range srv.sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (srv *Server) clientCount() uint64 {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	return srv.clients
}
