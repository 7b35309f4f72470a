package directory

import (
	"crypto/tls"
	"strings"
	"sync"

	"github.com/go-ldap/ldap/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// dirConn is the subset of *ldap.Conn the guard needs. Keeping the retried
// surface a small fixed interface keeps the retry logic ordinary control flow
// and lets tests substitute scripted connections.
type dirConn interface {
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	Bind(username, password string) error
	StartTLS(config *tls.Config) error
	Close() error
}

// dialFunc opens a connection to a single directory server. Tests substitute
// their own implementation.
type dialFunc func(server string) (dirConn, error)

// dialDirectory dials one candidate server with go-ldap. Bare host values are
// treated as ldap:// URLs.
func dialDirectory(server string) (dirConn, error) {
	if !strings.Contains(server, "://") {
		server = "ldap://" + server
	}

	return ldap.DialURL(server) //nolint:wrapcheck
}

// connectionGuard is a self-healing proxy around a single live directory
// connection. It connects lazily, picks the first reachable server from the
// configured pool, and retries a search exactly once after reconnecting when
// a transport-level fault interrupts it. All state transitions happen under
// the guard's mutex, so concurrent callers never race on reconnect and all
// observe the same connect result.
type connectionGuard struct {
	mu       sync.Mutex
	conn     dirConn
	err      error // sticky: last connect failure
	servers  []string
	bindUser string
	bindPass string
	startTLS bool
	dial     dialFunc
}

func newConnectionGuard(cfg *Config, dial dialFunc) *connectionGuard {
	if dial == nil {
		dial = dialDirectory
	}

	return &connectionGuard{
		servers:  cfg.Servers(),
		bindUser: cfg.Connection.BindUser,
		bindPass: cfg.Connection.BindPass,
		startTLS: cfg.Connection.StartTLS,
		dial:     dial,
	}
}

// connect establishes the connection unless one is already live. With
// reconnect set, the existing connection is dropped first. Callers must hold
// the mutex. On failure the error is retained for later inspection.
func (g *connectionGuard) connect(reconnect bool) error {
	if g.conn != nil && !reconnect {
		return nil
	}

	if g.conn != nil {
		_ = g.conn.Close()
		g.conn = nil
	}

	conn, err := g.open()
	if err != nil {
		g.err = err
		return err
	}

	g.conn = conn
	g.err = nil

	return nil
}

// open tries the server pool in configured order and returns the first
// successfully bound connection. A rejected bind aborts immediately; only
// unreachable servers advance to the next candidate.
func (g *connectionGuard) open() (dirConn, error) {
	var lastErr error

	for _, server := range g.servers {
		conn, err := g.dial(server)
		if err != nil {
			log.Error().Err(err).Str("server", server).Msg("could not connect to ldap server")
			lastErr = err

			continue
		}

		if g.startTLS {
			if err = conn.StartTLS(&tls.Config{}); err != nil { //nolint:gosec
				// Non-fatal: the server may still permit an unencrypted session.
				log.Error().Err(err).Str("server", server).Msg("failed to initiate StartTLS ldap connection")
			}
		}

		if err = conn.Bind(g.bindUser, g.bindPass); err != nil {
			_ = conn.Close()

			return nil, errors.Wrap(ErrBindFailed, err.Error())
		}

		return conn, nil
	}

	if lastErr != nil {
		return nil, errors.Wrap(ErrPoolExhausted, lastErr.Error())
	}

	return nil, ErrPoolExhausted
}

// search executes the request on the guarded connection, connecting first if
// necessary. A transport-level fault triggers exactly one reconnect-and-retry;
// every other failure propagates unchanged.
func (g *connectionGuard) search(req *ldap.SearchRequest) (*ldap.SearchResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.connect(false); err != nil {
		return nil, g.err
	}

	res, err := g.conn.Search(req)
	if err != nil && isTransportFault(err) {
		log.Warn().Err(err).Msg("ldap socket error - reconnecting")
		reconnectCounter.Inc()

		if cerr := g.connect(true); cerr != nil {
			return nil, g.err
		}

		return g.conn.Search(req) //nolint:wrapcheck
	}

	return res, err //nolint:wrapcheck
}

// authenticate opens a fresh, independent connection from the pool and binds
// with the given credentials. The service connection is never rebound, so
// concurrent searches keep their service identity.
func (g *connectionGuard) authenticate(dn, password string) error {
	userGuard := connectionGuard{
		servers:  g.servers,
		bindUser: dn,
		bindPass: password,
		startTLS: g.startTLS,
		dial:     g.dial,
	}

	conn, err := userGuard.open()
	if err != nil {
		return err
	}

	return conn.Close() //nolint:wrapcheck
}

// close drops the live connection, if any. Safe to call repeatedly.
func (g *connectionGuard) close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.conn != nil {
		_ = g.conn.Close()
		g.conn = nil
	}
}

// isTransportFault reports whether the error is a socket-level failure
// (connection refused, send failure, session dropped by the peer) as opposed
// to a directory-level result such as a bad filter or missing entry.
func isTransportFault(err error) bool {
	return ldap.IsErrorWithCode(err, ldap.ErrorNetwork) ||
		ldap.IsErrorWithCode(err, ldap.LDAPResultServerDown) ||
		ldap.IsErrorWithCode(err, ldap.LDAPResultConnectError)
}
