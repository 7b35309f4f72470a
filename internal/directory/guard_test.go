package directory

import (
	"crypto/tls"
	"errors"
	"testing"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn is a scriptable dirConn for guard and service tests.
type fakeConn struct {
	searchFn    func(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	bindFn      func(username, password string) error
	bindErr     error
	startTLSErr error

	binds    []string
	searches int
	closed   bool
}

func (f *fakeConn) Search(req *ldap.SearchRequest) (*ldap.SearchResult, error) {
	f.searches++
	if f.searchFn != nil {
		return f.searchFn(req)
	}

	return &ldap.SearchResult{}, nil
}

func (f *fakeConn) Bind(username, password string) error {
	f.binds = append(f.binds, username)
	if f.bindFn != nil {
		return f.bindFn(username, password)
	}

	return f.bindErr
}

func (f *fakeConn) StartTLS(*tls.Config) error { return f.startTLSErr }

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

// fixedDialer always hands out the given connections in order, failing with
// dialErr for servers beyond the list.
func fixedDialer(t *testing.T, conns ...*fakeConn) dialFunc {
	t.Helper()

	i := 0

	return func(string) (dirConn, error) {
		if i >= len(conns) {
			return nil, errors.New("dial: connection refused")
		}

		conn := conns[i]
		i++

		if conn == nil {
			return nil, errors.New("dial: connection refused")
		}

		return conn, nil
	}
}

func guardConfig() *Config {
	cfg := validConfig()
	cfg.Connection.BindUser = "cn=service,dc=example,dc=com"
	cfg.Connection.BindPass = "secret"

	return cfg
}

func TestGuardLazyConnect(t *testing.T) {
	conn := &fakeConn{}
	g := newConnectionGuard(guardConfig(), fixedDialer(t, conn))

	require.Nil(t, g.conn, "guard must not connect before first use")

	_, err := g.search(searchRequest("dc=example,dc=com", "(uid=a)", 0, nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"cn=service,dc=example,dc=com"}, conn.binds)
	assert.Equal(t, 1, conn.searches)
}

func TestGuardRetriesOnceOnTransportFault(t *testing.T) {
	want := &ldap.SearchResult{Entries: []*ldap.Entry{ldap.NewEntry("cn=x", nil)}}

	broken := &fakeConn{searchFn: func(*ldap.SearchRequest) (*ldap.SearchResult, error) {
		return nil, ldap.NewError(ldap.ErrorNetwork, errors.New("connection reset by peer"))
	}}
	healthy := &fakeConn{searchFn: func(*ldap.SearchRequest) (*ldap.SearchResult, error) {
		return want, nil
	}}

	g := newConnectionGuard(guardConfig(), fixedDialer(t, broken, healthy))

	res, err := g.search(searchRequest("dc=example,dc=com", "(uid=a)", 0, nil))
	require.NoError(t, err)
	assert.Same(t, want, res)
	assert.Equal(t, 1, broken.searches, "failed call happens exactly once")
	assert.Equal(t, 1, healthy.searches, "retry happens exactly once")
	assert.True(t, broken.closed, "dead connection is dropped")
}

func TestGuardDoesNotRetryTwice(t *testing.T) {
	netErr := ldap.NewError(ldap.ErrorNetwork, errors.New("broken pipe"))
	first := &fakeConn{searchFn: func(*ldap.SearchRequest) (*ldap.SearchResult, error) { return nil, netErr }}
	second := &fakeConn{searchFn: func(*ldap.SearchRequest) (*ldap.SearchResult, error) { return nil, netErr }}

	g := newConnectionGuard(guardConfig(), fixedDialer(t, first, second))

	_, err := g.search(searchRequest("dc=example,dc=com", "(uid=a)", 0, nil))
	require.Error(t, err)
	assert.Equal(t, 1, first.searches)
	assert.Equal(t, 1, second.searches, "the retried call must not be retried again")
}

func TestGuardDoesNotRetryDirectoryErrors(t *testing.T) {
	queryErr := ldap.NewError(ldap.LDAPResultNoSuchObject, errors.New("no such object"))
	conn := &fakeConn{searchFn: func(*ldap.SearchRequest) (*ldap.SearchResult, error) { return nil, queryErr }}

	g := newConnectionGuard(guardConfig(), fixedDialer(t, conn))

	_, err := g.search(searchRequest("dc=example,dc=com", "(uid=a)", 0, nil))
	assert.Equal(t, queryErr, err, "directory-level faults propagate unchanged")
	assert.Equal(t, 1, conn.searches)
}

func TestGuardReconnectFailureSurfacesStoredError(t *testing.T) {
	broken := &fakeConn{searchFn: func(*ldap.SearchRequest) (*ldap.SearchResult, error) {
		return nil, ldap.NewError(ldap.ErrorNetwork, errors.New("session terminated"))
	}}

	// second dial attempt fails, exhausting the pool
	g := newConnectionGuard(guardConfig(), fixedDialer(t, broken))

	_, err := g.search(searchRequest("dc=example,dc=com", "(uid=a)", 0, nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPoolExhausted)
	assert.ErrorIs(t, g.err, ErrPoolExhausted, "connect error is retained")
}

func TestGuardPoolFirstAvailable(t *testing.T) {
	cfg := guardConfig()
	cfg.Connection.Server = "ldap://dead ldap://alive"

	conn := &fakeConn{}
	g := newConnectionGuard(cfg, fixedDialer(t, nil, conn))

	_, err := g.search(searchRequest("dc=example,dc=com", "(uid=a)", 0, nil))
	require.NoError(t, err)
	assert.Equal(t, 1, conn.searches)
}

func TestGuardBindErrorAbortsPool(t *testing.T) {
	rejected := &fakeConn{bindErr: ldap.NewError(ldap.LDAPResultInvalidCredentials, errors.New("invalid credentials"))}
	never := &fakeConn{}

	cfg := guardConfig()
	cfg.Connection.Server = "ldap://one ldap://two"

	g := newConnectionGuard(cfg, fixedDialer(t, rejected, never))

	_, err := g.search(searchRequest("dc=example,dc=com", "(uid=a)", 0, nil))
	require.ErrorIs(t, err, ErrBindFailed)
	assert.True(t, rejected.closed)
	assert.Zero(t, never.searches, "a rejected bind must not advance to the next server")
	assert.Contains(t, err.Error(), "invalid credentials", "bind error carries the server message")
}

func TestGuardStartTLSFailureIsLenient(t *testing.T) {
	cfg := guardConfig()
	cfg.Connection.StartTLS = true

	conn := &fakeConn{startTLSErr: errors.New("unsupported extended operation")}
	g := newConnectionGuard(cfg, fixedDialer(t, conn))

	_, err := g.search(searchRequest("dc=example,dc=com", "(uid=a)", 0, nil))
	assert.NoError(t, err, "StartTLS negotiation failure must not kill the session")
}

func TestGuardAuthenticateUsesFreshConnection(t *testing.T) {
	service := &fakeConn{}
	user := &fakeConn{}

	g := newConnectionGuard(guardConfig(), fixedDialer(t, service, user))

	_, err := g.search(searchRequest("dc=example,dc=com", "(uid=a)", 0, nil))
	require.NoError(t, err)

	require.NoError(t, g.authenticate("cn=jdoe,dc=example,dc=com", "pw"))
	assert.Equal(t, []string{"cn=jdoe,dc=example,dc=com"}, user.binds)
	assert.True(t, user.closed, "user connection is closed after the bind check")
	assert.Equal(t, []string{"cn=service,dc=example,dc=com"}, service.binds, "service connection is never rebound")
}

func TestGuardClose(t *testing.T) {
	conn := &fakeConn{}
	g := newConnectionGuard(guardConfig(), fixedDialer(t, conn))

	_, err := g.search(searchRequest("dc=example,dc=com", "(uid=a)", 0, nil))
	require.NoError(t, err)

	g.close()
	g.close() // idempotent
	assert.True(t, conn.closed)
}
