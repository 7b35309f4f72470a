package directory

import (
	"sync"

	"github.com/go-ldap/ldap/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// searchPageSize caps free-text searches when the caller does not supply a limit.
const searchPageSize = 25

// Service is the public face of the directory layer. It owns the current
// configuration, the derived attribute map and the guarded connection, and
// replaces them atomically as a triple on Reload. A disabled or unconfigured
// service answers every operation with an empty result instead of an error.
type Service struct {
	mu        sync.RWMutex
	cfg       *Config
	attrMap   AttributeMap
	guard     *connectionGuard
	available bool

	// dial is substituted by tests; nil means the real go-ldap dialer.
	dial dialFunc
}

// NewService builds a Service and performs the initial load. A missing or
// broken configuration logs a warning and leaves the service disabled; it
// never fails construction, so the host process keeps running without a
// directory.
func NewService(cfg *Config) *Service {
	s := &Service{}

	if cfg == nil {
		log.Warn().Msg("no ldap configuration found - directory service disabled")
		return s
	}

	if err := s.Reload(cfg); err != nil {
		log.Warn().Err(err).Msg("ldap initialization failed - directory service disabled")
	}

	return s
}

// state snapshots the current configuration tuple under the read lock.
func (s *Service) state() (*Config, AttributeMap, *connectionGuard, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cfg, s.attrMap, s.guard, s.available
}

// Available reports whether the directory service is configured and enabled.
func (s *Service) Available() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.available
}

// Reload validates cfg (or revalidates the current configuration when cfg is
// nil), establishes a fresh guarded connection and probes the directory with
// an empty-attribute search before committing. On any failure the previous
// configuration and connection stay in effect. A disabled configuration
// reloads successfully with no live connection.
func (s *Service) Reload(cfg *Config) error {
	if cfg == nil {
		s.mu.RLock()
		cfg = s.cfg
		s.mu.RUnlock()
	}

	if cfg == nil {
		return ErrNotConfigured
	}

	if cfg.Disabled {
		s.swap(cfg, nil, nil, false)
		log.Info().Msg("directory service disabled by configuration")

		return nil
	}

	attrMap, err := cfg.Validate()
	if err != nil {
		return err
	}

	guard := newConnectionGuard(cfg, s.dial)

	// Provisioning probe: confirms reachability and filter syntax before the
	// new configuration replaces the old one.
	probe := searchRequest(cfg.searchBase(), cfg.searchFilter("", nil), 0, []string{})
	if _, err = guard.search(probe); err != nil {
		guard.close()

		return errors.Wrap(err, "directory provisioning check failed")
	}

	s.swap(cfg, attrMap, guard, true)

	return nil
}

// Disable immediately drops the live connection and marks the service
// unavailable. Idempotent.
func (s *Service) Disable() {
	s.mu.Lock()
	old := s.guard
	s.guard = nil
	s.available = false
	s.mu.Unlock()

	if old != nil {
		old.close()
	}
}

// swap commits a new configuration tuple and closes the displaced connection.
// Operations in flight keep using the pre-swap connection until they return.
func (s *Service) swap(cfg *Config, attrMap AttributeMap, guard *connectionGuard, available bool) {
	s.mu.Lock()
	old := s.guard
	s.cfg, s.attrMap, s.guard, s.available = cfg, attrMap, guard, available
	s.mu.Unlock()

	if old != nil && old != guard {
		old.close()
	}
}

// Authenticate verifies the credentials of the user identified by id. Unlike
// the other operations it reports an explicit ErrNotConfigured so login
// front ends can tell "no directory" from "wrong password".
func (s *Service) Authenticate(id, password string) error {
	cfg, _, guard, ok := s.state()
	if !ok {
		return ErrNotConfigured
	}

	res, err := s.doSearch(guard, searchRequest(cfg.searchBase(), cfg.matchFilter(id), 0, []string{cfg.ObjectID}))
	if err != nil {
		return err
	}

	switch len(res.Entries) {
	case 0:
		return ErrInvalidCredentials
	case 1:
	default:
		return ErrMultipleEntries
	}

	if err = guard.authenticate(res.Entries[0].DN, password); err != nil {
		log.Debug().Err(err).Msg("ldap user bind rejected")

		return ErrInvalidCredentials
	}

	return nil
}

// GetUserInfo looks up a single user by object ID, restricted to the three
// display attributes. It returns nil on zero or multiple matches, on a query
// fault, or when the entry is incomplete.
func (s *Service) GetUserInfo(id string) *UserInfo {
	cfg, _, guard, ok := s.state()
	if !ok {
		return nil
	}

	attrs := []string{cfg.Users.Username, cfg.Users.DisplayName, cfg.ObjectID}

	res, err := s.doSearch(guard, searchRequest(cfg.searchBase(), cfg.matchFilter(id), 0, attrs))
	if err != nil {
		log.Debug().Err(err).Msg("ldap user lookup failed")

		return nil
	}

	if len(res.Entries) != 1 {
		return nil
	}

	entry := res.Entries[0]
	if !entryComplete(entry, cfg.requiredAttributes()) {
		return nil
	}

	return cfg.userInfoFromEntry(entry)
}

// GetAll hydrates display information for every given object ID. Entries
// failing the completeness check are dropped silently; this is a best-effort
// batch lookup, not a transactional read.
func (s *Service) GetAll(ids []string) []UserInfo {
	cfg, _, guard, ok := s.state()
	if !ok {
		return []UserInfo{}
	}

	attrs := []string{cfg.Users.Username, cfg.Users.DisplayName, cfg.ObjectID}

	res, err := s.doSearch(guard, searchRequest(cfg.searchBase(), cfg.matchFilterMulti(ids), 0, attrs))
	if err != nil {
		log.Debug().Err(err).Msg("ldap batch lookup failed")

		return []UserInfo{}
	}

	users := make([]UserInfo, 0, len(res.Entries))

	for _, entry := range res.Entries {
		if entryComplete(entry, cfg.requiredAttributes()) {
			users = append(users, *cfg.userInfoFromEntry(entry))
		}
	}

	return users
}

// SearchUsers finds users matching the query, optionally restricted to the
// given mail domains. An exact-match lookup of the unescaped query runs first
// and its result, if any, is prepended; it is not de-duplicated against the
// substring results, callers needing uniqueness must filter themselves. The
// substring search is capped server-side at limit results (searchPageSize
// when limit is zero or negative).
func (s *Service) SearchUsers(query string, domains []string, limit int) []UserInfo {
	cfg, _, guard, ok := s.state()
	if !ok {
		return []UserInfo{}
	}

	if limit <= 0 {
		limit = searchPageSize
	}

	users := []UserInfo{}

	if query != "" {
		if exact := s.GetUserInfo(string(UnescapeFilter(query))); exact != nil {
			users = append(users, *exact)
		}
	}

	attrs := []string{cfg.ObjectID, cfg.Users.DisplayName, cfg.Users.Username}

	res, err := s.doSearch(guard, searchRequest(cfg.searchBase(), cfg.searchFilter(query, domains), limit, attrs))
	if err != nil && (res == nil || len(res.Entries) == 0) {
		log.Debug().Err(err).Msg("ldap search failed")

		return users
	}

	for _, entry := range res.Entries {
		if entryComplete(entry, cfg.requiredAttributes()) {
			users = append(users, *cfg.userInfoFromEntry(entry))
		}
	}

	return users
}

// DownsyncUser fetches the full directory record of the user identified by id
// and shapes it for the relational user store. It returns nil (without error)
// on zero matches, a malformed id, or a missing username attribute, and fails
// with ErrMultipleEntries when the id is ambiguous. When props is nil the
// property seed is the configured default quota.
func (s *Service) DownsyncUser(id string, props map[string]any) (*DownsyncRecord, error) {
	cfg, attrMap, guard, ok := s.state()
	if !ok {
		return nil, nil
	}

	res, err := s.doSearch(guard, searchRequest(cfg.searchBase(), cfg.matchFilter(id), 0, []string{"*", cfg.ObjectID}))
	if err != nil {
		if isInvalidQuery(err) {
			log.Debug().Err(err).Str("id", id).Msg("ldap downsync query rejected")

			return nil, nil
		}

		return nil, err
	}

	switch len(res.Entries) {
	case 0:
		return nil, nil
	case 1:
	default:
		return nil, ErrMultipleEntries
	}

	entry := res.Entries[0]
	if entry.GetEqualFoldAttributeValue(cfg.Users.Username) == "" {
		return nil, nil
	}

	if props == nil {
		props = cfg.defaultProperties()
	}

	return cfg.downsyncFromEntry(entry, attrMap, props), nil
}

// DumpUser returns the raw directory entry of the user identified by id with
// all attributes, or nil unless exactly one entry matched.
func (s *Service) DumpUser(id string) *ldap.Entry {
	cfg, _, guard, ok := s.state()
	if !ok {
		return nil
	}

	res, err := s.doSearch(guard, searchRequest(cfg.searchBase(), cfg.matchFilter(id), 0, []string{"*", cfg.ObjectID}))
	if err != nil || len(res.Entries) != 1 {
		return nil
	}

	return res.Entries[0]
}

func (s *Service) doSearch(guard *connectionGuard, req *ldap.SearchRequest) (*ldap.SearchResult, error) {
	res, err := guard.search(req)
	if err != nil {
		searchCounter.WithLabelValues("error").Inc()
	} else {
		searchCounter.WithLabelValues("ok").Inc()
	}

	return res, err
}

func searchRequest(base, filter string, sizeLimit int, attrs []string) *ldap.SearchRequest {
	return ldap.NewSearchRequest(
		base,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		sizeLimit,
		0,
		false,
		filter,
		attrs,
		nil,
	)
}

// isInvalidQuery reports whether the error reflects a malformed caller-supplied
// value (unparseable filter) rather than a directory or transport problem.
func isInvalidQuery(err error) bool {
	return ldap.IsErrorWithCode(err, ldap.ErrorFilterCompile)
}
