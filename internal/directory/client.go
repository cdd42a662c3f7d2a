package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/manosbatsis/bw-sometime/internal/cache"
	"github.com/manosbatsis/bw-sometime/internal/config"

	"github.com/go-ldap/ldap/v3"
	"github.com/rs/zerolog"
)

// Directory resolves calendar accounts from the deployment's LDAP server.
//
// Multi-result searches return a deduplicated list sorted by display name.
// Single-result lookups return (nil, nil) when nothing matches and
// ErrAmbiguousResult when more than one entry survives filtering.
type Directory interface {
	Close()
	BindUser(ctx context.Context, username, password string) (*PersonAccount, error)

	PersonByUsername(ctx context.Context, username string) (*PersonAccount, error)
	PersonByAttr(ctx context.Context, attr, value string) (*PersonAccount, error)
	SearchPeople(ctx context.Context, searchText string) ([]*PersonAccount, error)

	SearchDelegates(ctx context.Context, searchText string, owner Account) ([]*DelegateAccount, error)
	DelegateByDisplayName(ctx context.Context, name string, owner Account) (*DelegateAccount, error)
	DelegateByUniqueID(ctx context.Context, id string, owner Account) (*DelegateAccount, error)
	DelegateByAttr(ctx context.Context, attr, value string) (*DelegateAccount, error)
}

// searcher is the slice of *ldap.Conn the resolution engine needs.
type searcher interface {
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
}

type LDAPClient struct {
	cfg    config.LDAPConfig
	schema AttributeSchema
	logger zerolog.Logger
	conn   searcher
	close  func()

	personCache *cache.Cache[string, *PersonAccount]
}

func NewLDAPClient(cfg config.LDAPConfig, logger zerolog.Logger) (*LDAPClient, error) {
	l, err := dialLDAPAuto(cfg)
	if err != nil {
		logger.Error().Err(err).Str("url", cfg.URL).Msg("failed to dial LDAP")
		return nil, err
	}
	if cfg.BindDN != "" {
		if err := l.Bind(cfg.BindDN, cfg.BindPassword); err != nil {
			logger.Error().Err(err).Str("bind_dn", cfg.BindDN).Msg("initial bind failed")
			l.Close()
			return nil, err
		}
	}
	return &LDAPClient{
		cfg:         cfg,
		schema:      NewAttributeSchema(cfg),
		logger:      logger,
		conn:        l,
		close:       func() { l.Close() },
		personCache: cache.New[string, *PersonAccount](cfg.CacheTTL),
	}, nil
}

func (l *LDAPClient) Close() {
	if l.close != nil {
		l.close()
	}
}

// BindUser authenticates a person by binding with their credentials on a
// fresh connection, then returns the resolved account.
func (l *LDAPClient) BindUser(ctx context.Context, username, password string) (*PersonAccount, error) {
	person, err := l.PersonByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if person == nil {
		l.logger.Debug().Str("username", username).Msg("user not found for bind")
		return nil, errors.New("user not found")
	}

	userConn, err := dialLDAPAuto(l.cfg)
	if err != nil {
		l.logger.Error().Err(err).Msg("failed to dial LDAP for user bind")
		return nil, err
	}
	defer userConn.Close()
	if err := userConn.Bind(person.DistinguishedName().String(), password); err != nil {
		l.logger.Debug().Err(err).Str("username", username).Msg("user bind failed")
		return nil, err
	}
	return person, nil
}

func (l *LDAPClient) PersonByUsername(ctx context.Context, username string) (*PersonAccount, error) {
	if p, ok := l.personCache.Get(username); ok {
		return p, nil
	}
	p, err := l.lookupPerson(ctx, Eq(l.schema.Username, username))
	if err != nil {
		return nil, err
	}
	if p != nil {
		l.personCache.Set(username, p, time.Now().Add(l.cfg.CacheTTL))
	}
	return p, nil
}

func (l *LDAPClient) PersonByAttr(ctx context.Context, attr, value string) (*PersonAccount, error) {
	return l.lookupPerson(ctx, Eq(safeAttr(attr), value))
}

func (l *LDAPClient) SearchPeople(ctx context.Context, searchText string) ([]*PersonAccount, error) {
	pattern := NormalizeSearchText(searchText)
	filter := And(
		Or(
			Like(l.schema.DisplayName, pattern),
			Like(l.schema.Username, pattern),
			Like(l.schema.Email, pattern),
		),
		Like(l.schema.UniqueID, Wildcard),
	)
	return l.executePeopleSearch(ctx, filter)
}

func (l *LDAPClient) SearchDelegates(ctx context.Context, searchText string, owner Account) ([]*DelegateAccount, error) {
	pattern := NormalizeSearchText(searchText)
	clauses := []Filter{
		Or(
			Like(l.schema.DisplayName, pattern),
			Like(l.schema.Username, pattern),
		),
	}
	clauses = l.appendDelegateConstraints(clauses, owner)
	return l.executeDelegateSearch(ctx, And(clauses...), owner)
}

func (l *LDAPClient) DelegateByDisplayName(ctx context.Context, name string, owner Account) (*DelegateAccount, error) {
	clauses := []Filter{Eq(l.schema.DisplayName, name)}
	clauses = l.appendDelegateConstraints(clauses, owner)
	results, err := l.executeDelegateSearch(ctx, And(clauses...), owner)
	if err != nil {
		return nil, err
	}
	return singleDelegate(results)
}

func (l *LDAPClient) DelegateByUniqueID(ctx context.Context, id string, owner Account) (*DelegateAccount, error) {
	clauses := []Filter{Eq(l.schema.UniqueID, id)}
	if owner != nil && !l.cfg.OwnerAttrIsDN {
		clauses = append(clauses, Eq(l.schema.Owner, owner.Username()))
	}
	if l.cfg.EnforceObjectClass {
		clauses = append(clauses, Eq(objectClassAttr, l.cfg.RequiredObjectClass))
	}
	results, err := l.executeDelegateSearch(ctx, And(clauses...), owner)
	if err != nil {
		return nil, err
	}
	return singleDelegate(results)
}

// DelegateByAttr is the escape hatch for callers needing exact key
// resolution on an unconstrained attribute.
func (l *LDAPClient) DelegateByAttr(ctx context.Context, attr, value string) (*DelegateAccount, error) {
	var filter Filter = Eq(safeAttr(attr), value)
	if l.cfg.EnforceObjectClass {
		filter = And(filter, Eq(objectClassAttr, l.cfg.RequiredObjectClass))
	}
	results, err := l.executeDelegateSearch(ctx, filter, nil)
	if err != nil {
		return nil, err
	}
	return singleDelegate(results)
}

// appendDelegateConstraints adds the clauses shared by the delegate query
// shapes: a unique-id presence assertion, username-based owner scoping
// when the owner attribute is not a DN, and object-class enforcement when
// configured.
func (l *LDAPClient) appendDelegateConstraints(clauses []Filter, owner Account) []Filter {
	clauses = append(clauses, Like(l.schema.UniqueID, Wildcard))
	if owner != nil && !l.cfg.OwnerAttrIsDN {
		clauses = append(clauses, Eq(l.schema.Owner, owner.Username()))
	}
	if l.cfg.EnforceObjectClass {
		clauses = append(clauses, Eq(objectClassAttr, l.cfg.RequiredObjectClass))
	}
	return clauses
}

// executeDelegateSearch runs a built filter against the resource subtree
// and canonicalizes the outcome: entries mapped (bad ones dropped), owner
// DNs enforced when configured, duplicates removed, display-name order
// applied. Size and time limit conditions yield partial results, never an
// error.
func (l *LDAPClient) executeDelegateSearch(ctx context.Context, filter Filter, owner Account) ([]*DelegateAccount, error) {
	entries, err := l.search(ctx, l.cfg.ResourceBaseDN, filter, l.schema.delegateAttrs())
	if err != nil {
		return nil, err
	}

	var results []*DelegateAccount
	for _, e := range entries {
		d, merr := mapDelegate(e, l.schema, owner)
		if merr != nil {
			l.logger.Warn().Err(merr).Str("dn", e.DN).Msg("dropping unmappable resource entry")
			continue
		}
		results = append(results, d)
	}

	if l.cfg.OwnerAttrIsDN && owner != nil {
		if holder, ok := owner.(DistinguishedNameHolder); ok && holder.DistinguishedName() != nil {
			results = enforceOwnerDN(results, holder.DistinguishedName(), l.logger)
		}
	}
	results = dedupeDelegates(results)
	sortDelegates(results)
	return results, nil
}

func (l *LDAPClient) executePeopleSearch(ctx context.Context, filter Filter) ([]*PersonAccount, error) {
	entries, err := l.search(ctx, l.cfg.PeopleBaseDN, filter, l.schema.personAttrs())
	if err != nil {
		return nil, err
	}

	var results []*PersonAccount
	for _, e := range entries {
		p, merr := mapPerson(e, l.schema)
		if merr != nil {
			l.logger.Warn().Err(merr).Str("dn", e.DN).Msg("dropping unmappable person entry")
			continue
		}
		results = append(results, p)
	}
	sortPeople(results)
	return results, nil
}

func (l *LDAPClient) lookupPerson(ctx context.Context, filter Filter) (*PersonAccount, error) {
	results, err := l.executePeopleSearch(ctx, filter)
	if err != nil {
		return nil, err
	}
	return singlePerson(results)
}

// search executes a subtree query under the configured result count and
// time caps. Exceeding either cap is an accepted outcome of deployments
// with large directories: the entries collected so far are returned and
// the condition logged at diagnostic level. Any other fault is a hard
// failure.
func (l *LDAPClient) search(ctx context.Context, baseDN string, filter Filter, attrs []string) ([]*ldap.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req := ldap.NewSearchRequest(
		baseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases,
		l.cfg.SearchResultsLimit, int(l.cfg.SearchTimeLimit.Seconds()), false,
		filter.String(),
		attrs,
		nil,
	)
	res, err := l.conn.Search(req)
	if err != nil {
		switch {
		case ldap.IsErrorWithCode(err, ldap.LDAPResultSizeLimitExceeded):
			l.logger.Debug().
				Str("filter", filter.String()).
				Int("size_limit", l.cfg.SearchResultsLimit).
				Msg("search exceeded size limit, returning partial results")
		case ldap.IsErrorWithCode(err, ldap.LDAPResultTimeLimitExceeded):
			l.logger.Debug().
				Str("filter", filter.String()).
				Dur("time_limit", l.cfg.SearchTimeLimit).
				Msg("search exceeded time limit, returning partial results")
		default:
			l.logger.Error().Err(err).
				Str("base_dn", baseDN).
				Str("filter", filter.String()).
				Msg("LDAP search failed")
			return nil, fmt.Errorf("ldap search %s: %w", filter, err)
		}
	}
	if res == nil {
		return nil, nil
	}
	l.logger.Debug().
		Str("filter", filter.String()).
		Int("entries", len(res.Entries)).
		Msg("search completed")
	return res.Entries, nil
}

// safeAttr keeps caller-supplied attribute names to the directory
// attribute-name alphabet.
func safeAttr(a string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return -1
	}, a)
}
