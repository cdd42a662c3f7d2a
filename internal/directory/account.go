package directory

import (
	"github.com/go-ldap/ldap/v3"
)

// Account is the shared contract for directory-resolved calendar accounts.
// Accounts are immutable value objects, constructed fresh on every search;
// the typed fields are a projection of the raw attributes computed once at
// construction and never re-derived.
type Account interface {
	UniqueID() string
	DisplayName() string
	Username() string
	Email() string
	Eligible() bool
	IsDelegate() bool

	Attributes() Attributes
	// AttributeValue applies the single-value-or-absent policy.
	AttributeValue(name string) string
	AttributeValues(name string) []string
}

// DistinguishedNameHolder is the capability of exposing a canonical
// directory identity. Owner accounts that implement it participate in
// DN-based ownership enforcement.
type DistinguishedNameHolder interface {
	DistinguishedName() *ldap.DN
}

// AccountKey is the comparable projection of the fields account equality
// is defined over. Two accounts are equal iff their keys match, regardless
// of variant.
type AccountKey struct {
	UniqueID    string
	DisplayName string
	Username    string
	Email       string
	Eligible    bool
}

type accountFields struct {
	uniqueID    string
	displayName string
	username    string
	email       string
	eligible    bool
	attrs       Attributes
}

func newAccountFields(attrs Attributes, schema AttributeSchema) accountFields {
	return accountFields{
		uniqueID:    attrs.SingleValue(schema.UniqueID),
		displayName: attrs.SingleValue(schema.DisplayName),
		username:    attrs.SingleValue(schema.Username),
		email:       attrs.SingleValue(schema.Email),
		eligible:    schema.Eligible(attrs),
		attrs:       attrs,
	}
}

func (f accountFields) UniqueID() string                    { return f.uniqueID }
func (f accountFields) DisplayName() string                 { return f.displayName }
func (f accountFields) Username() string                    { return f.username }
func (f accountFields) Email() string                       { return f.email }
func (f accountFields) Eligible() bool                      { return f.eligible }
func (f accountFields) Attributes() Attributes              { return f.attrs }
func (f accountFields) AttributeValue(name string) string   { return f.attrs.SingleValue(name) }
func (f accountFields) AttributeValues(name string) []string { return f.attrs.Values(name) }

// Key returns the equality projection for an account.
func Key(a Account) AccountKey {
	return AccountKey{
		UniqueID:    a.UniqueID(),
		DisplayName: a.DisplayName(),
		Username:    a.Username(),
		Email:       a.Email(),
		Eligible:    a.Eligible(),
	}
}

// Equal reports account equality over (unique id, display name, eligible,
// email, username), independent of variant.
func Equal(a, b Account) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Key(a) == Key(b)
}

// PersonAccount is a person sourced from the directory. It carries the
// entry's distinguished name for ownership matching; the DN is never part
// of the displayed projection.
type PersonAccount struct {
	accountFields
	dn *ldap.DN
}

// NewPersonAccount projects a raw attribute record into a person account.
// The record is the authoritative source; fields are computed here once.
func NewPersonAccount(attrs Attributes, schema AttributeSchema, dn *ldap.DN) *PersonAccount {
	return &PersonAccount{
		accountFields: newAccountFields(attrs, schema),
		dn:            dn,
	}
}

func (p *PersonAccount) IsDelegate() bool { return false }

func (p *PersonAccount) DistinguishedName() *ldap.DN { return p.dn }

// DelegateAccount is a resource or shared-calendar proxy entry, optionally
// linked to an owning person account.
type DelegateAccount struct {
	accountFields
	location    string
	contactInfo string
	ownerAttr   string
	owner       Account
}

// NewDelegateAccount projects a raw attribute record into a delegate
// account. The owner back-reference is populated only when the caller
// supplied an owner context.
func NewDelegateAccount(attrs Attributes, schema AttributeSchema, owner Account) *DelegateAccount {
	return &DelegateAccount{
		accountFields: newAccountFields(attrs, schema),
		location:      attrs.SingleValue(schema.Location),
		contactInfo:   attrs.SingleValue(schema.ContactInfo),
		ownerAttr:     attrs.SingleValue(schema.Owner),
		owner:         owner,
	}
}

func (d *DelegateAccount) IsDelegate() bool { return true }

func (d *DelegateAccount) Location() string    { return d.location }
func (d *DelegateAccount) ContactInfo() string { return d.contactInfo }

// Owner returns the owning account supplied as search context, nil when
// the search was not owner-scoped.
func (d *DelegateAccount) Owner() Account { return d.owner }

// OwnerAttr returns the raw owner-link attribute value as stored in the
// directory: either a distinguished name or an opaque username, depending
// on deployment configuration.
func (d *DelegateAccount) OwnerAttr() string { return d.ownerAttr }
