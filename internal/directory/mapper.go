package directory

import (
	"fmt"

	"github.com/go-ldap/ldap/v3"
)

// entryAttributes copies a directory entry's attribute set into an
// Attributes record. The copy keeps mapped accounts independent of the
// entry buffers the client library reuses.
func entryAttributes(e *ldap.Entry) Attributes {
	attrs := make(Attributes, len(e.Attributes))
	for _, a := range e.Attributes {
		vals := make([]string, len(a.Values))
		copy(vals, a.Values)
		attrs[a.Name] = vals
	}
	return attrs
}

// mapPerson projects a directory entry into a PersonAccount. The entry DN
// is parsed for later ownership matching; a malformed DN is a mapping
// fault and fails this entry only.
func mapPerson(e *ldap.Entry, schema AttributeSchema) (*PersonAccount, error) {
	dn, err := ldap.ParseDN(e.DN)
	if err != nil {
		return nil, fmt.Errorf("malformed entry dn %q: %w", e.DN, err)
	}
	return NewPersonAccount(entryAttributes(e), schema, dn), nil
}

// mapDelegate projects a directory entry into a DelegateAccount, carrying
// through the owner context when the caller supplied one.
func mapDelegate(e *ldap.Entry, schema AttributeSchema, owner Account) (*DelegateAccount, error) {
	return NewDelegateAccount(entryAttributes(e), schema, owner), nil
}
