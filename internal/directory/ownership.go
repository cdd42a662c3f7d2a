package directory

import (
	"github.com/go-ldap/ldap/v3"
	"github.com/rs/zerolog"
)

// enforceOwnerDN removes delegates whose owner-link attribute is absent or
// does not parse to the desired owner's distinguished name. Comparison is
// structural and case-insensitive; the directory stores the link as free
// text the query layer cannot filter on with full fidelity, so this is a
// correctness backstop, not an optimization.
func enforceOwnerDN(delegates []*DelegateAccount, ownerDN *ldap.DN, logger zerolog.Logger) []*DelegateAccount {
	kept := delegates[:0]
	for _, d := range delegates {
		raw := d.OwnerAttr()
		if raw == "" {
			logger.Debug().
				Str("unique_id", d.UniqueID()).
				Msg("delegate has no owner attribute, removed")
			continue
		}
		dn, err := ldap.ParseDN(raw)
		if err != nil {
			logger.Debug().
				Err(err).
				Str("unique_id", d.UniqueID()).
				Str("owner_attr", raw).
				Msg("delegate owner attribute is not a valid dn, removed")
			continue
		}
		if !ownerDN.EqualFold(dn) {
			logger.Debug().
				Str("unique_id", d.UniqueID()).
				Str("owner_attr", raw).
				Str("desired_owner", ownerDN.String()).
				Msg("delegate owner does not match desired owner, removed")
			continue
		}
		kept = append(kept, d)
	}
	return kept
}
