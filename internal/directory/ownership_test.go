package directory

import (
	"testing"

	"github.com/go-ldap/ldap/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func delegateWithOwnerAttr(t *testing.T, id, ownerAttr string) *DelegateAccount {
	t.Helper()
	attrs := Attributes{
		"calendarUniqueId": {id},
		"displayName":      {id},
	}
	if ownerAttr != "" {
		attrs["calendarResourceOwner"] = []string{ownerAttr}
	}
	return NewDelegateAccount(attrs, testSchema(), nil)
}

func TestEnforceOwnerDN(t *testing.T) {
	ownerDN, err := ldap.ParseDN("cn=Jane Doe,ou=people,o=isp")
	require.NoError(t, err)
	logger := zerolog.Nop()

	t.Run("keeps exact match", func(t *testing.T) {
		in := []*DelegateAccount{delegateWithOwnerAttr(t, "r1", "cn=Jane Doe,ou=people,o=isp")}
		out := enforceOwnerDN(in, ownerDN, logger)
		require.Len(t, out, 1)
		assert.Equal(t, "r1", out[0].UniqueID())
	})

	t.Run("dn comparison is case-insensitive and structural", func(t *testing.T) {
		in := []*DelegateAccount{
			delegateWithOwnerAttr(t, "r1", "cn=Jane Doe,ou=People,O=ISP"),
			delegateWithOwnerAttr(t, "r2", "CN=jane doe, ou=people, o=isp"),
		}
		out := enforceOwnerDN(in, ownerDN, logger)
		assert.Len(t, out, 2)
	})

	t.Run("removes mismatched owner", func(t *testing.T) {
		in := []*DelegateAccount{
			delegateWithOwnerAttr(t, "r1", "cn=Jane Doe,ou=people,o=isp"),
			delegateWithOwnerAttr(t, "r2", "cn=John Smith,ou=people,o=isp"),
		}
		out := enforceOwnerDN(in, ownerDN, logger)
		require.Len(t, out, 1)
		assert.Equal(t, "r1", out[0].UniqueID())
	})

	t.Run("removes absent owner attribute", func(t *testing.T) {
		in := []*DelegateAccount{delegateWithOwnerAttr(t, "r1", "")}
		assert.Empty(t, enforceOwnerDN(in, ownerDN, logger))
	})

	t.Run("removes unparseable owner attribute", func(t *testing.T) {
		in := []*DelegateAccount{delegateWithOwnerAttr(t, "r1", "jdoe")}
		assert.Empty(t, enforceOwnerDN(in, ownerDN, logger))
	})
}
