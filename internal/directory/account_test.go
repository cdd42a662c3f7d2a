package directory

import (
	"testing"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() AttributeSchema {
	return AttributeSchema{
		UniqueID:         "calendarUniqueId",
		DisplayName:      "displayName",
		Username:         "uid",
		Email:            "mail",
		Owner:            "calendarResourceOwner",
		Location:         "roomNumber",
		ContactInfo:      "telephoneNumber",
		EligibilityAttr:  "calendarEligible",
		EligibilityValue: EligibilityPresence,
	}
}

func personAttrsFixture() Attributes {
	return Attributes{
		"calendarUniqueId": {"u100"},
		"displayName":      {"Jane Doe"},
		"uid":              {"jdoe"},
		"mail":             {"jdoe@example.org"},
		"calendarEligible": {"TRUE"},
	}
}

func TestPersonAccountProjection(t *testing.T) {
	dn, err := ldap.ParseDN("cn=Jane Doe,ou=people,o=isp")
	require.NoError(t, err)

	p := NewPersonAccount(personAttrsFixture(), testSchema(), dn)
	assert.Equal(t, "u100", p.UniqueID())
	assert.Equal(t, "Jane Doe", p.DisplayName())
	assert.Equal(t, "jdoe", p.Username())
	assert.Equal(t, "jdoe@example.org", p.Email())
	assert.True(t, p.Eligible())
	assert.False(t, p.IsDelegate())
	assert.Equal(t, dn, p.DistinguishedName())
}

func TestDelegateAccountProjection(t *testing.T) {
	attrs := Attributes{
		"calendarUniqueId":      {"r200"},
		"displayName":           {"Room A"},
		"uid":                   {"room-a"},
		"calendarEligible":      {"TRUE"},
		"calendarResourceOwner": {"cn=Jane Doe,ou=people,o=isp"},
		"roomNumber":            {"B-201"},
		"telephoneNumber":       {"555-0100"},
	}
	owner := NewPersonAccount(personAttrsFixture(), testSchema(), nil)

	d := NewDelegateAccount(attrs, testSchema(), owner)
	assert.Equal(t, "r200", d.UniqueID())
	assert.Equal(t, "Room A", d.DisplayName())
	assert.True(t, d.IsDelegate())
	assert.Equal(t, "B-201", d.Location())
	assert.Equal(t, "555-0100", d.ContactInfo())
	assert.Equal(t, "cn=Jane Doe,ou=people,o=isp", d.OwnerAttr())
	assert.Same(t, owner, d.Owner().(*PersonAccount))
}

func TestAccountEquality(t *testing.T) {
	schema := testSchema()

	t.Run("equal across variants", func(t *testing.T) {
		attrs := personAttrsFixture()
		p := NewPersonAccount(attrs, schema, nil)
		d := NewDelegateAccount(attrs, schema, nil)
		assert.True(t, Equal(p, d))
		assert.Equal(t, Key(p), Key(d))
	})

	t.Run("any identity field difference breaks equality", func(t *testing.T) {
		base := NewPersonAccount(personAttrsFixture(), schema, nil)
		for attr, other := range map[string]string{
			"calendarUniqueId": "u999",
			"displayName":      "Someone Else",
			"uid":              "other",
			"mail":             "other@example.org",
		} {
			attrs := personAttrsFixture()
			attrs[attr] = []string{other}
			assert.False(t, Equal(base, NewPersonAccount(attrs, schema, nil)), attr)
		}
	})

	t.Run("eligibility is part of identity", func(t *testing.T) {
		attrs := personAttrsFixture()
		delete(attrs, "calendarEligible")
		assert.False(t, Equal(
			NewPersonAccount(personAttrsFixture(), schema, nil),
			NewPersonAccount(attrs, schema, nil),
		))
	})

	t.Run("extra attributes outside identity are ignored", func(t *testing.T) {
		attrs := personAttrsFixture()
		attrs["departmentNumber"] = []string{"42"}
		assert.True(t, Equal(
			NewPersonAccount(personAttrsFixture(), schema, nil),
			NewPersonAccount(attrs, schema, nil),
		))
	})

	t.Run("nil handling", func(t *testing.T) {
		p := NewPersonAccount(personAttrsFixture(), schema, nil)
		assert.True(t, Equal(nil, nil))
		assert.False(t, Equal(p, nil))
		assert.False(t, Equal(nil, p))
	})
}

func TestAccountAttributeAccess(t *testing.T) {
	attrs := personAttrsFixture()
	attrs["memberOf"] = []string{"staff", "faculty"}
	p := NewPersonAccount(attrs, testSchema(), nil)

	assert.Equal(t, []string{"staff", "faculty"}, p.AttributeValues("memberOf"))
	assert.Empty(t, p.AttributeValue("memberOf"))
	assert.Equal(t, "jdoe", p.AttributeValue("uid"))
}
