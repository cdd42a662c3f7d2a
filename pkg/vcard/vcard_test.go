package vcard

import (
	"bytes"
	"testing"

	"github.com/manosbatsis/bw-sometime/internal/directory"

	govcard "github.com/emersion/go-vcard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() directory.AttributeSchema {
	return directory.AttributeSchema{
		UniqueID:         "calendarUniqueId",
		DisplayName:      "displayName",
		Username:         "uid",
		Email:            "mail",
		Location:         "roomNumber",
		ContactInfo:      "telephoneNumber",
		EligibilityAttr:  "calendarEligible",
		EligibilityValue: directory.EligibilityPresence,
	}
}

func decode(t *testing.T, data []byte) govcard.Card {
	t.Helper()
	card, err := govcard.NewDecoder(bytes.NewReader(data)).Decode()
	require.NoError(t, err)
	return card
}

func TestFromAccountPerson(t *testing.T) {
	person := directory.NewPersonAccount(directory.Attributes{
		"calendarUniqueId": {"u100"},
		"displayName":      {"Jane Doe"},
		"uid":              {"jdoe"},
		"mail":             {"jdoe@example.org"},
	}, testSchema(), nil)

	data, err := FromAccount(person)
	require.NoError(t, err)

	card := decode(t, data)
	assert.Equal(t, "Jane Doe", card.Value(govcard.FieldFormattedName))
	assert.Equal(t, "u100", card.Value(govcard.FieldUID))
	assert.Equal(t, "jdoe@example.org", card.Value(govcard.FieldEmail))
	assert.Equal(t, "individual", card.Value(govcard.FieldKind))
}

func TestFromAccountDelegate(t *testing.T) {
	delegate := directory.NewDelegateAccount(directory.Attributes{
		"calendarUniqueId": {"r200"},
		"displayName":      {"Room A"},
		"roomNumber":       {"B-201"},
		"telephoneNumber":  {"555-0100"},
	}, testSchema(), nil)

	data, err := FromAccount(delegate)
	require.NoError(t, err)

	card := decode(t, data)
	assert.Equal(t, "Room A", card.Value(govcard.FieldFormattedName))
	assert.Equal(t, "location", card.Value(govcard.FieldKind))
	assert.Equal(t, "B-201", card.Value(govcard.FieldAddress))
	assert.Equal(t, "555-0100", card.Value(govcard.FieldTelephone))
}

func TestFromAccountFallbacks(t *testing.T) {
	t.Run("username stands in for display name", func(t *testing.T) {
		person := directory.NewPersonAccount(directory.Attributes{
			"calendarUniqueId": {"u101"},
			"uid":              {"jdoe"},
		}, testSchema(), nil)

		data, err := FromAccount(person)
		require.NoError(t, err)
		assert.Equal(t, "jdoe", decode(t, data).Value(govcard.FieldFormattedName))
	})

	t.Run("missing unique id gets a generated uid", func(t *testing.T) {
		person := directory.NewPersonAccount(directory.Attributes{
			"displayName": {"Jane Doe"},
		}, testSchema(), nil)

		data, err := FromAccount(person)
		require.NoError(t, err)
		assert.NotEmpty(t, decode(t, data).Value(govcard.FieldUID))
	})

	t.Run("nameless account is rejected", func(t *testing.T) {
		person := directory.NewPersonAccount(directory.Attributes{
			"calendarUniqueId": {"u102"},
		}, testSchema(), nil)

		_, err := FromAccount(person)
		assert.Error(t, err)
	})

	t.Run("nil account is rejected", func(t *testing.T) {
		_, err := FromAccount(nil)
		assert.Error(t, err)
	})
}
