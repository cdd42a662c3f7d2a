package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttributesSingleValue(t *testing.T) {
	attrs := Attributes{
		"uid":         {"r100"},
		"displayName": {"Room A", "Room A (old)"},
		"mail":        {},
	}

	t.Run("exactly one value is returned", func(t *testing.T) {
		assert.Equal(t, "r100", attrs.SingleValue("uid"))
	})

	t.Run("multiple values yield absent, never a guess", func(t *testing.T) {
		assert.Empty(t, attrs.SingleValue("displayName"))
	})

	t.Run("zero values yield absent", func(t *testing.T) {
		assert.Empty(t, attrs.SingleValue("mail"))
		assert.Empty(t, attrs.SingleValue("missing"))
	})
}

func TestAttributesHas(t *testing.T) {
	attrs := Attributes{"uid": {"r100"}, "empty": {}}
	assert.True(t, attrs.Has("uid"))
	assert.False(t, attrs.Has("empty"))
	assert.False(t, attrs.Has("missing"))
}

func TestSchemaEligible(t *testing.T) {
	schema := AttributeSchema{
		EligibilityAttr:  "calendarEligible",
		EligibilityValue: "TRUE",
	}

	t.Run("value match", func(t *testing.T) {
		assert.True(t, schema.Eligible(Attributes{"calendarEligible": {"TRUE"}}))
		assert.False(t, schema.Eligible(Attributes{"calendarEligible": {"FALSE"}}))
		assert.False(t, schema.Eligible(Attributes{}))
	})

	t.Run("value match scans multi-valued attributes", func(t *testing.T) {
		assert.True(t, schema.Eligible(Attributes{"calendarEligible": {"FALSE", "TRUE"}}))
	})

	t.Run("presence rule", func(t *testing.T) {
		presence := schema
		presence.EligibilityValue = EligibilityPresence
		assert.True(t, presence.Eligible(Attributes{"calendarEligible": {"anything"}}))
		assert.False(t, presence.Eligible(Attributes{}))
	})

	t.Run("pure over identical input", func(t *testing.T) {
		attrs := Attributes{"calendarEligible": {"TRUE"}}
		first := schema.Eligible(attrs)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, schema.Eligible(attrs))
		}
	})
}
