package directory

import (
	"github.com/manosbatsis/bw-sometime/internal/config"
)

// Attributes is the raw record returned for a directory entry: attribute
// name to ordered list of values. Directory attributes are multi-valued;
// every projection to a single value goes through SingleValue.
type Attributes map[string][]string

// Values returns all values for the named attribute, nil when absent.
func (a Attributes) Values(name string) []string {
	return a[name]
}

// SingleValue returns the attribute's value when exactly one exists.
// Zero values or more than one yields the empty string; we never guess
// among multiple values, directory data quality varies too much for that.
func (a Attributes) SingleValue(name string) string {
	vals := a[name]
	if len(vals) == 1 {
		return vals[0]
	}
	return ""
}

// Has reports whether the attribute is present with at least one value.
func (a Attributes) Has(name string) bool {
	return len(a[name]) > 0
}

// EligibilityPresence as the configured eligibility value means a bare
// occurrence of the attribute marks the account eligible.
const EligibilityPresence = "*"

// AttributeSchema maps the logical account fields to directory attribute
// names. Read-only after construction, safe to share across searches.
type AttributeSchema struct {
	UniqueID    string
	DisplayName string
	Username    string
	Email       string
	Owner       string
	Location    string
	ContactInfo string

	EligibilityAttr  string
	EligibilityValue string
}

func NewAttributeSchema(cfg config.LDAPConfig) AttributeSchema {
	return AttributeSchema{
		UniqueID:         cfg.UniqueIDAttr,
		DisplayName:      cfg.DisplayNameAttr,
		Username:         cfg.UsernameAttr,
		Email:            cfg.EmailAttr,
		Owner:            cfg.OwnerAttr,
		Location:         cfg.LocationAttr,
		ContactInfo:      cfg.ContactInfoAttr,
		EligibilityAttr:  cfg.EligibilityAttr,
		EligibilityValue: cfg.EligibilityValue,
	}
}

// Eligible evaluates the eligibility rule over the full raw record. Pure:
// identical input always yields identical output.
func (s AttributeSchema) Eligible(attrs Attributes) bool {
	if s.EligibilityAttr == "" {
		return false
	}
	vals := attrs.Values(s.EligibilityAttr)
	if s.EligibilityValue == EligibilityPresence {
		return len(vals) > 0
	}
	for _, v := range vals {
		if v == s.EligibilityValue {
			return true
		}
	}
	return false
}

func (s AttributeSchema) personAttrs() []string {
	return []string{
		s.UniqueID, s.DisplayName, s.Username, s.Email, s.EligibilityAttr,
	}
}

func (s AttributeSchema) delegateAttrs() []string {
	return append(s.personAttrs(),
		s.Owner, s.Location, s.ContactInfo,
	)
}
