package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "/api", cfg.HTTP.BasePath)

	assert.Equal(t, "ou=people,o=isp", cfg.LDAP.PeopleBaseDN)
	assert.Equal(t, "o=isp", cfg.LDAP.ResourceBaseDN)
	assert.Equal(t, 25, cfg.LDAP.SearchResultsLimit)
	assert.Equal(t, 10*time.Second, cfg.LDAP.SearchTimeLimit)
	assert.True(t, cfg.LDAP.OwnerAttrIsDN)
	assert.False(t, cfg.LDAP.EnforceObjectClass)
	assert.Equal(t, "calendarUniqueId", cfg.LDAP.UniqueIDAttr)
	assert.Equal(t, "calendarEligible", cfg.LDAP.EligibilityAttr)
	assert.Equal(t, "*", cfg.LDAP.EligibilityValue)
	assert.Equal(t, "uid", cfg.LDAP.IdentifyingAttr)

	assert.Equal(t, "postgres", cfg.Storage.Type)
	assert.Equal(t, time.Minute, cfg.Reminder.DispatchInterval)
	assert.Equal(t, 30*24*time.Hour, cfg.Reminder.ExpansionWindow)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LDAP_SEARCH_RESULTS_LIMIT", "100")
	t.Setenv("LDAP_SEARCH_TIME_LIMIT", "30s")
	t.Setenv("LDAP_OWNER_ATTR_IS_DN", "false")
	t.Setenv("LDAP_ENFORCE_OBJECT_CLASS", "true")
	t.Setenv("LDAP_ELIGIBILITY_VALUE", "TRUE")
	t.Setenv("STORAGE_TYPE", "sqlite")
	t.Setenv("REMINDER_EXPANSION_WINDOW", "168h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.LDAP.SearchResultsLimit)
	assert.Equal(t, 30*time.Second, cfg.LDAP.SearchTimeLimit)
	assert.False(t, cfg.LDAP.OwnerAttrIsDN)
	assert.True(t, cfg.LDAP.EnforceObjectClass)
	assert.Equal(t, "TRUE", cfg.LDAP.EligibilityValue)
	assert.Equal(t, "sqlite", cfg.Storage.Type)
	assert.Equal(t, 7*24*time.Hour, cfg.Reminder.ExpansionWindow)
}

func TestLoadIgnoresUnparseableValues(t *testing.T) {
	t.Setenv("LDAP_SEARCH_RESULTS_LIMIT", "lots")
	t.Setenv("LDAP_SEARCH_TIME_LIMIT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.LDAP.SearchResultsLimit)
	assert.Equal(t, 10*time.Second, cfg.LDAP.SearchTimeLimit)
}

func TestBuildProdID(t *testing.T) {
	cfg := ICSConfig{CompanyName: "Bedework", ProductName: "Sometime", Version: "1.0.0", Language: "EN"}
	assert.Equal(t, "-//Bedework//Sometime 1.0.0//EN", cfg.BuildProdID())

	cfg.Version = ""
	assert.Equal(t, "-//Bedework//Sometime//EN", cfg.BuildProdID())
}
