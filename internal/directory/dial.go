package directory

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/manosbatsis/bw-sometime/internal/config"

	"github.com/go-ldap/ldap/v3"
)

func dialLDAPAuto(cfg config.LDAPConfig) (*ldap.Conn, error) {
	u := strings.TrimSpace(cfg.URL)
	if u == "" {
		return nil, errors.New("LDAP URL is empty")
	}

	isLDAPS := strings.HasPrefix(strings.ToLower(u), "ldaps://")
	isLDAP := strings.HasPrefix(strings.ToLower(u), "ldap://")

	if !isLDAP && !isLDAPS {
		return nil, errors.New("URL must start with ldap:// or ldaps://")
	}

	if isLDAPS {
		tlsConfig := &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		}
		hostPort := strings.TrimPrefix(u, "ldaps://")
		if host, _, err := net.SplitHostPort(hostPort); err == nil && host != "" {
			tlsConfig.ServerName = host
		} else {
			tlsConfig.ServerName = hostPort
		}
		return ldap.DialURL(u, ldap.DialWithTLSConfig(tlsConfig))
	}

	conn, err := ldap.DialURL(u)
	if err != nil {
		return nil, err
	}

	if cfg.RequireTLS {
		tlsConfig := &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		}
		hostPort := strings.TrimPrefix(u, "ldap://")
		if host, _, err := net.SplitHostPort(hostPort); err == nil && host != "" {
			tlsConfig.ServerName = host
		} else {
			tlsConfig.ServerName = hostPort
		}
		if err := conn.StartTLS(tlsConfig); err != nil {
			conn.Close()
			return nil, fmt.Errorf("StartTLS failed: %w", err)
		}
	}

	return conn, nil
}
