package discover

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
)

// certificateAttributes are the directory attributes that may carry the
// endpoint certificate, in preference order.
var certificateAttributes = []string{
	"userCertificate;binary",
	"userSMIMECertificate;binary",
	"userCertificate",
}

// LDAPLookup retrieves Direct certificates from LDAP directories located
// through _ldap._tcp SRV records on the address's domain.
type LDAPLookup struct {
	timeout time.Duration
}

// NewLDAPLookup builds a lookup whose dial, bind and search operations
// are each bounded by timeout.
func NewLDAPLookup(timeout time.Duration) *LDAPLookup {
	return &LDAPLookup{timeout: timeout}
}

// Lookup finds the certificate published for address. A domain without
// SRV records, or directories that hold no matching entry, is an ordinary
// miss (nil, nil). When every advertised directory fails to answer, the
// last failure is returned.
func (l *LDAPLookup) Lookup(ctx context.Context, address string) (*x509.Certificate, error) {
	_, domain := splitAddress(address)
	if domain == "" {
		return nil, nil
	}

	_, srvs, err := net.DefaultResolver.LookupSRV(ctx, "ldap", "tcp", domain)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("SRV lookup for %s: %w", domain, err)
	}

	// LookupSRV returns targets ordered by priority and weight.
	var lastErr error
	for _, srv := range srvs {
		host := strings.TrimSuffix(srv.Target, ".")
		if host == "" {
			continue
		}
		cert, err := l.searchHost(ctx, host, srv.Port, address)
		if err != nil {
			lastErr = err
			continue
		}
		if cert != nil {
			return cert, nil
		}
	}
	return nil, lastErr
}

// searchHost anonymously searches one directory server for the address's
// certificate, scanning every naming context it advertises.
func (l *LDAPLookup) searchHost(ctx context.Context, host string, port uint16, address string) (*x509.Certificate, error) {
	url := fmt.Sprintf("ldap://%s:%d", host, port)
	conn, err := ldap.DialURL(url, ldap.DialWithDialer(&net.Dialer{Timeout: l.timeout}))
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	defer conn.Close()
	conn.SetTimeout(l.timeout)

	if err := conn.UnauthenticatedBind(""); err != nil {
		return nil, fmt.Errorf("anonymous bind to %s: %w", url, err)
	}

	bases, err := namingContexts(conn)
	if err != nil {
		return nil, fmt.Errorf("reading naming contexts from %s: %w", url, err)
	}

	filter := fmt.Sprintf("(mail=%s)", ldap.EscapeFilter(address))
	for _, base := range bases {
		req := ldap.NewSearchRequest(
			base,
			ldap.ScopeWholeSubtree,
			ldap.NeverDerefAliases,
			0, 0, false,
			filter,
			certificateAttributes,
			nil,
		)
		res, err := conn.Search(req)
		if err != nil {
			if ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject) {
				continue
			}
			return nil, fmt.Errorf("searching %s under %q: %w", url, base, err)
		}
		if cert := firstCertificate(res.Entries); cert != nil {
			return cert, nil
		}
	}
	return nil, nil
}

// namingContexts reads the search bases a server advertises in its root
// DSE. A server that advertises none is searched from the empty base.
func namingContexts(conn *ldap.Conn) ([]string, error) {
	req := ldap.NewSearchRequest(
		"",
		ldap.ScopeBaseObject,
		ldap.NeverDerefAliases,
		0, 0, false,
		"(objectClass=*)",
		[]string{"namingContexts"},
		nil,
	)
	res, err := conn.Search(req)
	if err != nil {
		return nil, err
	}
	for _, entry := range res.Entries {
		if values := entry.GetAttributeValues("namingContexts"); len(values) > 0 {
			return values, nil
		}
	}
	return []string{""}, nil
}

// firstCertificate returns the first parsable certificate carried by any
// entry's certificate attributes.
func firstCertificate(entries []*ldap.Entry) *x509.Certificate {
	for _, entry := range entries {
		for _, attr := range certificateAttributes {
			for _, raw := range entry.GetRawAttributeValues(attr) {
				cert, err := x509.ParseCertificate(raw)
				if err != nil {
					continue
				}
				return cert
			}
		}
	}
	return nil
}
