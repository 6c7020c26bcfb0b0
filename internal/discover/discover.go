// Package discover locates the public certificate published for a Direct
// endpoint address.
//
// The Direct trust framework publishes certificates two ways: as DNS CERT
// records bound to the address or its domain, and in LDAP directories
// advertised through DNS SRV records. Discovery tries DNS first and falls
// back to LDAP, reporting which transport produced the certificate.
package discover

import (
	"context"
	"crypto/x509"
	"log/slog"
	"strings"
	"time"
)

// Retrieval methods reported by Discover.
const (
	MethodDNS  = "DNS"
	MethodLDAP = "LDAP"
)

// Client performs certificate discovery. It satisfies the dispatcher's
// CertDiscoverer capability.
type Client struct {
	dns  *DNSLookup
	ldap *LDAPLookup
	log  *slog.Logger
}

// NewClient wires the DNS and LDAP lookups behind one discovery client.
func NewClient(dns *DNSLookup, ldap *LDAPLookup, log *slog.Logger) *Client {
	return &Client{dns: dns, ldap: ldap, log: log}
}

// Discover looks up the certificate for address, trying DNS CERT records
// first and then LDAP. An ordinary miss is (false, "", nil); lookup
// failures on either transport degrade to a miss as well, so a single
// unreachable directory does not end the run. Only caller cancellation
// surfaces as an error.
func (c *Client) Discover(ctx context.Context, address string, verifyChain bool) (bool, string, error) {
	cert, err := c.dns.Lookup(ctx, address)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, "", ctxErr
		}
		c.log.Debug("dns certificate lookup failed", "endpoint", address, "error", err)
	}
	if c.usable(cert, verifyChain, address) {
		return true, MethodDNS, nil
	}

	cert, err = c.ldap.Lookup(ctx, address)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, "", ctxErr
		}
		c.log.Debug("ldap certificate lookup failed", "endpoint", address, "error", err)
	}
	if c.usable(cert, verifyChain, address) {
		return true, MethodLDAP, nil
	}

	return false, "", nil
}

// usable reports whether a discovered certificate is currently within its
// validity window, and when verifyChain is set, whether it chains to a
// trusted root. Chain verification is disabled for normal pipeline runs.
func (c *Client) usable(cert *x509.Certificate, verifyChain bool, address string) bool {
	if cert == nil {
		return false
	}
	now := time.Now()
	if now.Before(cert.NotBefore) || now.After(cert.NotAfter) {
		c.log.Debug("discovered certificate outside validity window",
			"endpoint", address, "not_before", cert.NotBefore, "not_after", cert.NotAfter)
		return false
	}
	if verifyChain {
		if _, err := cert.Verify(x509.VerifyOptions{}); err != nil {
			c.log.Debug("certificate chain verification failed", "endpoint", address, "error", err)
			return false
		}
	}
	return true
}

// splitAddress separates a Direct address into its local part and domain.
// An address without '@' is treated as a bare domain.
func splitAddress(address string) (local, domain string) {
	if i := strings.LastIndex(address, "@"); i >= 0 {
		return address[:i], address[i+1:]
	}
	return "", address
}
