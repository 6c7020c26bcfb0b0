package discover

import (
	"context"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"
)

// defaultResolvConf is consulted when no resolver address is configured.
const defaultResolvConf = "/etc/resolv.conf"

// DNSLookup retrieves Direct certificates published as DNS CERT records.
type DNSLookup struct {
	client   *dns.Client
	resolver string // host:port
}

// NewDNSLookup builds a lookup against the given resolver address
// ("host" or "host:port"). An empty resolver falls back to the first
// nameserver in /etc/resolv.conf.
func NewDNSLookup(resolver string, timeout time.Duration) (*DNSLookup, error) {
	if resolver == "" {
		conf, err := dns.ClientConfigFromFile(defaultResolvConf)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", defaultResolvConf, err)
		}
		if len(conf.Servers) == 0 {
			return nil, fmt.Errorf("%s lists no nameservers", defaultResolvConf)
		}
		resolver = net.JoinHostPort(conf.Servers[0], conf.Port)
	} else if _, _, err := net.SplitHostPort(resolver); err != nil {
		resolver = net.JoinHostPort(resolver, "53")
	}

	return &DNSLookup{
		client:   &dns.Client{Timeout: timeout},
		resolver: resolver,
	}, nil
}

// Lookup queries CERT records for the address-bound owner name first
// (local part joined to the domain with a dot, per the Direct spec), then
// the domain-bound name. It returns the first parsable PKIX certificate,
// or nil when neither name publishes one.
func (l *DNSLookup) Lookup(ctx context.Context, address string) (*x509.Certificate, error) {
	var lastErr error
	for _, name := range certOwnerNames(address) {
		cert, err := l.queryCert(ctx, name)
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

func (l *DNSLookup) queryCert(ctx context.Context, name string) (*x509.Certificate, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), dns.TypeCERT)

	in, _, err := l.client.ExchangeContext(ctx, m, l.resolver)
	if err != nil {
		return nil, fmt.Errorf("CERT query for %s: %w", name, err)
	}
	switch in.Rcode {
	case dns.RcodeSuccess:
	case dns.RcodeNameError:
		// NXDOMAIN is an ordinary miss.
		return nil, nil
	default:
		return nil, fmt.Errorf("CERT query for %s: rcode %s", name, dns.RcodeToString[in.Rcode])
	}

	for _, rr := range in.Answer {
		certRR, ok := rr.(*dns.CERT)
		if !ok || certRR.Type != dns.CertPKIX {
			continue
		}
		der, err := base64.StdEncoding.DecodeString(certRR.Certificate)
		if err != nil {
			continue
		}
		cert, err := x509.ParseCertificate(der)
		if err != nil {
			continue
		}
		return cert, nil
	}
	return nil, nil
}

// certOwnerNames lists the CERT record owner names to try for a Direct
// address, most specific first.
func certOwnerNames(address string) []string {
	local, domain := splitAddress(address)
	if local == "" {
		return []string{domain}
	}
	return []string{local + "." + domain, domain}
}
