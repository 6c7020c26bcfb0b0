// Package validate decides which validators an endpoint record needs and
// folds their results into a single classification outcome.
//
// The two validators are consumed through narrow capability interfaces so
// the dispatch logic stays deterministic under test: email syntax checking
// (EmailChecker) and Direct certificate discovery (CertDiscoverer).
package validate

import (
	"context"
	"fmt"
	"strings"

	"github.com/ftrotter/endpoint-test/internal/registry"
)

// Outcome identifies how a record was classified. Every processed record
// lands on exactly one of these.
type Outcome int

const (
	// NotDirectEndpoint is any record whose type is neither DIRECT nor
	// EMAIL; no validators run for it.
	NotDirectEndpoint Outcome = iota

	// DirectSuccessLdap is a DIRECT record whose certificate was
	// retrieved over LDAP.
	DirectSuccessLdap

	// DirectSuccessDns is a DIRECT record whose certificate was
	// retrieved over DNS.
	DirectSuccessDns

	// DirectFailedButEmailValid is a DIRECT record with no discoverable
	// certificate but a well-formed address.
	DirectFailedButEmailValid

	// DirectFailedAndEmailInvalid is a DIRECT record with no certificate
	// and a malformed address.
	DirectFailedAndEmailInvalid

	// EmailValid is an EMAIL record with a well-formed address.
	EmailValid

	// EmailInvalid is an EMAIL record with a malformed address.
	EmailInvalid
)

// EmailChecker reports whether an address is a syntactically valid email.
type EmailChecker interface {
	Check(address string) bool
}

// CertDiscoverer confirms whether a Direct endpoint's public certificate
// can be located. method indicates how it was retrieved; a value equal to
// "LDAP" (case-insensitively) means LDAP, anything else implies DNS.
// An error return aborts the whole run, so implementations should report
// an ordinary miss as found=false with a nil error.
type CertDiscoverer interface {
	Discover(ctx context.Context, address string, verifyChain bool) (found bool, method string, err error)
}

// Verdict is the dispatch result for one record: the outcome plus the raw
// flags it was derived from.
type Verdict struct {
	Outcome    Outcome
	EmailValid bool
	CertFound  bool
	Protocol   string // "ldap" or "dns" when CertFound
}

// Dispatcher routes one record through the validators its endpoint type
// requires. It holds no per-record state.
type Dispatcher struct {
	Email EmailChecker
	Certs CertDiscoverer
}

// Dispatch classifies a single record. DIRECT records get both the email
// syntax check and certificate discovery (chain verification disabled);
// EMAIL records get only the syntax check; everything else gets neither.
// A validator error is returned as-is and ends the session.
func (d *Dispatcher) Dispatch(ctx context.Context, rec registry.Record) (Verdict, error) {
	typ := rec.Type()
	if typ == registry.EndpointOther {
		return Verdict{Outcome: NotDirectEndpoint}, nil
	}

	// The email check runs for DIRECT records too; its result feeds the
	// certificate-miss outcomes.
	v := Verdict{EmailValid: d.Email.Check(rec.Endpoint)}

	if typ == registry.EndpointDirect {
		found, method, err := d.Certs.Discover(ctx, rec.Endpoint, false)
		if err != nil {
			return Verdict{}, fmt.Errorf("certificate discovery for %q: %w", rec.Endpoint, err)
		}
		v.CertFound = found
		switch {
		case found && strings.EqualFold(method, "LDAP"):
			v.Protocol = "ldap"
			v.Outcome = DirectSuccessLdap
		case found:
			// DNS is the default when the method is absent or anything
			// other than LDAP.
			v.Protocol = "dns"
			v.Outcome = DirectSuccessDns
		case v.EmailValid:
			v.Outcome = DirectFailedButEmailValid
		default:
			v.Outcome = DirectFailedAndEmailInvalid
		}
		return v, nil
	}

	if v.EmailValid {
		v.Outcome = EmailValid
	} else {
		v.Outcome = EmailInvalid
	}
	return v, nil
}
