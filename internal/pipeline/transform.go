package pipeline

import (
	"strconv"

	"github.com/ftrotter/endpoint-test/internal/registry"
	"github.com/ftrotter/endpoint-test/internal/validate"
)

// Status lines shown to the operator, one per outcome.
const (
	msgNotDirect     = "Not a Direct endpoint.. skipping"
	msgLdapRetrieved = "Success: LDAP Certificate retrieved"
	msgDnsRetrieved  = "Success: DNS Certificate retrieved"
	msgEmailFormed   = "Success: Email data is a properly formed email address"
	msgCertFailed    = "Failed: Could not retrieve certificate"
	msgEmailInvalid  = "Failed: Invalid email format"
)

// Transform maps one record and its verdict onto the annotated output row
// and the operator status line. Pure mapping: no I/O, no retained state.
//
// Column conventions: ValidEmail is the checker's boolean as text, empty
// for rows that ran no validators; ValidDirect is "1"/"0" for DIRECT
// rows, empty otherwise; cert_protocol is set only when a certificate was
// retrieved.
func Transform(rec registry.Record, v validate.Verdict) (registry.Annotated, string) {
	out := registry.Annotated{
		NPI:          rec.NPI,
		EndpointType: rec.EndpointType,
		Endpoint:     rec.Endpoint,
	}

	if v.Outcome == validate.NotDirectEndpoint {
		return out, msgNotDirect
	}

	out.ValidEmail = strconv.FormatBool(v.EmailValid)

	switch v.Outcome {
	case validate.DirectSuccessLdap:
		out.ValidDirect = "1"
		out.CertProtocol = "ldap"
		return out, msgLdapRetrieved
	case validate.DirectSuccessDns:
		out.ValidDirect = "1"
		out.CertProtocol = "dns"
		return out, msgDnsRetrieved
	case validate.DirectFailedButEmailValid:
		out.ValidDirect = "0"
		return out, msgEmailFormed
	case validate.DirectFailedAndEmailInvalid:
		out.ValidDirect = "0"
		return out, msgCertFailed
	case validate.EmailValid:
		return out, msgEmailFormed
	default: // validate.EmailInvalid
		return out, msgEmailInvalid
	}
}
