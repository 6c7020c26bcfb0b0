package validate

import (
	"context"
	"errors"
	"testing"

	"github.com/ftrotter/endpoint-test/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmail struct {
	valid bool
	calls int
}

func (f *fakeEmail) Check(string) bool {
	f.calls++
	return f.valid
}

type fakeCerts struct {
	found       bool
	method      string
	err         error
	calls       int
	verifyChain bool
}

func (f *fakeCerts) Discover(_ context.Context, _ string, verifyChain bool) (bool, string, error) {
	f.calls++
	f.verifyChain = verifyChain
	return f.found, f.method, f.err
}

func record(endpointType string) registry.Record {
	return registry.Record{NPI: "1234567890", EndpointType: endpointType, Endpoint: "doc@direct.example.com"}
}

func TestDispatch_OtherTypeSkipsValidators(t *testing.T) {
	email := &fakeEmail{valid: true}
	certs := &fakeCerts{found: true}
	d := &Dispatcher{Email: email, Certs: certs}

	v, err := d.Dispatch(context.Background(), record("FHIR"))
	require.NoError(t, err)

	assert.Equal(t, NotDirectEndpoint, v.Outcome)
	assert.Zero(t, email.calls, "email checker must not run for OTHER rows")
	assert.Zero(t, certs.calls, "certificate discovery must not run for OTHER rows")
}

func TestDispatch_DirectOutcomes(t *testing.T) {
	tests := []struct {
		name         string
		emailValid   bool
		certFound    bool
		method       string
		wantOutcome  Outcome
		wantProtocol string
	}{
		{"ldap certificate", true, true, "LDAP", DirectSuccessLdap, "ldap"},
		{"ldap method is case-insensitive", false, true, "ldap", DirectSuccessLdap, "ldap"},
		{"dns certificate", true, true, "DNS", DirectSuccessDns, "dns"},
		{"unknown method defaults to dns", true, true, "carrier-pigeon", DirectSuccessDns, "dns"},
		{"absent method defaults to dns", true, true, "", DirectSuccessDns, "dns"},
		{"no certificate but valid email", true, false, "", DirectFailedButEmailValid, ""},
		{"no certificate and invalid email", false, false, "", DirectFailedAndEmailInvalid, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email := &fakeEmail{valid: tt.emailValid}
			certs := &fakeCerts{found: tt.certFound, method: tt.method}
			d := &Dispatcher{Email: email, Certs: certs}

			v, err := d.Dispatch(context.Background(), record("DIRECT"))
			require.NoError(t, err)

			assert.Equal(t, tt.wantOutcome, v.Outcome)
			assert.Equal(t, tt.wantProtocol, v.Protocol)
			assert.Equal(t, tt.emailValid, v.EmailValid)
			assert.Equal(t, tt.certFound, v.CertFound)
			assert.Equal(t, 1, email.calls, "email runs for DIRECT rows too")
			assert.False(t, certs.verifyChain, "chain verification stays disabled")
		})
	}
}

func TestDispatch_EmailOutcomes(t *testing.T) {
	for _, valid := range []bool{true, false} {
		email := &fakeEmail{valid: valid}
		certs := &fakeCerts{}
		d := &Dispatcher{Email: email, Certs: certs}

		v, err := d.Dispatch(context.Background(), record("EMAIL"))
		require.NoError(t, err)

		if valid {
			assert.Equal(t, EmailValid, v.Outcome)
		} else {
			assert.Equal(t, EmailInvalid, v.Outcome)
		}
		assert.Zero(t, certs.calls, "certificate discovery must not run for EMAIL rows")
	}
}

func TestDispatch_DiscoveryErrorPropagates(t *testing.T) {
	boom := errors.New("directory unreachable")
	d := &Dispatcher{
		Email: &fakeEmail{valid: true},
		Certs: &fakeCerts{err: boom},
	}

	_, err := d.Dispatch(context.Background(), record("DIRECT"))
	require.ErrorIs(t, err, boom)
}
