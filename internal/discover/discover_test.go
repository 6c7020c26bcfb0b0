package discover

import (
	"crypto/x509"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSplitAddress(t *testing.T) {
	tests := []struct {
		address    string
		wantLocal  string
		wantDomain string
	}{
		{"doc@direct.example.com", "doc", "direct.example.com"},
		{"first.last@hie.example.org", "first.last", "hie.example.org"},
		{"direct.example.com", "", "direct.example.com"},
		{"odd@name@direct.example.com", "odd@name", "direct.example.com"},
	}

	for _, tt := range tests {
		local, domain := splitAddress(tt.address)
		assert.Equal(t, tt.wantLocal, local, "address %q", tt.address)
		assert.Equal(t, tt.wantDomain, domain, "address %q", tt.address)
	}
}

func TestCertOwnerNames(t *testing.T) {
	assert.Equal(t,
		[]string{"doc.direct.example.com", "direct.example.com"},
		certOwnerNames("doc@direct.example.com"),
		"address-bound name comes before the domain-bound name")

	assert.Equal(t,
		[]string{"direct.example.com"},
		certOwnerNames("direct.example.com"),
		"a bare domain only has the domain-bound name")
}

func TestClientUsable_ValidityWindow(t *testing.T) {
	c := NewClient(nil, nil, discardLogger())
	now := time.Now()

	current := &x509.Certificate{NotBefore: now.Add(-time.Hour), NotAfter: now.Add(time.Hour)}
	expired := &x509.Certificate{NotBefore: now.Add(-2 * time.Hour), NotAfter: now.Add(-time.Hour)}
	premature := &x509.Certificate{NotBefore: now.Add(time.Hour), NotAfter: now.Add(2 * time.Hour)}

	assert.True(t, c.usable(current, false, "doc@direct.example.com"))
	assert.False(t, c.usable(expired, false, "doc@direct.example.com"))
	assert.False(t, c.usable(premature, false, "doc@direct.example.com"))
	assert.False(t, c.usable(nil, false, "doc@direct.example.com"))
}
