// Package registry models records of the NPPES endpoint file.
//
// The input file carries one row per healthcare-provider endpoint. Only
// three of its columns are semantically meaningful here: the NPI, the
// endpoint type, and the endpoint address. The annotated output file
// extends those with the validity flags derived during processing.
package registry

import "fmt"

// EndpointType classifies an endpoint record for validation dispatch.
type EndpointType string

const (
	EndpointDirect EndpointType = "DIRECT"
	EndpointEmail  EndpointType = "EMAIL"
	EndpointOther  EndpointType = "OTHER"
)

// ParseEndpointType maps a raw endpoint-type cell onto the enumeration.
// Anything that is not exactly "DIRECT" or "EMAIL" is EndpointOther.
func ParseEndpointType(raw string) EndpointType {
	switch raw {
	case "DIRECT":
		return EndpointDirect
	case "EMAIL":
		return EndpointEmail
	default:
		return EndpointOther
	}
}

// Column positions in the NPPES endpoint file.
const (
	colNPI          = 0
	colEndpointType = 1
	colEndpoint     = 3

	// minColumns is the minimum row width needed to reach the endpoint
	// address column.
	minColumns = 4
)

// Record is one data row of the input file, reduced to the columns the
// pipeline reads. The remaining input columns are not carried.
type Record struct {
	NPI          string
	EndpointType string
	Endpoint     string
}

// Type returns the record's endpoint classification.
func (r Record) Type() EndpointType {
	return ParseEndpointType(r.EndpointType)
}

// FromRow extracts a Record from a raw CSV row. A row too short to hold
// the endpoint address column is an error; the caller treats that as a
// fatal malformed-input condition.
func FromRow(row []string) (Record, error) {
	if len(row) < minColumns {
		return Record{}, fmt.Errorf("input row has %d columns, need at least %d", len(row), minColumns)
	}
	return Record{
		NPI:          row[colNPI],
		EndpointType: row[colEndpointType],
		Endpoint:     row[colEndpoint],
	}, nil
}

// OutputHeader is the annotated output schema, in column order.
var OutputHeader = []string{"NPI", "EndpointType", "Endpoint", "ValidEmail", "ValidDirect", "cert_protocol"}

// Annotated is one row of the output file. The validity columns are kept
// as strings because empty means "not applicable" for rows whose endpoint
// type needs no validation.
type Annotated struct {
	NPI          string
	EndpointType string
	Endpoint     string
	ValidEmail   string
	ValidDirect  string
	CertProtocol string
}

// Row renders the record in OutputHeader column order.
func (a Annotated) Row() []string {
	return []string{a.NPI, a.EndpointType, a.Endpoint, a.ValidEmail, a.ValidDirect, a.CertProtocol}
}
