package model

import "time"

// DefaultCompanyWebsite is substituted for LookupParams.CompanyWebsite when
// a lead has no company website on file.
const DefaultCompanyWebsite = "example.com"

// DefaultJobTitle is substituted for LookupParams.JobTitle when a lead has
// no job title on file.
const DefaultJobTitle = "Unknown"

// NoProvider is the provider name a PhoneResult carries when no phone was
// found by any provider.
const NoProvider = "None"

// LookupParams is the normalized input to a single provider lookup.
type LookupParams struct {
	FullName       string
	CompanyWebsite string
	JobTitle       string
}

// NewLookupParams derives LookupParams from a lead, applying the spec's
// defaulting rules (§3): CompanyWebsite and JobTitle fall back to fixed
// placeholders rather than being left blank, so provider wire formats
// always see a non-empty value.
func NewLookupParams(lead Lead) LookupParams {
	p := LookupParams{
		FullName:       lead.FullName(),
		CompanyWebsite: lead.CompanyName,
		JobTitle:       lead.JobTitle,
	}
	if p.CompanyWebsite == "" {
		p.CompanyWebsite = DefaultCompanyWebsite
	}
	if p.JobTitle == "" {
		p.JobTitle = DefaultJobTitle
	}
	return p
}

// PhoneResult is the outcome of one waterfall attempt (single provider or
// the overall cascade). A single provider's result always carries that
// provider's name and cost, even when Phone == "" (cost is charged per
// attempt). The cascade's terminal result from NoResult is the only one
// with Provider == NoProvider, and it has Phone == "" and Cost == 0.
type PhoneResult struct {
	Phone     string
	Provider  string
	Cost      float64
	Timestamp time.Time
}

// Found reports whether a phone number was recovered.
func (r PhoneResult) Found() bool {
	return r.Phone != ""
}

// NoResult builds the terminal "nothing found" PhoneResult for the given
// instant, preserving the invariant that an empty phone always carries
// Provider == NoProvider and Cost == 0.
func NoResult(now time.Time) PhoneResult {
	return PhoneResult{Phone: "", Provider: NoProvider, Cost: 0, Timestamp: now}
}
