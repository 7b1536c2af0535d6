package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/rotisserie/eris"

	"github.com/Genesy-AI/backend-technical-task-joe/internal/httpx"
	"github.com/Genesy-AI/backend-technical-task-joe/internal/model"
)

const nimbusEndpoint = "https://api.genesy.ai/api/tmp/numbusLookup"

// nimbusKey is the API key Nimbus Lookup expects in the request body, per §6.
const nimbusKey = "000099998888"

// nimbusLookup implements Lookuper for Nimbus Lookup: POST with the key
// embedded in the body, phone extracted from response.contact.phone.
type nimbusLookup struct {
	endpoint string
	http     *httpx.Client
}

type nimbusRequest struct {
	API            string `json:"api"`
	FullName       string `json:"fullName"`
	CompanyWebsite string `json:"companyWebsite"`
	JobTitle       string `json:"jobTitle"`
}

type nimbusResponse struct {
	Contact struct {
		Phone *string `json:"phone"`
	} `json:"contact"`
}

func (n *nimbusLookup) Lookup(ctx context.Context, params model.LookupParams) (string, error) {
	body, err := json.Marshal(nimbusRequest{
		API:            nimbusKey,
		FullName:       params.FullName,
		CompanyWebsite: params.CompanyWebsite,
		JobTitle:       params.JobTitle,
	})
	if err != nil {
		return "", eris.Wrap(err, "nimbus: marshal request")
	}

	resp, err := n.http.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return "", nil
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		return "", nil
	}

	var out nimbusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", eris.Wrap(err, "nimbus: decode response")
	}
	if out.Contact.Phone == nil {
		return "", nil
	}
	return *out.Contact.Phone, nil
}

// NewNimbus constructs the Nimbus Lookup provider.
func NewNimbus(cfg Config) Provider {
	return newBase(cfg, &nimbusLookup{endpoint: nimbusEndpoint, http: httpx.New(cfg.Timeout)})
}
