package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/rotisserie/eris"

	"github.com/Genesy-AI/backend-technical-task-joe/internal/httpx"
	"github.com/Genesy-AI/backend-technical-task-joe/internal/model"
)

const astraEndpoint = "https://api.genesy.ai/api/tmp/astraDialer"

// astraKey is the API key Astra Dialer expects as a query parameter, per §6.
const astraKey = "1234jhgf"

// astraLookup implements Lookuper for Astra Dialer: GET with the key and
// params in the query string, phone extracted from response.phoneNumber.
type astraLookup struct {
	endpoint string
	http     *httpx.Client
}

type astraResponse struct {
	PhoneNumber *string `json:"phoneNumber"`
}

func (a *astraLookup) Lookup(ctx context.Context, params model.LookupParams) (string, error) {
	resp, err := a.http.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		u, err := url.Parse(a.endpoint)
		if err != nil {
			return nil, err
		}
		q := u.Query()
		q.Set("apiKey", astraKey)
		q.Set("fullName", params.FullName)
		q.Set("companyWebsite", params.CompanyWebsite)
		u.RawQuery = q.Encode()

		return http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	})
	if err != nil {
		return "", nil
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		return "", nil
	}

	var out astraResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", eris.Wrap(err, "astra: decode response")
	}
	if out.PhoneNumber == nil {
		return "", nil
	}
	return *out.PhoneNumber, nil
}

// NewAstra constructs the Astra Dialer provider.
func NewAstra(cfg Config) Provider {
	return newBase(cfg, &astraLookup{endpoint: astraEndpoint, http: httpx.New(cfg.Timeout)})
}
