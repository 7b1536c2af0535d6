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

const orionEndpoint = "https://api.genesy.ai/api/tmp/orionConnect"

// orionKey is the shared secret Orion Connect expects in the x-auth-me
// header, per §6.
const orionKey = "mySecretKey123"

// orionLookup implements Lookuper for Orion Connect: POST with the key in
// a custom auth header, phone extracted from response.phone.
type orionLookup struct {
	endpoint string
	http     *httpx.Client
}

type orionRequest struct {
	FullName       string `json:"fullName"`
	CompanyWebsite string `json:"companyWebsite"`
}

type orionResponse struct {
	Phone *string `json:"phone"`
}

func (o *orionLookup) Lookup(ctx context.Context, params model.LookupParams) (string, error) {
	body, err := json.Marshal(orionRequest{
		FullName:       params.FullName,
		CompanyWebsite: params.CompanyWebsite,
	})
	if err != nil {
		return "", eris.Wrap(err, "orion: marshal request")
	}

	resp, err := o.http.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-auth-me", orionKey)
		return req, nil
	})
	if err != nil {
		// Transport/5xx retries exhausted: treat as "no phone", the
		// workflow falls through to the next provider (§7.1/§7.3).
		return "", nil
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		// 4xx is terminal, non-retryable, and also yields "no phone" (§7.2).
		return "", nil
	}

	var out orionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", eris.Wrap(err, "orion: decode response")
	}
	if out.Phone == nil {
		return "", nil
	}
	return *out.Phone, nil
}

// NewOrion constructs the Orion Connect provider.
func NewOrion(cfg Config) Provider {
	return newBase(cfg, &orionLookup{endpoint: orionEndpoint, http: httpx.New(cfg.Timeout)})
}
