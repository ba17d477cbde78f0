package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/lithammer/shortuuid/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type PriceEntry struct {
	PassType string `json:"pass_type"`
	Price    string `json:"price"`
}

type PricesResponse struct {
	Prices []PriceEntry `json:"prices"`
}

type QuoteResponse struct {
	PassType string `json:"pass_type"`
	Quantity int    `json:"quantity"`
	Total    string `json:"total"`
}

type PricingField struct {
	PassType string `json:"pass_type"`
	RawText  string `json:"raw_text"`
	Status   string `json:"status"`
}

type PricingResponse struct {
	Fields []PricingField `json:"fields"`
	Dirty  bool           `json:"dirty"`
}

type apiClient struct {
	baseURL string
}

func freeAddr(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	return addr
}

func (c apiClient) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	httpReq, err := http.NewRequest(method, c.baseURL+path, bytes.NewBuffer(payload))
	require.NoError(t, err)

	httpReq.Header.Set("Correlation-ID", shortuuid.New())
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(httpReq)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func (c apiClient) updateField(t *testing.T, passType, value string) *http.Response {
	t.Helper()
	return c.do(t, http.MethodPut, "/admin/pricing/"+url.PathEscape(passType), map[string]string{"value": value})
}

func (c apiClient) prices(t *testing.T) map[string]string {
	t.Helper()

	resp := c.do(t, http.MethodGet, "/prices", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body PricesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	return body.table()
}

func (c apiClient) collectPrices(t *assert.CollectT) map[string]string {
	resp, err := http.Get(c.baseURL + "/prices")
	if !assert.NoError(t, err) {
		return nil
	}
	defer resp.Body.Close()

	var body PricesResponse
	if !assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body)) {
		return nil
	}

	return body.table()
}

func (r PricesResponse) table() map[string]string {
	out := make(map[string]string, len(r.Prices))
	for _, entry := range r.Prices {
		out[entry.PassType] = entry.Price
	}
	return out
}

func (c apiClient) pricing(t *testing.T) PricingResponse {
	t.Helper()

	resp := c.do(t, http.MethodGet, "/admin/pricing", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body PricingResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func waitForHttpServer(t *testing.T, baseURL string) {
	t.Helper()

	require.EventuallyWithT(
		t,
		func(t *assert.CollectT) {
			resp, err := http.Get(fmt.Sprintf("%s/health", baseURL))
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()

			assert.Less(t, resp.StatusCode, 300, "API not ready, http status: %d", resp.StatusCode)
		},
		time.Second*10,
		time.Millisecond*50,
	)
}
