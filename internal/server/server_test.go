package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/worldtax/internal/database"
	"github.com/rezonia/worldtax/internal/server"
)

func setupServer(t *testing.T) *server.Server {
	t.Helper()
	db, err := database.Default()
	require.NoError(t, err)
	return server.NewServer(&server.Config{Address: ":0"}, db)
}

func doJSON(t *testing.T, srv *server.Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv := setupServer(t)

	w := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestCalculate_GermanDomestic(t *testing.T) {
	srv := setupServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/calculate", server.CalculateRequest{
		Source:          server.RegionInput{Country: "DE"},
		Destination:     server.RegionInput{Country: "DE"},
		TransactionType: "b2c",
		Amount:          100,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp server.CalculateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 19.0, resp.TaxAmount)
	assert.Equal(t, 119.0, resp.Total)
	assert.Equal(t, "destination", resp.Policy)
	assert.Equal(t, "no_agreement", resp.Classification)
	require.Len(t, resp.Rates, 1)
	assert.Equal(t, "vat_standard", resp.Rates[0].TaxKind)
}

func TestCalculate_EUReverseCharge(t *testing.T) {
	srv := setupServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/calculate", server.CalculateRequest{
		Source:          server.RegionInput{Country: "DE"},
		Destination:     server.RegionInput{Country: "FR"},
		TransactionType: "b2b",
		Amount:          1000,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp server.CalculateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0.0, resp.TaxAmount)
	assert.Equal(t, "reverse_charge", resp.Policy)
	assert.Equal(t, "European Union", resp.Agreement)
	assert.Empty(t, resp.Rates)
}

func TestCalculate_CompoundProvince(t *testing.T) {
	srv := setupServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/calculate", server.CalculateRequest{
		Source:          server.RegionInput{Country: "CA", Subdivision: "BC"},
		Destination:     server.RegionInput{Country: "CA", Subdivision: "BC"},
		TransactionType: "b2c",
		Amount:          100000,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp server.CalculateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 12350.0, resp.TaxAmount)
	require.Len(t, resp.Rates, 2)
	assert.Equal(t, 5000.0, resp.Rates[0].Amount)
	assert.Equal(t, 7350.0, resp.Rates[1].Amount)
}

func TestCalculate_BadBody(t *testing.T) {
	srv := setupServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/calculate", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalculate_ValidationFailures(t *testing.T) {
	srv := setupServer(t)

	tests := []struct {
		name string
		req  server.CalculateRequest
	}{
		{
			name: "negative amount",
			req: server.CalculateRequest{
				Source:          server.RegionInput{Country: "DE"},
				Destination:     server.RegionInput{Country: "DE"},
				TransactionType: "b2c",
				Amount:          -1,
			},
		},
		{
			name: "bad transaction type",
			req: server.CalculateRequest{
				Source:          server.RegionInput{Country: "DE"},
				Destination:     server.RegionInput{Country: "DE"},
				TransactionType: "c2c",
				Amount:          100,
			},
		},
		{
			name: "unknown country",
			req: server.CalculateRequest{
				Source:          server.RegionInput{Country: "XX"},
				Destination:     server.RegionInput{Country: "DE"},
				TransactionType: "b2c",
				Amount:          100,
			},
		},
		{
			name: "conflicting overrides",
			req: server.CalculateRequest{
				Source:          server.RegionInput{Country: "DE"},
				Destination:     server.RegionInput{Country: "FR"},
				TransactionType: "b2c",
				Amount:          100,
				TradeAgreement:  "EU",
				NoAgreement:     true,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, srv, http.MethodPost, "/api/v1/calculate", tt.req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCalculate_UnknownAgreement(t *testing.T) {
	srv := setupServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/calculate", server.CalculateRequest{
		Source:          server.RegionInput{Country: "DE"},
		Destination:     server.RegionInput{Country: "FR"},
		TransactionType: "b2c",
		Amount:          100,
		TradeAgreement:  "NAFTA",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRatesEndpoint(t *testing.T) {
	srv := setupServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/rates", server.CalculateRequest{
		Source:          server.RegionInput{Country: "DE"},
		Destination:     server.RegionInput{Country: "DE"},
		TransactionType: "b2c",
		Amount:          100,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp server.RatesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "destination", resp.Policy)
	require.Len(t, resp.Rates, 1)
	assert.Equal(t, 0.19, resp.Rates[0].Rate)
}

func TestAgreementsListing(t *testing.T) {
	srv := setupServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/agreements", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Agreements []server.AgreementSummary `json:"agreements"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Agreements)

	ids := make([]string, 0, len(resp.Agreements))
	for _, a := range resp.Agreements {
		ids = append(ids, a.ID)
	}
	assert.Contains(t, ids, "EU")
	assert.Contains(t, ids, "US")
}

func TestAgreementByName(t *testing.T) {
	srv := setupServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/agreements/EU", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "European Union", resp["name"])

	w = doJSON(t, srv, http.MethodGet, "/api/v1/agreements/NAFTA", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogEndpoint(t *testing.T) {
	srv := setupServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/catalog/DE", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp server.CatalogResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "DE", resp.Region)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, 0.19, resp.Entries[0].Rate)

	w = doJSON(t, srv, http.MethodGet, "/api/v1/catalog/ZZ", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
