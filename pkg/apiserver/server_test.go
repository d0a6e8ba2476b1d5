package apiserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siteledger/siteledger/pkg/db"
	"github.com/siteledger/siteledger/pkg/model"
	"github.com/siteledger/siteledger/pkg/store"
)

func newTestRouter(t *testing.T) (*mux.Router, string) {
	t.Helper()

	database, err := db.New(context.Background(), "sqlite", filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)

	s := store.New(database)
	require.NoError(t, s.EnsureDefaultTiers())

	a := NewAPIServer(context.Background(), logrus.WithField("test", t.Name()), 0)
	router := a.router(s)

	var acct model.AccountResponse
	res := doJSON(t, router, "POST", "/v1/accounts", "", model.AccountRequest{
		Email: "dev@example.com",
		Name:  "Dev",
		Tier:  "business",
	}, &acct)
	require.Equal(t, http.StatusOK, res.Code)
	require.NotEmpty(t, acct.Token)

	return router, acct.Token
}

func doJSON(t *testing.T, router *mux.Router, method, path, token string, body, into interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if into != nil && rec.Code < 300 && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), into))
	}
	return rec
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "GET", "/healthz", "", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "GET", "/v1/websites", "", nil, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, "GET", "/v1/websites", "not-a-real.token", nil, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTokenIsOnlyReturnedOnSignup(t *testing.T) {
	router, token := newTestRouter(t)

	var acct model.AccountResponse
	rec := doJSON(t, router, "GET", "/v1/account", token, nil, &acct)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dev@example.com", acct.Email)
	assert.Empty(t, acct.Token)
}

func TestWebsiteLifecycle(t *testing.T) {
	router, token := newTestRouter(t)

	var site db.Website
	rec := doJSON(t, router, "POST", "/v1/websites", token, model.WebsiteRequest{
		Name: "blog",
		URL:  "https://blog.example.com",
	}, &site)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, site.ID)

	var got db.Website
	rec = doJSON(t, router, "GET", "/v1/websites/"+site.ID, token, nil, &got)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "blog", got.Name)

	rec = doJSON(t, router, "PUT", "/v1/websites/"+site.ID, token, model.WebsiteRequest{
		Name: "blog",
		URL:  "https://www.blog.example.com",
	}, &got)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://www.blog.example.com", got.URL)

	rec = doJSON(t, router, "DELETE", "/v1/websites/"+site.ID, token, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, "GET", "/v1/websites/"+site.ID, token, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestErrorStatusMapping(t *testing.T) {
	router, token := newTestRouter(t)

	// validation failures come back as 422 with a json body
	rec := doJSON(t, router, "POST", "/v1/websites", token, model.WebsiteRequest{URL: "https://no-name.example.com"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var errResp model.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, http.StatusUnprocessableEntity, errResp.Status)
	assert.NotEmpty(t, errResp.Message)

	rec = doJSON(t, router, "GET", "/v1/websites/does-not-exist", token, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCredentialsMaskedUnlessRevealed(t *testing.T) {
	router, token := newTestRouter(t)

	var site db.Website
	rec := doJSON(t, router, "POST", "/v1/websites", token, model.WebsiteRequest{
		Name: "shop",
		URL:  "https://shop.example.com",
	}, &site)
	require.Equal(t, http.StatusOK, rec.Code)

	var cred db.Credential
	rec = doJSON(t, router, "POST", fmt.Sprintf("/v1/websites/%s/credentials", site.ID), token, model.CredentialRequest{
		Kind:     model.CredentialLogin,
		Name:     "admin panel",
		Username: "admin",
		Password: "hunter2hunter2",
	}, &cred)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEqual(t, "hunter2hunter2", cred.Password)
	assert.True(t, strings.HasSuffix(cred.Password, "ter2"))

	var revealed db.Credential
	rec = doJSON(t, router, "GET", "/v1/credentials/"+cred.ID+"?reveal=true", token, nil, &revealed)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hunter2hunter2", revealed.Password)
}

func TestLinkEndpoints(t *testing.T) {
	router, token := newTestRouter(t)

	var site db.Website
	rec := doJSON(t, router, "POST", "/v1/websites", token, model.WebsiteRequest{
		Name: "docs",
		URL:  "https://docs.example.com",
	}, &site)
	require.Equal(t, http.StatusOK, rec.Code)

	var dom db.Domain
	rec = doJSON(t, router, "POST", "/v1/domains", token, model.DomainRequest{
		Name:      "docs-example.com",
		Registrar: "namecheap",
	}, &dom)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "PUT", fmt.Sprintf("/v1/domains/%s/websites/%s", dom.ID, site.ID), token, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	var got db.Domain
	rec = doJSON(t, router, "GET", "/v1/domains/"+dom.ID, token, nil, &got)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{site.ID}, got.LinkedWebsites)

	rec = doJSON(t, router, "DELETE", fmt.Sprintf("/v1/domains/%s/websites/%s", dom.ID, site.ID), token, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, "GET", "/v1/domains/"+dom.ID, token, nil, &got)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{}, got.LinkedWebsites)
}

func TestStatsEndpoint(t *testing.T) {
	router, token := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/v1/websites", token, model.WebsiteRequest{
		Name: "blog",
		URL:  "https://blog.example.com",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats model.StatsResponse
	rec = doJSON(t, router, "GET", "/v1/stats", token, nil, &stats)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), stats.Websites)
	assert.Equal(t, int64(0), stats.Domains)
}
