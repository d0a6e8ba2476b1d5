package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siteledger/siteledger/pkg/db"
	"github.com/siteledger/siteledger/pkg/model"
	"github.com/siteledger/siteledger/pkg/store"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// newTestStore spins up a sqlite-backed store with a pinned clock and
// one registered account.
func newTestStore(t *testing.T) (*store.Store, string, *testClock) {
	t.Helper()

	database, err := db.New(context.Background(), "sqlite", filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)

	clock := &testClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	s := store.New(database, store.WithClock(clock.Now))
	require.NoError(t, s.EnsureDefaultTiers())

	acct, token, err := s.CreateAccount(model.AccountRequest{Email: "dev@example.com", Name: "Dev", Tier: "business"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	return s, acct.ID, clock
}

func addWebsite(t *testing.T, s *store.Store, accountID, name string) db.Website {
	t.Helper()
	site, err := s.AddWebsite(accountID, model.WebsiteRequest{
		Name:     name,
		URL:      "https://" + name + ".example.com",
		Category: model.CategoryOwned,
	})
	require.NoError(t, err)
	return site
}

func addDomain(t *testing.T, s *store.Store, accountID, name string) db.Domain {
	t.Helper()
	domain, err := s.AddDomain(accountID, model.DomainRequest{Name: name})
	require.NoError(t, err)
	return domain
}

func TestAddThenGetRoundTrip(t *testing.T) {
	s, acct, clock := newTestStore(t)

	site, err := s.AddWebsite(acct, model.WebsiteRequest{
		Name:      "Portfolio",
		URL:       "https://portfolio.example.com",
		Category:  model.CategoryOwned,
		TechStack: []string{"go", "htmx"},
		Tags:      []string{"personal"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, site.ID)
	assert.Equal(t, clock.Now(), site.CreatedAt)
	assert.Equal(t, clock.Now(), site.UpdatedAt)
	assert.Equal(t, model.WebsiteStatusActive, site.Status, "status defaults to active")

	got, err := s.GetWebsiteByID(acct, site.ID)
	require.NoError(t, err)
	assert.Equal(t, site.ID, got.ID)
	assert.Equal(t, "Portfolio", got.Name)
	assert.Equal(t, []string{"go", "htmx"}, got.TechStack)
}

func TestUpdateRefreshesUpdatedAtOnly(t *testing.T) {
	s, acct, clock := newTestStore(t)
	site := addWebsite(t, s, acct, "blog")
	created := site.CreatedAt

	clock.Advance(time.Hour)
	updated, err := s.UpdateWebsite(acct, site.ID, model.WebsiteRequest{
		Name:     "blog",
		URL:      site.URL,
		Category: model.CategoryOwned,
		Status:   model.WebsiteStatusMaintenance,
	})
	require.NoError(t, err)
	assert.True(t, created.Equal(updated.CreatedAt), "createdAt is immutable")
	assert.True(t, clock.Now().Equal(updated.UpdatedAt))
	assert.Equal(t, model.WebsiteStatusMaintenance, updated.Status)

	// the stored row carries the injected clock's time, not wall time
	got, err := s.GetWebsiteByID(acct, site.ID)
	require.NoError(t, err)
	assert.True(t, clock.Now().Equal(got.UpdatedAt))
}

func TestMutationsOnMissingIDReturnNotFound(t *testing.T) {
	s, acct, _ := newTestStore(t)

	_, err := s.UpdateWebsite(acct, "no-such-id", model.WebsiteRequest{Name: "x", URL: "https://x"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.DeleteWebsite(acct, "no-such-id")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.GetDomainByID(acct, "no-such-id")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestChildCreationValidatesParent(t *testing.T) {
	s, acct, _ := newTestStore(t)

	_, err := s.AddCredential(acct, "missing-site", model.CredentialRequest{
		Kind: model.CredentialLogin,
		Name: "admin login",
	})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.AddDNSRecord(acct, "missing-domain", model.DNSRecordRequest{
		Type:  model.RecordTypeA,
		Name:  "www",
		Value: "203.0.113.7",
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestValidationRunsBeforePersistence(t *testing.T) {
	s, acct, _ := newTestStore(t)

	_, err := s.AddWebsite(acct, model.WebsiteRequest{URL: "https://nameless.example.com"})
	assert.ErrorIs(t, err, store.ErrValidation)

	_, err = s.AddDomain(acct, model.DomainRequest{Name: "e.com", ExpirationDate: "06/01/2025"})
	assert.ErrorIs(t, err, store.ErrValidation)

	sites, err := s.ListWebsites(acct)
	require.NoError(t, err)
	assert.Empty(t, sites)
}

func TestDeleteWebsiteCascades(t *testing.T) {
	s, acct, _ := newTestStore(t)

	site := addWebsite(t, s, acct, "shop")
	other := addWebsite(t, s, acct, "landing")
	domain := addDomain(t, s, acct, "shop.com")
	app, err := s.AddLinkedApp(acct, model.LinkedAppRequest{Name: "Analytics"})
	require.NoError(t, err)
	hook, err := s.AddAPIWebhook(acct, model.APIWebhookRequest{Name: "Deploy hook", Endpoint: "https://ci.example.com/hook"})
	require.NoError(t, err)

	_, err = s.AddCredential(acct, site.ID, model.CredentialRequest{Kind: model.CredentialLogin, Name: "wp-admin"})
	require.NoError(t, err)
	_, err = s.AddSERPEntry(acct, site.ID, model.SERPEntryRequest{Keyword: "buy widgets", CurrentRank: 4})
	require.NoError(t, err)

	require.NoError(t, s.LinkDomainToWebsite(acct, domain.ID, site.ID))
	require.NoError(t, s.LinkWebsite(acct, db.LinkKindLinkedApp, app.ID, site.ID))
	require.NoError(t, s.LinkWebsite(acct, db.LinkKindAPIWebhook, hook.ID, site.ID))
	require.NoError(t, s.LinkDomainToWebsite(acct, domain.ID, other.ID))

	require.NoError(t, s.DeleteWebsite(acct, site.ID))

	_, err = s.GetWebsiteByID(acct, site.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	creds, err := s.GetCredentialsByWebsiteID(acct, site.ID)
	require.NoError(t, err)
	assert.Empty(t, creds)

	entries, err := s.GetSERPEntriesByWebsiteID(acct, site.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// membership pruned, record kept
	gotDomain, err := s.GetDomainByID(acct, domain.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{other.ID}, gotDomain.LinkedWebsites)

	gotApp, err := s.GetLinkedAppByID(acct, app.ID)
	require.NoError(t, err)
	assert.Empty(t, gotApp.LinkedWebsites)

	gotHook, err := s.GetAPIWebhookByID(acct, hook.ID)
	require.NoError(t, err)
	assert.Empty(t, gotHook.LinkedWebsites)
}

func TestDeleteDomainCascades(t *testing.T) {
	s, acct, _ := newTestStore(t)

	site := addWebsite(t, s, acct, "shop")
	domain := addDomain(t, s, acct, "shop.com")
	require.NoError(t, s.LinkDomainToWebsite(acct, domain.ID, site.ID))

	_, err := s.AddDNSRecord(acct, domain.ID, model.DNSRecordRequest{Type: model.RecordTypeA, Name: "@", Value: "203.0.113.7"})
	require.NoError(t, err)
	_, err = s.AddDNSRecord(acct, domain.ID, model.DNSRecordRequest{Type: model.RecordTypeMx, Name: "@", Value: "mail.shop.com", Priority: 10})
	require.NoError(t, err)

	require.NoError(t, s.DeleteDomain(acct, domain.ID))

	records, err := s.GetDNSRecordsByDomainID(acct, domain.ID)
	require.NoError(t, err)
	assert.Empty(t, records)

	// the website is untouched
	got, err := s.GetWebsiteByID(acct, site.ID)
	require.NoError(t, err)
	assert.Equal(t, site.Name, got.Name)
	assert.True(t, site.UpdatedAt.Equal(got.UpdatedAt))
}

func TestLinkIsIdempotent(t *testing.T) {
	s, acct, _ := newTestStore(t)

	site := addWebsite(t, s, acct, "shop")
	domain := addDomain(t, s, acct, "shop.com")

	require.NoError(t, s.LinkDomainToWebsite(acct, domain.ID, site.ID))
	require.NoError(t, s.LinkDomainToWebsite(acct, domain.ID, site.ID))

	got, err := s.GetDomainByID(acct, domain.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{site.ID}, got.LinkedWebsites)
}

func TestUnlinkNonMemberIsNoOp(t *testing.T) {
	s, acct, _ := newTestStore(t)

	site := addWebsite(t, s, acct, "shop")
	bystander := addWebsite(t, s, acct, "landing")
	domain := addDomain(t, s, acct, "shop.com")
	require.NoError(t, s.LinkDomainToWebsite(acct, domain.ID, site.ID))

	require.NoError(t, s.UnlinkDomainFromWebsite(acct, domain.ID, bystander.ID))

	got, err := s.GetDomainByID(acct, domain.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{site.ID}, got.LinkedWebsites)
}

func TestLinkMissingDomainIsNoOp(t *testing.T) {
	s, acct, _ := newTestStore(t)
	site := addWebsite(t, s, acct, "shop")

	require.NoError(t, s.LinkDomainToWebsite(acct, "no-such-domain", site.ID))

	domains, err := s.GetDomainsByWebsiteID(acct, site.ID)
	require.NoError(t, err)
	assert.Empty(t, domains)
}

func TestLinkUnlinkEndToEnd(t *testing.T) {
	s, acct, _ := newTestStore(t)

	site := addWebsite(t, s, acct, "shop")
	domain := addDomain(t, s, acct, "shop.com")
	assert.Equal(t, []string{}, domain.LinkedWebsites, "membership starts empty")

	require.NoError(t, s.LinkDomainToWebsite(acct, domain.ID, site.ID))

	domains, err := s.GetDomainsByWebsiteID(acct, site.ID)
	require.NoError(t, err)
	require.Len(t, domains, 1)
	assert.Equal(t, domain.ID, domains[0].ID)

	require.NoError(t, s.DeleteWebsite(acct, site.ID))

	got, err := s.GetDomainByID(acct, domain.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.LinkedWebsites)
}

func TestWebsiteQuota(t *testing.T) {
	database, err := db.New(context.Background(), "sqlite", filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)

	s := store.New(database)
	require.NoError(t, s.EnsureDefaultTiers())
	acct, _, err := s.CreateAccount(model.AccountRequest{Email: "free@example.com"})
	require.NoError(t, err)

	for i, name := range []string{"one", "two", "three"} {
		_, err := s.AddWebsite(acct.ID, model.WebsiteRequest{Name: name, URL: "https://x"})
		require.NoError(t, err, "website %d fits in the free tier", i+1)
	}

	_, err = s.AddWebsite(acct.ID, model.WebsiteRequest{Name: "four", URL: "https://x"})
	assert.ErrorIs(t, err, store.ErrQuotaExceeded)

	// upgrading lifts the cap
	_, err = s.UpdateAccount(acct.ID, model.AccountRequest{Tier: "business"})
	require.NoError(t, err)
	_, err = s.AddWebsite(acct.ID, model.WebsiteRequest{Name: "four", URL: "https://x"})
	require.NoError(t, err)
}

func TestAccountsAreIsolated(t *testing.T) {
	s, acct, _ := newTestStore(t)
	site := addWebsite(t, s, acct, "shop")

	otherAcct, _, err := s.CreateAccount(model.AccountRequest{Email: "other@example.com", Tier: "business"})
	require.NoError(t, err)

	_, err = s.GetWebsiteByID(otherAcct.ID, site.ID)
	assert.ErrorIs(t, err, store.ErrNotFound, "foreign rows look missing")

	err = s.DeleteWebsite(otherAcct.ID, site.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTokenAuthentication(t *testing.T) {
	s, _, _ := newTestStore(t)

	acct, token, err := s.CreateAccount(model.AccountRequest{Email: "auth@example.com"})
	require.NoError(t, err)

	got, err := s.AuthenticateToken(token)
	require.NoError(t, err)
	assert.Equal(t, acct.ID, got.ID)

	_, err = s.AuthenticateToken(acct.ID + ".wrong-secret")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.AuthenticateToken("garbage")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDuplicateEmailConflicts(t *testing.T) {
	s, _, _ := newTestStore(t)

	_, _, err := s.CreateAccount(model.AccountRequest{Email: "dev@example.com"})
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestRecordRankRollsHistory(t *testing.T) {
	s, acct, _ := newTestStore(t)
	site := addWebsite(t, s, acct, "shop")

	entry, err := s.AddSERPEntry(acct, site.ID, model.SERPEntryRequest{Keyword: "widgets", CurrentRank: 12})
	require.NoError(t, err)

	entry, err = s.RecordRank(acct, entry.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 12, entry.PreviousRank)
	assert.Equal(t, 5, entry.CurrentRank)
	assert.Equal(t, 1, model.RankTrend(entry.PreviousRank, entry.CurrentRank))
}

func TestMaskCredential(t *testing.T) {
	s, acct, _ := newTestStore(t)
	site := addWebsite(t, s, acct, "shop")

	cred, err := s.AddCredential(acct, site.ID, model.CredentialRequest{
		Kind:     model.CredentialAPI,
		Name:     "stripe",
		APIKey:   "sk-live-29ab11b3f9",
		Password: "hunter22",
	})
	require.NoError(t, err)

	masked := store.MaskCredential(cred)
	assert.Equal(t, "••••••••b3f9", masked.APIKey)
	assert.Equal(t, "••••••••", masked.Password)

	// the stored record still has the real secrets
	got, err := s.GetCredentialByID(acct, cred.ID)
	require.NoError(t, err)
	assert.Equal(t, "sk-live-29ab11b3f9", got.APIKey)
}

func TestSubdomainsGetIDs(t *testing.T) {
	s, acct, _ := newTestStore(t)

	domain, err := s.AddDomain(acct, model.DomainRequest{
		Name: "shop.com",
		Subdomains: []model.SubdomainRequest{
			{Name: "api", Purpose: "backend"},
			{Name: "blog", Purpose: "content"},
		},
	})
	require.NoError(t, err)

	got, err := s.GetDomainByID(acct, domain.ID)
	require.NoError(t, err)
	require.Len(t, got.Subdomains, 2)
	assert.NotEmpty(t, got.Subdomains[0].ID)
	assert.Equal(t, "api", got.Subdomains[0].Name)
}

func TestWebhookHeadersRoundTrip(t *testing.T) {
	s, acct, _ := newTestStore(t)

	// nil headers must store cleanly, not just populated ones
	bare, err := s.AddAPIWebhook(acct, model.APIWebhookRequest{
		Name:     "deploy hook",
		Endpoint: "https://ci.example.com/hook",
	})
	require.NoError(t, err)

	got, err := s.GetAPIWebhookByID(acct, bare.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Headers)

	hook, err := s.AddAPIWebhook(acct, model.APIWebhookRequest{
		Name:     "notify hook",
		Endpoint: "https://hooks.example.com/notify",
		Method:   "POST",
		Headers: map[string]string{
			"Authorization": "Bearer abc123",
			"Content-Type":  "application/json",
		},
	})
	require.NoError(t, err)

	got, err = s.GetAPIWebhookByID(acct, hook.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", got.Headers["Authorization"])
	assert.Equal(t, "application/json", got.Headers["Content-Type"])
}

func TestUpdateDNSRecordKeepsAddRules(t *testing.T) {
	s, acct, _ := newTestStore(t)
	domain := addDomain(t, s, acct, "shop.com")

	record, err := s.AddDNSRecord(acct, domain.ID, model.DNSRecordRequest{
		Type:  model.RecordTypeA,
		Name:  "www",
		Value: "203.0.113.7",
		TTL:   300,
	})
	require.NoError(t, err)

	_, err = s.UpdateDNSRecord(acct, record.ID, model.DNSRecordRequest{
		Type: model.RecordTypeA,
		Name: "www",
	})
	assert.ErrorIs(t, err, store.ErrValidation, "an update cannot blank the value")

	updated, err := s.UpdateDNSRecord(acct, record.ID, model.DNSRecordRequest{
		Type:  model.RecordTypeA,
		Name:  "www",
		Value: "203.0.113.8",
	})
	require.NoError(t, err)
	assert.Equal(t, 3600, updated.TTL, "omitted ttl falls back to the default")
}

func TestStatsCountPerKind(t *testing.T) {
	s, acct, _ := newTestStore(t)

	site := addWebsite(t, s, acct, "shop")
	addWebsite(t, s, acct, "blog")
	domain := addDomain(t, s, acct, "shop.com")

	_, err := s.AddDNSRecord(acct, domain.ID, model.DNSRecordRequest{
		Type: model.RecordTypeA, Name: "www", Value: "203.0.113.7",
	})
	require.NoError(t, err)
	_, err = s.AddCredential(acct, site.ID, model.CredentialRequest{
		Kind: model.CredentialLogin, Name: "wp-admin",
	})
	require.NoError(t, err)
	_, err = s.AddLinkedApp(acct, model.LinkedAppRequest{Name: "Analytics"})
	require.NoError(t, err)

	stats, err := s.GetStats(acct)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Websites)
	assert.Equal(t, int64(1), stats.Domains)
	assert.Equal(t, int64(1), stats.DNSRecords)
	assert.Equal(t, int64(1), stats.Credentials)
	assert.Equal(t, int64(1), stats.LinkedApps)
	assert.Equal(t, int64(0), stats.SERPEntries)
	assert.Equal(t, int64(0), stats.APIWebhooks)
}
