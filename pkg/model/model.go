package model

import (
	"fmt"
)

const (
	RecordTypeA     RecordType = "A"
	RecordTypeAAAA  RecordType = "AAAA"
	RecordTypeCname RecordType = "CNAME"
	RecordTypeMx    RecordType = "MX"
	RecordTypeTxt   RecordType = "TXT"
	RecordTypeNs    RecordType = "NS"
	RecordTypeSrv   RecordType = "SRV"
)

type RecordType string

func (rt RecordType) IsValid() error {
	switch rt {
	case RecordTypeA, RecordTypeAAAA, RecordTypeCname, RecordTypeMx,
		RecordTypeTxt, RecordTypeNs, RecordTypeSrv:
		return nil
	}

	return fmt.Errorf("invalid record type %q", string(rt))
}

const (
	CategoryOwned        WebsiteCategory = "owned"
	CategorySubscription WebsiteCategory = "subscription"
	CategoryTracked      WebsiteCategory = "tracked"
)

type WebsiteCategory string

func (c WebsiteCategory) IsValid() error {
	switch c {
	case CategoryOwned, CategorySubscription, CategoryTracked:
		return nil
	}

	return fmt.Errorf("invalid website category %q", string(c))
}

const (
	CredentialLogin   CredentialKind = "login"
	CredentialAPI     CredentialKind = "api"
	CredentialHosting CredentialKind = "hosting"
)

type CredentialKind string

func (k CredentialKind) IsValid() error {
	switch k {
	case CredentialLogin, CredentialAPI, CredentialHosting:
		return nil
	}

	return fmt.Errorf("invalid credential kind %q", string(k))
}

// Website and domain statuses are free-form labels set by the caller.
// The store stores them verbatim and performs no transition checks.
const (
	WebsiteStatusActive      = "active"
	WebsiteStatusInactive    = "inactive"
	WebsiteStatusDevelopment = "development"
	WebsiteStatusMaintenance = "maintenance"

	DomainStatusActive  = "active"
	DomainStatusExpired = "expired"
	DomainStatusPending = "pending"
	DomainStatusLocked  = "locked"
)

type AccountRequest struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Tier  string `json:"tier,omitempty"`
}

// AccountResponse carries the API token exactly once, on creation.
type AccountResponse struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Tier  string `json:"tier,omitempty"`
	Token string `json:"token,omitempty"`
}

type WebsiteRequest struct {
	Name            string          `json:"name,omitempty"`
	URL             string          `json:"url,omitempty"`
	Category        WebsiteCategory `json:"category,omitempty"`
	Status          string          `json:"status,omitempty"`
	Description     string          `json:"description,omitempty"`
	HostingProvider string          `json:"hostingProvider,omitempty"`
	Registrar       string          `json:"registrar,omitempty"`
	RepositoryURL   string          `json:"repositoryUrl,omitempty"`
	TechStack       []string        `json:"techStack,omitempty"`
	Tags            []string        `json:"tags,omitempty"`
	Cost            float64         `json:"cost,omitempty"`
	BillingCycle    string          `json:"billingCycle,omitempty"`
	RenewalDate     string          `json:"renewalDate,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

type SubdomainRequest struct {
	Name    string `json:"name,omitempty"`
	Purpose string `json:"purpose,omitempty"`
}

type DomainRequest struct {
	Name             string             `json:"name,omitempty"`
	Status           string             `json:"status,omitempty"`
	Registrar        string             `json:"registrar,omitempty"`
	DNSProvider      string             `json:"dnsProvider,omitempty"`
	RegistrationDate string             `json:"registrationDate,omitempty"`
	ExpirationDate   string             `json:"expirationDate,omitempty"`
	AutoRenew        bool               `json:"autoRenew,omitempty"`
	Cost             float64            `json:"cost,omitempty"`
	BillingCycle     string             `json:"billingCycle,omitempty"`
	Nameservers      []string           `json:"nameservers,omitempty"`
	Subdomains       []SubdomainRequest `json:"subdomains,omitempty"`
	Notes            string             `json:"notes,omitempty"`
}

type DNSRecordRequest struct {
	Type     RecordType `json:"type,omitempty"`
	Name     string     `json:"name,omitempty"`
	Value    string     `json:"value,omitempty"`
	TTL      int        `json:"ttl,omitempty"`
	Priority int        `json:"priority,omitempty"`
	Notes    string     `json:"notes,omitempty"`
}

type CredentialRequest struct {
	Kind           CredentialKind `json:"kind,omitempty"`
	Name           string         `json:"name,omitempty"`
	Username       string         `json:"username,omitempty"`
	Password       string         `json:"password,omitempty"`
	URL            string         `json:"url,omitempty"`
	AccountRef     string         `json:"accountId,omitempty"`
	APIKey         string         `json:"apiKey,omitempty"`
	SecretKey      string         `json:"secretKey,omitempty"`
	ExpirationDate string         `json:"expirationDate,omitempty"`
	Notes          string         `json:"notes,omitempty"`
}

type SERPEntryRequest struct {
	Keyword      string `json:"keyword,omitempty"`
	SearchEngine string `json:"searchEngine,omitempty"`
	Location     string `json:"location,omitempty"`
	Language     string `json:"language,omitempty"`
	Device       string `json:"device,omitempty"`
	CurrentRank  int    `json:"currentRank,omitempty"`
	PreviousRank int    `json:"previousRank,omitempty"`
	TargetURL    string `json:"targetUrl,omitempty"`
}

type LinkedAppRequest struct {
	Name         string  `json:"name,omitempty"`
	Type         string  `json:"type,omitempty"`
	Status       string  `json:"status,omitempty"`
	Plan         string  `json:"plan,omitempty"`
	Cost         float64 `json:"cost,omitempty"`
	BillingCycle string  `json:"billingCycle,omitempty"`
	URL          string  `json:"url,omitempty"`
	Notes        string  `json:"notes,omitempty"`
}

type APIWebhookRequest struct {
	Name      string            `json:"name,omitempty"`
	Type      string            `json:"type,omitempty"`
	Endpoint  string            `json:"endpoint,omitempty"`
	Method    string            `json:"method,omitempty"`
	Status    string            `json:"status,omitempty"`
	APIKey    string            `json:"apiKey,omitempty"`
	SecretKey string            `json:"secretKey,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
	RateLimit int               `json:"rateLimit,omitempty"`
	Notes     string            `json:"notes,omitempty"`
}

type ErrorResponse struct {
	Status  int         `json:"status,omitempty"`
	Message string      `json:"msg,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// StatsResponse is the dashboard overview: how many of each asset kind
// the account tracks.
type StatsResponse struct {
	Websites    int64 `json:"websites"`
	Domains     int64 `json:"domains"`
	DNSRecords  int64 `json:"dnsRecords"`
	Credentials int64 `json:"credentials"`
	SERPEntries int64 `json:"serpEntries"`
	LinkedApps  int64 `json:"linkedApps"`
	APIWebhooks int64 `json:"apiWebhooks"`
}
