package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Link kinds for the website membership join table.
const (
	LinkKindDomain     = "domain"
	LinkKindLinkedApp  = "linked_app"
	LinkKindAPIWebhook = "api_webhook"
)

// Base carries the columns shared by every account-owned entity. IDs are
// assigned by the store and never reused; CreatedAt is immutable after
// insert and UpdatedAt is refreshed on every mutation.
type Base struct {
	ID        string    `gorm:"primarykey" json:"id"`
	AccountID string    `gorm:"index" json:"accountId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

// Owner reports the account a record belongs to.
func (b Base) Owner() string {
	return b.AccountID
}

type Account struct {
	ID        string    `gorm:"primarykey" json:"id"`
	Email     string    `gorm:"uniqueIndex" json:"email"`
	Name      string    `json:"name"`
	TokenHash string    `json:"-"`
	TierID    string    `json:"tierId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

type PricingTier struct {
	ID           string    `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"uniqueIndex" json:"name"`
	Price        float64   `json:"price"`
	BillingCycle string    `json:"billingCycle"`
	Description  string    `json:"description"`
	Features     []string  `gorm:"serializer:json" json:"features"`
	MaxWebsites  int       `json:"maxWebsites"` // 0 means unlimited
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

type Website struct {
	Base
	Name            string    `json:"name"`
	URL             string    `json:"url"`
	Category        string    `json:"category"`
	Status          string    `json:"status"`
	Description     string    `json:"description,omitempty"`
	HostingProvider string    `json:"hostingProvider,omitempty"`
	Registrar       string    `json:"registrar,omitempty"`
	RepositoryURL   string    `json:"repositoryUrl,omitempty"`
	TechStack       []string  `gorm:"serializer:json" json:"techStack,omitempty"`
	Tags            []string  `gorm:"serializer:json" json:"tags,omitempty"`
	Cost            float64   `json:"cost,omitempty"`
	BillingCycle    string    `json:"billingCycle,omitempty"`
	RenewalDate     time.Time `json:"renewalDate,omitempty"`
	Notes           string    `gorm:"type:text" json:"notes,omitempty"`
}

type Subdomain struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Purpose string `json:"purpose"`
}

type Domain struct {
	Base
	Name             string      `gorm:"index" json:"name"`
	Status           string      `json:"status"`
	Registrar        string      `json:"registrar,omitempty"`
	DNSProvider      string      `json:"dnsProvider,omitempty"`
	RegistrationDate time.Time   `json:"registrationDate,omitempty"`
	ExpirationDate   time.Time   `json:"expirationDate,omitempty"`
	AutoRenew        bool        `json:"autoRenew"`
	Cost             float64     `json:"cost,omitempty"`
	BillingCycle     string      `json:"billingCycle,omitempty"`
	Nameservers      []string    `gorm:"serializer:json" json:"nameservers,omitempty"`
	Subdomains       []Subdomain `gorm:"serializer:json" json:"subdomains,omitempty"`
	Notes            string      `gorm:"type:text" json:"notes,omitempty"`

	// Hydrated from WebsiteLink rows, not a column.
	LinkedWebsites []string `gorm:"-" json:"linkedWebsites"`
}

type DNSRecord struct {
	Base
	DomainID string `gorm:"index" json:"domainId"`
	Type     string `json:"type"`
	Name     string `json:"name"`
	Value    string `gorm:"type:text" json:"value"`
	TTL      int    `json:"ttl"`
	Priority int    `json:"priority,omitempty"`
	Notes    string `gorm:"type:text" json:"notes,omitempty"`
	Drifted  bool   `json:"drifted"`
}

type Credential struct {
	Base
	WebsiteID      string    `gorm:"index" json:"websiteId"`
	Kind           string    `json:"kind"`
	Name           string    `json:"name"`
	Username       string    `json:"username,omitempty"`
	Password       string    `json:"password,omitempty"`
	URL            string    `json:"url,omitempty"`
	AccountRef     string    `json:"accountId,omitempty"`
	APIKey         string    `json:"apiKey,omitempty"`
	SecretKey      string    `json:"secretKey,omitempty"`
	ExpirationDate time.Time `json:"expirationDate,omitempty"`
	Notes          string    `gorm:"type:text" json:"notes,omitempty"`
}

type SERPEntry struct {
	Base
	WebsiteID    string `gorm:"index" json:"websiteId"`
	Keyword      string `json:"keyword"`
	SearchEngine string `json:"searchEngine"`
	Location     string `json:"location,omitempty"`
	Language     string `json:"language,omitempty"`
	Device       string `json:"device,omitempty"`
	CurrentRank  int    `json:"currentRank"`
	PreviousRank int    `json:"previousRank"`
	TargetURL    string `json:"targetUrl,omitempty"`
}

type LinkedApp struct {
	Base
	Name         string  `json:"name"`
	Type         string  `json:"type,omitempty"`
	Status       string  `json:"status,omitempty"`
	Plan         string  `json:"plan,omitempty"`
	Cost         float64 `json:"cost,omitempty"`
	BillingCycle string  `json:"billingCycle,omitempty"`
	URL          string  `json:"url,omitempty"`
	Notes        string  `gorm:"type:text" json:"notes,omitempty"`

	LinkedWebsites []string `gorm:"-" json:"linkedWebsites"`
}

// HeaderMap stores webhook headers as a JSON text column. It carries
// its own Valuer/Scanner because map columns need an explicit driver
// conversion.
type HeaderMap map[string]string

func (h HeaderMap) Value() (driver.Value, error) {
	if len(h) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(h)
	return string(b), err
}

func (h *HeaderMap) Scan(value any) error {
	if value == nil {
		*h = HeaderMap{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, h)
	case string:
		return json.Unmarshal([]byte(v), h)
	}
	return fmt.Errorf("cannot scan %T into HeaderMap", value)
}

type APIWebhook struct {
	Base
	Name      string    `json:"name"`
	Type      string    `json:"type,omitempty"`
	Endpoint  string    `json:"endpoint"`
	Method    string    `json:"method,omitempty"`
	Status    string    `json:"status,omitempty"`
	APIKey    string    `json:"apiKey,omitempty"`
	SecretKey string    `json:"secretKey,omitempty"`
	Headers   HeaderMap `gorm:"type:text" json:"headers,omitempty"`
	RateLimit int       `json:"rateLimit,omitempty"`
	Notes     string    `gorm:"type:text" json:"notes,omitempty"`

	LinkedWebsites []string `gorm:"-" json:"linkedWebsites"`
}

// WebsiteLink is one website membership for a domain, linked app or
// API/webhook. The triple is unique so one link can never be stored twice.
type WebsiteLink struct {
	ID        string    `gorm:"primarykey" json:"id"`
	Kind      string    `gorm:"uniqueIndex:idx_link,priority:1" json:"kind"`
	EntityID  string    `gorm:"uniqueIndex:idx_link,priority:2" json:"entityId"`
	WebsiteID string    `gorm:"uniqueIndex:idx_link,priority:3;index" json:"websiteId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}
