package store

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/siteledger/siteledger/pkg/db"
	"github.com/siteledger/siteledger/pkg/model"
	"github.com/siteledger/siteledger/pkg/rand"
)

const (
	tokenLength = 32
	defaultTier = "free"
)

// CreateAccount registers a new account and mints its API token. Only
// the bcrypt hash is stored; the plaintext token is returned exactly
// once and cannot be recovered later.
func (s *Store) CreateAccount(in model.AccountRequest) (db.Account, string, error) {
	if in.Email == "" {
		return db.Account{}, "", fmt.Errorf("%w: email must be provided", ErrValidation)
	}

	n, err := s.db.Accounts().Count(map[string]any{"email": in.Email})
	if err != nil {
		return db.Account{}, "", err
	}
	if n > 0 {
		return db.Account{}, "", fmt.Errorf("%w: email %s is already registered", ErrConflict, in.Email)
	}

	tierName := in.Tier
	if tierName == "" {
		tierName = defaultTier
	}
	tier, err := s.getTierByName(tierName)
	if err != nil {
		return db.Account{}, "", err
	}

	secret := rand.Token(tokenLength)
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return db.Account{}, "", err
	}

	now := s.now()
	acct := db.Account{
		ID:        uuid.NewString(),
		Email:     in.Email,
		Name:      in.Name,
		TokenHash: string(hash),
		TierID:    tier.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.Accounts().Insert(&acct); err != nil {
		return db.Account{}, "", err
	}

	// tokens are "<account id>.<secret>" so auth can look the account
	// up without scanning the table
	return acct, acct.ID + "." + secret, nil
}

// AuthenticateToken resolves an API token to its account.
func (s *Store) AuthenticateToken(token string) (db.Account, error) {
	id, secret, found := strings.Cut(token, ".")
	if !found {
		return db.Account{}, fmt.Errorf("%w: malformed token", ErrNotFound)
	}

	acct, ok, err := s.db.Accounts().Get(id)
	if err != nil {
		return db.Account{}, err
	}
	if !ok || acct.TokenHash == "" {
		return db.Account{}, fmt.Errorf("%w: unknown account", ErrNotFound)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.TokenHash), []byte(secret)); err != nil {
		return db.Account{}, fmt.Errorf("%w: token mismatch", ErrNotFound)
	}
	return acct, nil
}

func (s *Store) GetAccount(accountID string) (db.Account, error) {
	acct, ok, err := s.db.Accounts().Get(accountID)
	if err != nil {
		return db.Account{}, err
	}
	if !ok {
		return db.Account{}, fmt.Errorf("%w: account %s", ErrNotFound, accountID)
	}
	return acct, nil
}

func (s *Store) UpdateAccount(accountID string, in model.AccountRequest) (db.Account, error) {
	acct, err := s.GetAccount(accountID)
	if err != nil {
		return db.Account{}, err
	}

	if in.Name != "" {
		acct.Name = in.Name
	}
	if in.Tier != "" {
		tier, err := s.getTierByName(in.Tier)
		if err != nil {
			return db.Account{}, err
		}
		acct.TierID = tier.ID
	}
	acct.UpdatedAt = s.now()

	if err := s.db.Accounts().Save(&acct); err != nil {
		return db.Account{}, err
	}
	return acct, nil
}

func (s *Store) ListTiers() ([]db.PricingTier, error) {
	return s.db.Tiers().List(map[string]any{"active": true})
}

func (s *Store) GetTierForAccount(accountID string) (db.PricingTier, error) {
	acct, err := s.GetAccount(accountID)
	if err != nil {
		return db.PricingTier{}, err
	}
	tier, ok, err := s.db.Tiers().Get(acct.TierID)
	if err != nil {
		return db.PricingTier{}, err
	}
	if !ok {
		return db.PricingTier{}, fmt.Errorf("%w: tier %s", ErrNotFound, acct.TierID)
	}
	return tier, nil
}

func (s *Store) getTierByName(name string) (db.PricingTier, error) {
	tiers, err := s.db.Tiers().List(map[string]any{"name": name, "active": true})
	if err != nil {
		return db.PricingTier{}, err
	}
	if len(tiers) == 0 {
		return db.PricingTier{}, fmt.Errorf("%w: tier %q", ErrNotFound, name)
	}
	return tiers[0], nil
}

// EnsureDefaultTiers seeds the pricing table on first boot. A zero
// MaxWebsites means unlimited.
func (s *Store) EnsureDefaultTiers() error {
	n, err := s.db.Tiers().Count(nil)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	now := s.now()
	defaults := []db.PricingTier{
		{
			Name:         "free",
			Price:        0,
			BillingCycle: "monthly",
			Description:  "Track a handful of personal sites",
			Features:     []string{"3 websites", "unlimited domains", "community support"},
			MaxWebsites:  3,
		},
		{
			Name:         "pro",
			Price:        9,
			BillingCycle: "monthly",
			Description:  "For freelancers juggling client sites",
			Features:     []string{"25 websites", "SERP tracking", "email support"},
			MaxWebsites:  25,
		},
		{
			Name:         "business",
			Price:        29,
			BillingCycle: "monthly",
			Description:  "Agencies and teams",
			Features:     []string{"unlimited websites", "SERP tracking", "priority support"},
			MaxWebsites:  0,
		},
	}
	for i := range defaults {
		defaults[i].ID = uuid.NewString()
		defaults[i].Active = true
		defaults[i].CreatedAt = now
		defaults[i].UpdatedAt = now
		if err := s.db.Tiers().Insert(&defaults[i]); err != nil {
			return err
		}
	}
	s.log.WithField("tiers", len(defaults)).Info("seeded default pricing tiers")
	return nil
}
