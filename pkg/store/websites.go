package store

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/siteledger/siteledger/pkg/db"
	"github.com/siteledger/siteledger/pkg/model"
)

func (s *Store) AddWebsite(accountID string, in model.WebsiteRequest) (db.Website, error) {
	if in.Name == "" {
		return db.Website{}, fmt.Errorf("%w: website name must be provided", ErrValidation)
	}
	if in.URL == "" {
		return db.Website{}, fmt.Errorf("%w: website url must be provided", ErrValidation)
	}
	if in.Category == "" {
		in.Category = model.CategoryOwned
	}
	if err := in.Category.IsValid(); err != nil {
		return db.Website{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	renewal, err := parseDate(in.RenewalDate)
	if err != nil {
		return db.Website{}, err
	}

	if err := s.checkWebsiteQuota(accountID); err != nil {
		return db.Website{}, err
	}

	now := s.now()
	site := db.Website{
		Base: db.Base{
			ID:        uuid.NewString(),
			AccountID: accountID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:            in.Name,
		URL:             in.URL,
		Category:        string(in.Category),
		Status:          in.Status,
		Description:     in.Description,
		HostingProvider: in.HostingProvider,
		Registrar:       in.Registrar,
		RepositoryURL:   in.RepositoryURL,
		TechStack:       in.TechStack,
		Tags:            in.Tags,
		Cost:            in.Cost,
		BillingCycle:    in.BillingCycle,
		RenewalDate:     renewal,
		Notes:           in.Notes,
	}
	if site.Status == "" {
		site.Status = model.WebsiteStatusActive
	}

	if err := s.db.Websites().Insert(&site); err != nil {
		return db.Website{}, err
	}
	return site, nil
}

func (s *Store) UpdateWebsite(accountID, id string, in model.WebsiteRequest) (db.Website, error) {
	site, err := fetch(s.db.Websites(), accountID, id)
	if err != nil {
		return db.Website{}, err
	}
	if in.Name == "" {
		return db.Website{}, fmt.Errorf("%w: website name must be provided", ErrValidation)
	}
	if in.URL == "" {
		return db.Website{}, fmt.Errorf("%w: website url must be provided", ErrValidation)
	}
	if in.Category == "" {
		in.Category = model.CategoryOwned
	}
	if err := in.Category.IsValid(); err != nil {
		return db.Website{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	renewal, err := parseDate(in.RenewalDate)
	if err != nil {
		return db.Website{}, err
	}

	site.Name = in.Name
	site.URL = in.URL
	site.Category = string(in.Category)
	site.Status = in.Status
	site.Description = in.Description
	site.HostingProvider = in.HostingProvider
	site.Registrar = in.Registrar
	site.RepositoryURL = in.RepositoryURL
	site.TechStack = in.TechStack
	site.Tags = in.Tags
	site.Cost = in.Cost
	site.BillingCycle = in.BillingCycle
	site.RenewalDate = renewal
	site.Notes = in.Notes
	if site.Status == "" {
		site.Status = model.WebsiteStatusActive
	}
	site.UpdatedAt = s.now()

	if err := s.db.Websites().Save(&site); err != nil {
		return db.Website{}, err
	}
	return site, nil
}

// DeleteWebsite removes the website plus everything hanging off it:
// credentials and SERP entries are deleted outright, and the website id
// is pruned from every domain, linked app and API/webhook membership.
// The membership-bearing records themselves survive.
func (s *Store) DeleteWebsite(accountID, id string) error {
	if _, err := fetch(s.db.Websites(), accountID, id); err != nil {
		return err
	}

	now := s.now()
	return s.db.Transaction(func(tx db.Database) error {
		if _, err := tx.Credentials().RemoveWhere(map[string]any{"website_id": id}); err != nil {
			return err
		}
		if _, err := tx.SERPEntries().RemoveWhere(map[string]any{"website_id": id}); err != nil {
			return err
		}

		links, err := tx.Links().List(map[string]any{"website_id": id})
		if err != nil {
			return err
		}
		if _, err := tx.Links().RemoveWhere(map[string]any{"website_id": id}); err != nil {
			return err
		}
		for _, l := range links {
			if err := touchLinkOwner(tx, l.Kind, l.EntityID, now); err != nil {
				return err
			}
		}

		_, err = tx.Websites().Remove(id)
		return err
	})
}

func (s *Store) GetWebsiteByID(accountID, id string) (db.Website, error) {
	return fetch(s.db.Websites(), accountID, id)
}

func (s *Store) ListWebsites(accountID string) ([]db.Website, error) {
	return s.db.Websites().List(map[string]any{"account_id": accountID})
}

func (s *Store) ListWebsitesByCategory(accountID string, category model.WebsiteCategory) ([]db.Website, error) {
	if err := category.IsValid(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return s.db.Websites().List(map[string]any{
		"account_id": accountID,
		"category":   string(category),
	})
}

func (s *Store) checkWebsiteQuota(accountID string) error {
	acct, ok, err := s.db.Accounts().Get(accountID)
	if err != nil || !ok {
		return err // no account row means no tier to enforce
	}
	tier, ok, err := s.db.Tiers().Get(acct.TierID)
	if err != nil {
		return err
	}
	if !ok || tier.MaxWebsites == 0 {
		return nil
	}
	count, err := s.db.Websites().Count(map[string]any{"account_id": accountID})
	if err != nil {
		return err
	}
	if count >= int64(tier.MaxWebsites) {
		return fmt.Errorf("%w: the %s plan allows %d websites", ErrQuotaExceeded, tier.Name, tier.MaxWebsites)
	}
	return nil
}
