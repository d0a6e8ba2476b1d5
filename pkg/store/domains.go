package store

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/siteledger/siteledger/pkg/db"
	"github.com/siteledger/siteledger/pkg/model"
)

func (s *Store) AddDomain(accountID string, in model.DomainRequest) (db.Domain, error) {
	if in.Name == "" {
		return db.Domain{}, fmt.Errorf("%w: domain name must be provided", ErrValidation)
	}
	registration, err := parseDate(in.RegistrationDate)
	if err != nil {
		return db.Domain{}, err
	}
	expiration, err := parseDate(in.ExpirationDate)
	if err != nil {
		return db.Domain{}, err
	}

	now := s.now()
	domain := db.Domain{
		Base: db.Base{
			ID:        uuid.NewString(),
			AccountID: accountID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:             in.Name,
		Status:           in.Status,
		Registrar:        in.Registrar,
		DNSProvider:      in.DNSProvider,
		RegistrationDate: registration,
		ExpirationDate:   expiration,
		AutoRenew:        in.AutoRenew,
		Cost:             in.Cost,
		BillingCycle:     in.BillingCycle,
		Nameservers:      in.Nameservers,
		Subdomains:       buildSubdomains(in.Subdomains),
		Notes:            in.Notes,
		LinkedWebsites:   []string{},
	}
	if domain.Status == "" {
		domain.Status = model.DomainStatusActive
	}

	if err := s.db.Domains().Insert(&domain); err != nil {
		return db.Domain{}, err
	}
	return domain, nil
}

func (s *Store) UpdateDomain(accountID, id string, in model.DomainRequest) (db.Domain, error) {
	domain, err := fetch(s.db.Domains(), accountID, id)
	if err != nil {
		return db.Domain{}, err
	}
	if in.Name == "" {
		return db.Domain{}, fmt.Errorf("%w: domain name must be provided", ErrValidation)
	}
	registration, err := parseDate(in.RegistrationDate)
	if err != nil {
		return db.Domain{}, err
	}
	expiration, err := parseDate(in.ExpirationDate)
	if err != nil {
		return db.Domain{}, err
	}

	domain.Name = in.Name
	domain.Status = in.Status
	domain.Registrar = in.Registrar
	domain.DNSProvider = in.DNSProvider
	domain.RegistrationDate = registration
	domain.ExpirationDate = expiration
	domain.AutoRenew = in.AutoRenew
	domain.Cost = in.Cost
	domain.BillingCycle = in.BillingCycle
	domain.Nameservers = in.Nameservers
	domain.Subdomains = buildSubdomains(in.Subdomains)
	domain.Notes = in.Notes
	domain.UpdatedAt = s.now()

	if err := s.db.Domains().Save(&domain); err != nil {
		return db.Domain{}, err
	}
	return s.hydrateDomain(s.db, domain)
}

// DeleteDomain removes the domain, all DNS records pointing at it and
// its own membership rows. Websites are never touched.
func (s *Store) DeleteDomain(accountID, id string) error {
	if _, err := fetch(s.db.Domains(), accountID, id); err != nil {
		return err
	}

	return s.db.Transaction(func(tx db.Database) error {
		if _, err := tx.DNSRecords().RemoveWhere(map[string]any{"domain_id": id}); err != nil {
			return err
		}
		if _, err := tx.Links().RemoveWhere(map[string]any{
			"kind":      db.LinkKindDomain,
			"entity_id": id,
		}); err != nil {
			return err
		}
		_, err := tx.Domains().Remove(id)
		return err
	})
}

func (s *Store) GetDomainByID(accountID, id string) (db.Domain, error) {
	domain, err := fetch(s.db.Domains(), accountID, id)
	if err != nil {
		return db.Domain{}, err
	}
	return s.hydrateDomain(s.db, domain)
}

func (s *Store) ListDomains(accountID string) ([]db.Domain, error) {
	domains, err := s.db.Domains().List(map[string]any{"account_id": accountID})
	if err != nil {
		return nil, err
	}
	for i := range domains {
		if domains[i], err = s.hydrateDomain(s.db, domains[i]); err != nil {
			return nil, err
		}
	}
	return domains, nil
}

// GetDomainsByWebsiteID returns the domains whose membership set
// contains the given website.
func (s *Store) GetDomainsByWebsiteID(accountID, websiteID string) ([]db.Domain, error) {
	links, err := s.db.Links().List(map[string]any{
		"kind":       db.LinkKindDomain,
		"website_id": websiteID,
	})
	if err != nil {
		return nil, err
	}

	domains := make([]db.Domain, 0, len(links))
	for _, l := range links {
		domain, ok, err := s.db.Domains().Get(l.EntityID)
		if err != nil {
			return nil, err
		}
		if !ok || domain.AccountID != accountID {
			continue
		}
		if domain, err = s.hydrateDomain(s.db, domain); err != nil {
			return nil, err
		}
		domains = append(domains, domain)
	}
	return domains, nil
}

func (s *Store) hydrateDomain(database db.Database, domain db.Domain) (db.Domain, error) {
	ids, err := linkedWebsiteIDs(database, db.LinkKindDomain, domain.ID)
	if err != nil {
		return db.Domain{}, err
	}
	domain.LinkedWebsites = ids
	return domain, nil
}

func buildSubdomains(in []model.SubdomainRequest) []db.Subdomain {
	subs := make([]db.Subdomain, 0, len(in))
	for _, sd := range in {
		subs = append(subs, db.Subdomain{
			ID:      uuid.NewString(),
			Name:    sd.Name,
			Purpose: sd.Purpose,
		})
	}
	return subs
}

func (s *Store) AddDNSRecord(accountID, domainID string, in model.DNSRecordRequest) (db.DNSRecord, error) {
	if err := in.Type.IsValid(); err != nil {
		return db.DNSRecord{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if in.Name == "" {
		return db.DNSRecord{}, fmt.Errorf("%w: record name must be provided", ErrValidation)
	}
	if in.Value == "" {
		return db.DNSRecord{}, fmt.Errorf("%w: record value must be provided", ErrValidation)
	}
	// Children are never created against a parent that does not exist.
	if _, err := fetch(s.db.Domains(), accountID, domainID); err != nil {
		return db.DNSRecord{}, err
	}

	now := s.now()
	record := db.DNSRecord{
		Base: db.Base{
			ID:        uuid.NewString(),
			AccountID: accountID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		DomainID: domainID,
		Type:     string(in.Type),
		Name:     in.Name,
		Value:    in.Value,
		TTL:      in.TTL,
		Priority: in.Priority,
		Notes:    in.Notes,
	}
	if record.TTL == 0 {
		record.TTL = 3600
	}

	if err := s.db.DNSRecords().Insert(&record); err != nil {
		return db.DNSRecord{}, err
	}
	return record, nil
}

func (s *Store) UpdateDNSRecord(accountID, id string, in model.DNSRecordRequest) (db.DNSRecord, error) {
	record, err := fetch(s.db.DNSRecords(), accountID, id)
	if err != nil {
		return db.DNSRecord{}, err
	}
	if err := in.Type.IsValid(); err != nil {
		return db.DNSRecord{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if in.Name == "" {
		return db.DNSRecord{}, fmt.Errorf("%w: record name must be provided", ErrValidation)
	}
	if in.Value == "" {
		return db.DNSRecord{}, fmt.Errorf("%w: record value must be provided", ErrValidation)
	}

	record.Type = string(in.Type)
	record.Name = in.Name
	record.Value = in.Value
	record.TTL = in.TTL
	if record.TTL == 0 {
		record.TTL = 3600
	}
	record.Priority = in.Priority
	record.Notes = in.Notes
	record.Drifted = false
	record.UpdatedAt = s.now()

	if err := s.db.DNSRecords().Save(&record); err != nil {
		return db.DNSRecord{}, err
	}
	return record, nil
}

func (s *Store) DeleteDNSRecord(accountID, id string) error {
	if _, err := fetch(s.db.DNSRecords(), accountID, id); err != nil {
		return err
	}
	_, err := s.db.DNSRecords().Remove(id)
	return err
}

func (s *Store) GetDNSRecordByID(accountID, id string) (db.DNSRecord, error) {
	return fetch(s.db.DNSRecords(), accountID, id)
}

func (s *Store) GetDNSRecordsByDomainID(accountID, domainID string) ([]db.DNSRecord, error) {
	return s.db.DNSRecords().List(map[string]any{
		"account_id": accountID,
		"domain_id":  domainID,
	})
}
