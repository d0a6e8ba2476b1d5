package store

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/siteledger/siteledger/pkg/db"
	"github.com/siteledger/siteledger/pkg/model"
)

func (s *Store) AddSERPEntry(accountID, websiteID string, in model.SERPEntryRequest) (db.SERPEntry, error) {
	if in.Keyword == "" {
		return db.SERPEntry{}, fmt.Errorf("%w: keyword must be provided", ErrValidation)
	}
	if _, err := fetch(s.db.Websites(), accountID, websiteID); err != nil {
		return db.SERPEntry{}, err
	}

	now := s.now()
	entry := db.SERPEntry{
		Base: db.Base{
			ID:        uuid.NewString(),
			AccountID: accountID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		WebsiteID:    websiteID,
		Keyword:      in.Keyword,
		SearchEngine: in.SearchEngine,
		Location:     in.Location,
		Language:     in.Language,
		Device:       in.Device,
		CurrentRank:  in.CurrentRank,
		PreviousRank: in.PreviousRank,
		TargetURL:    in.TargetURL,
	}
	if entry.SearchEngine == "" {
		entry.SearchEngine = "google"
	}

	if err := s.db.SERPEntries().Insert(&entry); err != nil {
		return db.SERPEntry{}, err
	}
	return entry, nil
}

func (s *Store) UpdateSERPEntry(accountID, id string, in model.SERPEntryRequest) (db.SERPEntry, error) {
	entry, err := fetch(s.db.SERPEntries(), accountID, id)
	if err != nil {
		return db.SERPEntry{}, err
	}
	if in.Keyword == "" {
		return db.SERPEntry{}, fmt.Errorf("%w: keyword must be provided", ErrValidation)
	}

	entry.Keyword = in.Keyword
	entry.SearchEngine = in.SearchEngine
	entry.Location = in.Location
	entry.Language = in.Language
	entry.Device = in.Device
	entry.CurrentRank = in.CurrentRank
	entry.PreviousRank = in.PreviousRank
	entry.TargetURL = in.TargetURL
	entry.UpdatedAt = s.now()

	if err := s.db.SERPEntries().Save(&entry); err != nil {
		return db.SERPEntry{}, err
	}
	return entry, nil
}

// RecordRank rolls the current rank into the previous one and stores
// the fresh observation, so the trend arrow always compares the last
// two data points.
func (s *Store) RecordRank(accountID, id string, rank int) (db.SERPEntry, error) {
	entry, err := fetch(s.db.SERPEntries(), accountID, id)
	if err != nil {
		return db.SERPEntry{}, err
	}

	entry.PreviousRank = entry.CurrentRank
	entry.CurrentRank = rank
	entry.UpdatedAt = s.now()

	if err := s.db.SERPEntries().Save(&entry); err != nil {
		return db.SERPEntry{}, err
	}
	return entry, nil
}

func (s *Store) DeleteSERPEntry(accountID, id string) error {
	if _, err := fetch(s.db.SERPEntries(), accountID, id); err != nil {
		return err
	}
	_, err := s.db.SERPEntries().Remove(id)
	return err
}

func (s *Store) GetSERPEntryByID(accountID, id string) (db.SERPEntry, error) {
	return fetch(s.db.SERPEntries(), accountID, id)
}

func (s *Store) GetSERPEntriesByWebsiteID(accountID, websiteID string) ([]db.SERPEntry, error) {
	return s.db.SERPEntries().List(map[string]any{
		"account_id": accountID,
		"website_id": websiteID,
	})
}
