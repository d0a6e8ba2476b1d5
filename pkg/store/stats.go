package store

import (
	"github.com/siteledger/siteledger/pkg/model"
)

// GetStats counts every asset kind the account tracks, for the
// dashboard overview.
func (s *Store) GetStats(accountID string) (model.StatsResponse, error) {
	conds := map[string]any{"account_id": accountID}

	var (
		stats model.StatsResponse
		err   error
	)
	if stats.Websites, err = s.db.Websites().Count(conds); err != nil {
		return model.StatsResponse{}, err
	}
	if stats.Domains, err = s.db.Domains().Count(conds); err != nil {
		return model.StatsResponse{}, err
	}
	if stats.DNSRecords, err = s.db.DNSRecords().Count(conds); err != nil {
		return model.StatsResponse{}, err
	}
	if stats.Credentials, err = s.db.Credentials().Count(conds); err != nil {
		return model.StatsResponse{}, err
	}
	if stats.SERPEntries, err = s.db.SERPEntries().Count(conds); err != nil {
		return model.StatsResponse{}, err
	}
	if stats.LinkedApps, err = s.db.LinkedApps().Count(conds); err != nil {
		return model.StatsResponse{}, err
	}
	if stats.APIWebhooks, err = s.db.APIWebhooks().Count(conds); err != nil {
		return model.StatsResponse{}, err
	}
	return stats, nil
}
