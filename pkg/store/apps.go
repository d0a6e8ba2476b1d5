package store

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/siteledger/siteledger/pkg/db"
	"github.com/siteledger/siteledger/pkg/model"
)

func (s *Store) AddLinkedApp(accountID string, in model.LinkedAppRequest) (db.LinkedApp, error) {
	if in.Name == "" {
		return db.LinkedApp{}, fmt.Errorf("%w: app name must be provided", ErrValidation)
	}

	now := s.now()
	app := db.LinkedApp{
		Base: db.Base{
			ID:        uuid.NewString(),
			AccountID: accountID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:           in.Name,
		Type:           in.Type,
		Status:         in.Status,
		Plan:           in.Plan,
		Cost:           in.Cost,
		BillingCycle:   in.BillingCycle,
		URL:            in.URL,
		Notes:          in.Notes,
		LinkedWebsites: []string{},
	}

	if err := s.db.LinkedApps().Insert(&app); err != nil {
		return db.LinkedApp{}, err
	}
	return app, nil
}

func (s *Store) UpdateLinkedApp(accountID, id string, in model.LinkedAppRequest) (db.LinkedApp, error) {
	app, err := fetch(s.db.LinkedApps(), accountID, id)
	if err != nil {
		return db.LinkedApp{}, err
	}
	if in.Name == "" {
		return db.LinkedApp{}, fmt.Errorf("%w: app name must be provided", ErrValidation)
	}

	app.Name = in.Name
	app.Type = in.Type
	app.Status = in.Status
	app.Plan = in.Plan
	app.Cost = in.Cost
	app.BillingCycle = in.BillingCycle
	app.URL = in.URL
	app.Notes = in.Notes
	app.UpdatedAt = s.now()

	if err := s.db.LinkedApps().Save(&app); err != nil {
		return db.LinkedApp{}, err
	}
	return s.hydrateLinkedApp(app)
}

// DeleteLinkedApp removes the app and its own membership rows; no
// other entity is affected.
func (s *Store) DeleteLinkedApp(accountID, id string) error {
	if _, err := fetch(s.db.LinkedApps(), accountID, id); err != nil {
		return err
	}
	return s.db.Transaction(func(tx db.Database) error {
		if _, err := tx.Links().RemoveWhere(map[string]any{
			"kind":      db.LinkKindLinkedApp,
			"entity_id": id,
		}); err != nil {
			return err
		}
		_, err := tx.LinkedApps().Remove(id)
		return err
	})
}

func (s *Store) GetLinkedAppByID(accountID, id string) (db.LinkedApp, error) {
	app, err := fetch(s.db.LinkedApps(), accountID, id)
	if err != nil {
		return db.LinkedApp{}, err
	}
	return s.hydrateLinkedApp(app)
}

func (s *Store) ListLinkedApps(accountID string) ([]db.LinkedApp, error) {
	apps, err := s.db.LinkedApps().List(map[string]any{"account_id": accountID})
	if err != nil {
		return nil, err
	}
	for i := range apps {
		if apps[i], err = s.hydrateLinkedApp(apps[i]); err != nil {
			return nil, err
		}
	}
	return apps, nil
}

func (s *Store) GetLinkedAppsByWebsiteID(accountID, websiteID string) ([]db.LinkedApp, error) {
	links, err := s.db.Links().List(map[string]any{
		"kind":       db.LinkKindLinkedApp,
		"website_id": websiteID,
	})
	if err != nil {
		return nil, err
	}

	apps := make([]db.LinkedApp, 0, len(links))
	for _, l := range links {
		app, ok, err := s.db.LinkedApps().Get(l.EntityID)
		if err != nil {
			return nil, err
		}
		if !ok || app.AccountID != accountID {
			continue
		}
		if app, err = s.hydrateLinkedApp(app); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, nil
}

func (s *Store) hydrateLinkedApp(app db.LinkedApp) (db.LinkedApp, error) {
	ids, err := linkedWebsiteIDs(s.db, db.LinkKindLinkedApp, app.ID)
	if err != nil {
		return db.LinkedApp{}, err
	}
	app.LinkedWebsites = ids
	return app, nil
}
