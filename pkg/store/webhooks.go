package store

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/siteledger/siteledger/pkg/db"
	"github.com/siteledger/siteledger/pkg/model"
)

func (s *Store) AddAPIWebhook(accountID string, in model.APIWebhookRequest) (db.APIWebhook, error) {
	if in.Name == "" {
		return db.APIWebhook{}, fmt.Errorf("%w: name must be provided", ErrValidation)
	}
	if in.Endpoint == "" {
		return db.APIWebhook{}, fmt.Errorf("%w: endpoint must be provided", ErrValidation)
	}

	now := s.now()
	hook := db.APIWebhook{
		Base: db.Base{
			ID:        uuid.NewString(),
			AccountID: accountID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:           in.Name,
		Type:           in.Type,
		Endpoint:       in.Endpoint,
		Method:         in.Method,
		Status:         in.Status,
		APIKey:         in.APIKey,
		SecretKey:      in.SecretKey,
		Headers:        db.HeaderMap(in.Headers),
		RateLimit:      in.RateLimit,
		Notes:          in.Notes,
		LinkedWebsites: []string{},
	}

	if err := s.db.APIWebhooks().Insert(&hook); err != nil {
		return db.APIWebhook{}, err
	}
	return hook, nil
}

func (s *Store) UpdateAPIWebhook(accountID, id string, in model.APIWebhookRequest) (db.APIWebhook, error) {
	hook, err := fetch(s.db.APIWebhooks(), accountID, id)
	if err != nil {
		return db.APIWebhook{}, err
	}
	if in.Name == "" {
		return db.APIWebhook{}, fmt.Errorf("%w: name must be provided", ErrValidation)
	}

	hook.Name = in.Name
	hook.Type = in.Type
	hook.Endpoint = in.Endpoint
	hook.Method = in.Method
	hook.Status = in.Status
	hook.APIKey = in.APIKey
	hook.SecretKey = in.SecretKey
	hook.Headers = db.HeaderMap(in.Headers)
	hook.RateLimit = in.RateLimit
	hook.Notes = in.Notes
	hook.UpdatedAt = s.now()

	if err := s.db.APIWebhooks().Save(&hook); err != nil {
		return db.APIWebhook{}, err
	}
	return s.hydrateAPIWebhook(hook)
}

func (s *Store) DeleteAPIWebhook(accountID, id string) error {
	if _, err := fetch(s.db.APIWebhooks(), accountID, id); err != nil {
		return err
	}
	return s.db.Transaction(func(tx db.Database) error {
		if _, err := tx.Links().RemoveWhere(map[string]any{
			"kind":      db.LinkKindAPIWebhook,
			"entity_id": id,
		}); err != nil {
			return err
		}
		_, err := tx.APIWebhooks().Remove(id)
		return err
	})
}

func (s *Store) GetAPIWebhookByID(accountID, id string) (db.APIWebhook, error) {
	hook, err := fetch(s.db.APIWebhooks(), accountID, id)
	if err != nil {
		return db.APIWebhook{}, err
	}
	return s.hydrateAPIWebhook(hook)
}

func (s *Store) ListAPIWebhooks(accountID string) ([]db.APIWebhook, error) {
	hooks, err := s.db.APIWebhooks().List(map[string]any{"account_id": accountID})
	if err != nil {
		return nil, err
	}
	for i := range hooks {
		if hooks[i], err = s.hydrateAPIWebhook(hooks[i]); err != nil {
			return nil, err
		}
	}
	return hooks, nil
}

func (s *Store) GetAPIWebhooksByWebsiteID(accountID, websiteID string) ([]db.APIWebhook, error) {
	links, err := s.db.Links().List(map[string]any{
		"kind":       db.LinkKindAPIWebhook,
		"website_id": websiteID,
	})
	if err != nil {
		return nil, err
	}

	hooks := make([]db.APIWebhook, 0, len(links))
	for _, l := range links {
		hook, ok, err := s.db.APIWebhooks().Get(l.EntityID)
		if err != nil {
			return nil, err
		}
		if !ok || hook.AccountID != accountID {
			continue
		}
		if hook, err = s.hydrateAPIWebhook(hook); err != nil {
			return nil, err
		}
		hooks = append(hooks, hook)
	}
	return hooks, nil
}

func (s *Store) hydrateAPIWebhook(hook db.APIWebhook) (db.APIWebhook, error) {
	ids, err := linkedWebsiteIDs(s.db, db.LinkKindAPIWebhook, hook.ID)
	if err != nil {
		return db.APIWebhook{}, err
	}
	hook.LinkedWebsites = ids
	return hook, nil
}
