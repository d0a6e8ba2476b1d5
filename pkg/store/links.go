package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/siteledger/siteledger/pkg/db"
)

func validLinkKind(kind string) error {
	switch kind {
	case db.LinkKindDomain, db.LinkKindLinkedApp, db.LinkKindAPIWebhook:
		return nil
	}
	return fmt.Errorf("%w: invalid link kind %q", ErrValidation, kind)
}

// LinkWebsite adds websiteID to the membership set of the given entity.
// The operation is idempotent: linking an already-linked pair, or a
// pair where either side is missing, is a no-op rather than an error.
func (s *Store) LinkWebsite(accountID, kind, entityID, websiteID string) error {
	if err := validLinkKind(kind); err != nil {
		return err
	}
	if !s.linkTargetsExist(accountID, kind, entityID, websiteID) {
		return nil
	}

	now := s.now()
	return s.db.Transaction(func(tx db.Database) error {
		n, err := tx.Links().Count(map[string]any{
			"kind":       kind,
			"entity_id":  entityID,
			"website_id": websiteID,
		})
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		link := db.WebsiteLink{
			ID:        uuid.NewString(),
			Kind:      kind,
			EntityID:  entityID,
			WebsiteID: websiteID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Links().Insert(&link); err != nil {
			return err
		}
		return touchLinkOwner(tx, kind, entityID, now)
	})
}

// UnlinkWebsite removes websiteID from the entity's membership set.
// Unlinking a non-member is a no-op that leaves the set untouched.
func (s *Store) UnlinkWebsite(accountID, kind, entityID, websiteID string) error {
	if err := validLinkKind(kind); err != nil {
		return err
	}

	now := s.now()
	return s.db.Transaction(func(tx db.Database) error {
		removed, err := tx.Links().RemoveWhere(map[string]any{
			"kind":       kind,
			"entity_id":  entityID,
			"website_id": websiteID,
		})
		if err != nil {
			return err
		}
		if removed == 0 {
			return nil
		}
		return touchLinkOwner(tx, kind, entityID, now)
	})
}

func (s *Store) LinkDomainToWebsite(accountID, domainID, websiteID string) error {
	return s.LinkWebsite(accountID, db.LinkKindDomain, domainID, websiteID)
}

func (s *Store) UnlinkDomainFromWebsite(accountID, domainID, websiteID string) error {
	return s.UnlinkWebsite(accountID, db.LinkKindDomain, domainID, websiteID)
}

// linkTargetsExist checks both ends of a prospective link. Missing or
// foreign-owned records make the link a silent no-op.
func (s *Store) linkTargetsExist(accountID, kind, entityID, websiteID string) bool {
	if _, err := fetch(s.db.Websites(), accountID, websiteID); err != nil {
		s.log.WithField("websiteId", websiteID).Debug("link skipped, website missing")
		return false
	}

	var err error
	switch kind {
	case db.LinkKindDomain:
		_, err = fetch(s.db.Domains(), accountID, entityID)
	case db.LinkKindLinkedApp:
		_, err = fetch(s.db.LinkedApps(), accountID, entityID)
	case db.LinkKindAPIWebhook:
		_, err = fetch(s.db.APIWebhooks(), accountID, entityID)
	}
	if err != nil {
		s.log.WithField("entityId", entityID).Debug("link skipped, entity missing")
		return false
	}
	return true
}

// touchLinkOwner refreshes UpdatedAt on the entity whose membership set
// changed, since the join rows are part of that entity's state.
func touchLinkOwner(tx db.Database, kind, entityID string, now time.Time) error {
	switch kind {
	case db.LinkKindDomain:
		rec, ok, err := tx.Domains().Get(entityID)
		if err != nil || !ok {
			return err
		}
		rec.UpdatedAt = now
		return tx.Domains().Save(&rec)
	case db.LinkKindLinkedApp:
		rec, ok, err := tx.LinkedApps().Get(entityID)
		if err != nil || !ok {
			return err
		}
		rec.UpdatedAt = now
		return tx.LinkedApps().Save(&rec)
	case db.LinkKindAPIWebhook:
		rec, ok, err := tx.APIWebhooks().Get(entityID)
		if err != nil || !ok {
			return err
		}
		rec.UpdatedAt = now
		return tx.APIWebhooks().Save(&rec)
	}
	return nil
}

// linkedWebsiteIDs hydrates the membership list for one entity. The
// result is never nil so callers serialize an empty set as [].
func linkedWebsiteIDs(database db.Database, kind, entityID string) ([]string, error) {
	links, err := database.Links().List(map[string]any{
		"kind":      kind,
		"entity_id": entityID,
	})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.WebsiteID)
	}
	return ids, nil
}
