package store

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/siteledger/siteledger/pkg/db"
	"github.com/siteledger/siteledger/pkg/model"
)

func (s *Store) AddCredential(accountID, websiteID string, in model.CredentialRequest) (db.Credential, error) {
	if in.Name == "" {
		return db.Credential{}, fmt.Errorf("%w: credential name must be provided", ErrValidation)
	}
	if err := in.Kind.IsValid(); err != nil {
		return db.Credential{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	expiration, err := parseDate(in.ExpirationDate)
	if err != nil {
		return db.Credential{}, err
	}
	if _, err := fetch(s.db.Websites(), accountID, websiteID); err != nil {
		return db.Credential{}, err
	}

	now := s.now()
	cred := db.Credential{
		Base: db.Base{
			ID:        uuid.NewString(),
			AccountID: accountID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		WebsiteID:      websiteID,
		Kind:           string(in.Kind),
		Name:           in.Name,
		Username:       in.Username,
		Password:       in.Password,
		URL:            in.URL,
		AccountRef:     in.AccountRef,
		APIKey:         in.APIKey,
		SecretKey:      in.SecretKey,
		ExpirationDate: expiration,
		Notes:          in.Notes,
	}

	if err := s.db.Credentials().Insert(&cred); err != nil {
		return db.Credential{}, err
	}
	return cred, nil
}

func (s *Store) UpdateCredential(accountID, id string, in model.CredentialRequest) (db.Credential, error) {
	cred, err := fetch(s.db.Credentials(), accountID, id)
	if err != nil {
		return db.Credential{}, err
	}
	if in.Name == "" {
		return db.Credential{}, fmt.Errorf("%w: credential name must be provided", ErrValidation)
	}
	if err := in.Kind.IsValid(); err != nil {
		return db.Credential{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	expiration, err := parseDate(in.ExpirationDate)
	if err != nil {
		return db.Credential{}, err
	}

	cred.Kind = string(in.Kind)
	cred.Name = in.Name
	cred.Username = in.Username
	cred.Password = in.Password
	cred.URL = in.URL
	cred.AccountRef = in.AccountRef
	cred.APIKey = in.APIKey
	cred.SecretKey = in.SecretKey
	cred.ExpirationDate = expiration
	cred.Notes = in.Notes
	cred.UpdatedAt = s.now()

	if err := s.db.Credentials().Save(&cred); err != nil {
		return db.Credential{}, err
	}
	return cred, nil
}

func (s *Store) DeleteCredential(accountID, id string) error {
	if _, err := fetch(s.db.Credentials(), accountID, id); err != nil {
		return err
	}
	_, err := s.db.Credentials().Remove(id)
	return err
}

func (s *Store) GetCredentialByID(accountID, id string) (db.Credential, error) {
	return fetch(s.db.Credentials(), accountID, id)
}

func (s *Store) GetCredentialsByWebsiteID(accountID, websiteID string) ([]db.Credential, error) {
	return s.db.Credentials().List(map[string]any{
		"account_id": accountID,
		"website_id": websiteID,
	})
}

// MaskCredential blanks the secret fields for display. The record in
// the store is untouched.
func MaskCredential(cred db.Credential) db.Credential {
	cred.Password = model.MaskSecret(cred.Password)
	cred.APIKey = model.MaskSecret(cred.APIKey)
	cred.SecretKey = model.MaskSecret(cred.SecretKey)
	return cred
}
