package badgerstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/mo"
	"github.com/timshannon/badgerhold/v4"

	"jirabackend/models"
)

type CredentialsRepository struct {
	store *Store
}

func NewCredentialsRepository(store *Store) *CredentialsRepository {
	return &CredentialsRepository{store: store}
}

func (r *CredentialsRepository) UpsertCredential(ctx context.Context, credential *models.Credential) error {
	if credential.UserID == "" {
		return fmt.Errorf("credential user ID is required")
	}
	if err := r.store.hold.Upsert(credential.UserID, credential); err != nil {
		return fmt.Errorf("failed to upsert jira credential: %w", err)
	}
	return nil
}

func (r *CredentialsRepository) GetCredentialByUserID(ctx context.Context, userID string) (mo.Option[*models.Credential], error) {
	var credential models.Credential
	if err := r.store.hold.Get(userID, &credential); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return mo.None[*models.Credential](), nil
		}
		return mo.None[*models.Credential](), fmt.Errorf("failed to get jira credential: %w", err)
	}
	return mo.Some(&credential), nil
}

func (r *CredentialsRepository) DeleteCredentialByUserID(ctx context.Context, userID string) (bool, error) {
	if err := r.store.hold.Delete(userID, &models.Credential{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete jira credential: %w", err)
	}
	return true, nil
}

func (r *CredentialsRepository) ListCredentials(ctx context.Context) ([]*models.Credential, error) {
	var credentials []*models.Credential
	if err := r.store.hold.Find(&credentials, badgerhold.Where("UserID").Ne("").SortBy("UserID")); err != nil {
		return nil, fmt.Errorf("failed to list jira credentials: %w", err)
	}
	return credentials, nil
}
