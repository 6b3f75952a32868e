package credentials

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/samber/mo"

	"jirabackend/db"
	"jirabackend/models"
)

type CredentialsService struct {
	credentialsRepo db.CredentialsRepository
}

func NewCredentialsService(repo db.CredentialsRepository) *CredentialsService {
	return &CredentialsService{credentialsRepo: repo}
}

// Put replaces whatever is stored for userID with credential
func (s *CredentialsService) Put(ctx context.Context, userID string, credential *models.Credential) error {
	log.Debug().Str("user_id", userID).Msg("📋 Starting to store jira credential")
	if userID == "" {
		return fmt.Errorf("user ID cannot be empty")
	}
	if credential == nil {
		return fmt.Errorf("credential cannot be nil")
	}

	credential.UserID = userID
	if err := s.credentialsRepo.UpsertCredential(ctx, credential); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}

	log.Debug().Str("user_id", userID).Msg("📋 Completed successfully - stored jira credential")
	return nil
}

func (s *CredentialsService) Get(ctx context.Context, userID string) (mo.Option[*models.Credential], error) {
	if userID == "" {
		return mo.None[*models.Credential](), nil
	}

	maybeCredential, err := s.credentialsRepo.GetCredentialByUserID(ctx, userID)
	if err != nil {
		return mo.None[*models.Credential](), fmt.Errorf("failed to get credential: %w", err)
	}
	return maybeCredential, nil
}

// Delete removes the credential; deleting a missing credential is not an error
func (s *CredentialsService) Delete(ctx context.Context, userID string) error {
	log.Debug().Str("user_id", userID).Msg("📋 Starting to delete jira credential")
	if userID == "" {
		return fmt.Errorf("user ID cannot be empty")
	}

	deleted, err := s.credentialsRepo.DeleteCredentialByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}

	log.Debug().Str("user_id", userID).Bool("existed", deleted).Msg("📋 Completed successfully - deleted jira credential")
	return nil
}

func (s *CredentialsService) List(ctx context.Context) ([]*models.Credential, error) {
	credentials, err := s.credentialsRepo.ListCredentials(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}
	return credentials, nil
}
