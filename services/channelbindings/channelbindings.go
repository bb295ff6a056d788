package channelbindings

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"eztestbot/clients"
	"eztestbot/core"
	"eztestbot/db"
	"eztestbot/models"
)

type ChannelBindingsService struct {
	bindingsRepo *db.PostgresChannelBindingsRepository
	domainClient clients.DomainClient
}

func NewChannelBindingsService(
	repo *db.PostgresChannelBindingsRepository,
	domainClient clients.DomainClient,
) *ChannelBindingsService {
	return &ChannelBindingsService{
		bindingsRepo: repo,
		domainClient: domainClient,
	}
}

func (s *ChannelBindingsService) ResolveBinding(
	ctx context.Context,
	channelID string,
) (mo.Option[*models.ChannelBinding], error) {
	log.Printf("📋 Starting to resolve binding for channel: %s", channelID)

	if channelID == "" {
		return mo.None[*models.ChannelBinding](), fmt.Errorf("channel ID cannot be empty")
	}

	dbBinding, err := s.bindingsRepo.GetChannelBindingByChannelID(ctx, channelID)
	if err != nil {
		return mo.None[*models.ChannelBinding](), fmt.Errorf("failed to get channel binding: %w", err)
	}

	if !dbBinding.IsPresent() {
		log.Printf("📋 Completed successfully - no binding found for channel: %s", channelID)
		return mo.None[*models.ChannelBinding](), nil
	}

	binding := dbBinding.MustGet().ToChannelBinding()
	log.Printf("📋 Completed successfully - channel %s is bound to project %s", channelID, binding.ProjectID)
	return mo.Some(binding), nil
}

// BindChannel validates the target project exists, then writes the binding
// with upsert semantics: re-binding an already-bound channel replaces its
// project, never duplicates it.
func (s *ChannelBindingsService) BindChannel(
	ctx context.Context,
	channelID, teamID, projectID, actorUserID string,
) (*models.ChannelBinding, error) {
	log.Printf("📋 Starting to bind channel %s to project %s (actor: %s)", channelID, projectID, actorUserID)

	if channelID == "" {
		return nil, fmt.Errorf("channel ID cannot be empty")
	}
	if projectID == "" {
		return nil, fmt.Errorf("project ID cannot be empty")
	}

	maybeProject, err := s.domainClient.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to validate project: %w", err)
	}
	if !maybeProject.IsPresent() {
		log.Printf("❌ Project %s not found - refusing to bind channel %s", projectID, channelID)
		return nil, fmt.Errorf("project %s: %w", projectID, core.ErrNotFound)
	}

	dbBinding := &db.DatabaseChannelBinding{
		ID:           core.NewID("cb"),
		ChannelID:    channelID,
		TeamID:       teamID,
		ProjectID:    projectID,
		ConfiguredBy: actorUserID,
	}

	if err := s.bindingsRepo.UpsertChannelBinding(ctx, dbBinding); err != nil {
		return nil, fmt.Errorf("failed to upsert channel binding: %w", err)
	}

	binding := dbBinding.ToChannelBinding()
	log.Printf("📋 Completed successfully - bound channel %s to project %s with ID: %s", channelID, projectID, binding.ID)
	return binding, nil
}

func (s *ChannelBindingsService) UnbindChannel(ctx context.Context, channelID string) error {
	log.Printf("📋 Starting to unbind channel: %s", channelID)

	if channelID == "" {
		return fmt.Errorf("channel ID cannot be empty")
	}

	deleted, err := s.bindingsRepo.DeleteChannelBindingByChannelID(ctx, channelID)
	if err != nil {
		return fmt.Errorf("failed to delete channel binding: %w", err)
	}
	if !deleted {
		log.Printf("❌ No binding found for channel %s", channelID)
		return fmt.Errorf("binding for channel %s: %w", channelID, core.ErrNotFound)
	}

	log.Printf("📋 Completed successfully - unbound channel %s", channelID)
	return nil
}

func (s *ChannelBindingsService) ListBindings(ctx context.Context) ([]*models.ChannelBinding, error) {
	log.Printf("📋 Starting to list channel bindings")

	dbBindings, err := s.bindingsRepo.ListChannelBindings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list channel bindings: %w", err)
	}

	bindings := make([]*models.ChannelBinding, 0, len(dbBindings))
	for _, dbBinding := range dbBindings {
		bindings = append(bindings, dbBinding.ToChannelBinding())
	}

	log.Printf("📋 Completed successfully - listed %d channel bindings", len(bindings))
	return bindings, nil
}
