package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/volunteer-service/internal/domain"
	"github.com/spec-kit/volunteer-service/internal/events"
	"github.com/spec-kit/volunteer-service/internal/repository"
	apperrors "github.com/spec-kit/volunteer-service/pkg/util/errorutil"
)

var milestoneKinds = []struct {
	Count int
	Kind  domain.AchievementKind
}{
	{1, domain.AchievementFirstShift},
	{10, domain.AchievementTenShifts},
	{50, domain.AchievementFiftyShifts},
}

// AchievementService awards completed-shift milestones.
type AchievementService struct {
	achievements repository.AchievementRepository
	signups      repository.SignupRepository
	dispatcher   events.Dispatcher
	logger       *zap.Logger
	now          func() time.Time
}

// NewAchievementService creates the service.
func NewAchievementService(achievements repository.AchievementRepository, signups repository.SignupRepository, dispatcher events.Dispatcher, logger *zap.Logger) *AchievementService {
	return &AchievementService{
		achievements: achievements,
		signups:      signups,
		dispatcher:   dispatcher,
		logger:       logger,
		now:          time.Now,
	}
}

// RegisterHandlers subscribes milestone evaluation to signup changes.
func (s *AchievementService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventSignupStatusChanged, s.handleSignupStatusChanged)
}

func (s *AchievementService) handleSignupStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.SignupStatusChangedPayload)
	if !ok || payload.NewStatus != domain.SignupStatusConfirmed {
		return nil
	}
	return s.EvaluateMilestones(ctx, payload.UserID)
}

// EvaluateMilestones awards any milestones the user's completed-shift
// count has reached.
func (s *AchievementService) EvaluateMilestones(ctx context.Context, userID string) error {
	completed, err := s.signups.CountCompletedByUser(ctx, userID, s.now())
	if err != nil {
		return err
	}
	for _, milestone := range milestoneKinds {
		if completed < milestone.Count {
			continue
		}
		exists, err := s.achievements.Exists(ctx, userID, milestone.Kind)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		award := &domain.Achievement{UserID: userID, Kind: milestone.Kind}
		if err := s.achievements.Create(ctx, award); err != nil {
			return err
		}
		s.logger.Info("achievement awarded",
			zap.String("user_id", userID),
			zap.String("kind", string(milestone.Kind)))
	}
	return nil
}

// ListForUser returns the user's awards.
func (s *AchievementService) ListForUser(ctx context.Context, userID string) ([]domain.Achievement, error) {
	awards, err := s.achievements.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return awards, nil
}
