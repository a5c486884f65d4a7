package usecase

import (
	"context"
	"time"

	"github.com/kaylkveip512/Viktorov-bookstore/internal/adapters/postgres"
	"github.com/kaylkveip512/Viktorov-bookstore/internal/domain"
	pkglog "github.com/kaylkveip512/Viktorov-bookstore/pkg/log"
)

// RequestMeta carries the transport-level context recorded with each
// security-relevant action.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// ActivityEvent is the wire form published for downstream audit consumers.
type ActivityEvent struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	At        time.Time `json:"at"`
}

type ActivityPublisher interface {
	PublishActivity(ctx context.Context, event ActivityEvent) error
}

// ActivityRecorder appends immutable audit records. Failures never roll back
// or surface to the action being audited; they go to the operational log.
type ActivityRecorder struct {
	activities repo.ActivityRepository
	publisher  ActivityPublisher
	logger     pkglog.Logger
}

func NewActivityRecorder(activities repo.ActivityRepository, publisher ActivityPublisher, logger pkglog.Logger) *ActivityRecorder {
	return &ActivityRecorder{activities: activities, publisher: publisher, logger: logger}
}

func (r *ActivityRecorder) Record(ctx context.Context, user *domain.User, action string, meta RequestMeta) {
	if user == nil {
		return
	}
	activity := &domain.UserActivity{
		UserID:    user.ID,
		Action:    action,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}
	if err := r.activities.Create(ctx, activity); err != nil {
		r.logger.Warn().Err(err).
			Str("user_id", user.ID).
			Str("action", action).
			Msg("activity record failed")
		return
	}
	if r.publisher == nil {
		return
	}
	event := ActivityEvent{
		UserID:    user.ID,
		Username:  user.Username,
		Action:    action,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		At:        activity.CreatedAt,
	}
	if err := r.publisher.PublishActivity(ctx, event); err != nil {
		r.logger.Warn().Err(err).Str("action", action).Msg("activity publish failed")
	}
}
