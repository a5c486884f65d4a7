package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kaylkveip512/Viktorov-bookstore/config"
	"github.com/kaylkveip512/Viktorov-bookstore/internal/adapters/postgres"
	"github.com/kaylkveip512/Viktorov-bookstore/internal/domain"
	"github.com/kaylkveip512/Viktorov-bookstore/internal/password"
	pkglog "github.com/kaylkveip512/Viktorov-bookstore/pkg/log"
	"github.com/kaylkveip512/Viktorov-bookstore/pkg/metrics"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

type RegisterInput struct {
	Username      string
	FirstName     string
	LastName      string
	Email         string
	Password      string
	PasswordCheck string
}

type UpdateUserInput struct {
	Username  *string
	FirstName *string
	LastName  *string
	Email     *string
}

type DashboardActivity struct {
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

type Dashboard struct {
	TotalUsers       int64               `json:"total_users"`
	RecentActivities []DashboardActivity `json:"recent_activities"`
}

type Service interface {
	Register(ctx context.Context, input RegisterInput, meta RequestMeta) (*domain.User, error)
	Login(ctx context.Context, username, passwd string, meta RequestMeta) (*domain.User, *Tokens, error)
	Logout(ctx context.Context, user *domain.User, refreshToken string, meta RequestMeta) error
	Refresh(ctx context.Context, refreshToken string) (string, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpdateUser(ctx context.Context, actor, target *domain.User, input UpdateUserInput, meta RequestMeta) (*domain.User, error)
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type authService struct {
	cfg      *config.Config
	logger   pkglog.Logger
	users    repo.UserRepository
	refresh  repo.RefreshTokenRepository
	activity *ActivityRecorder
	policy   *password.Policy
	signer   JWTSigner
}

func NewAuthService(cfg *config.Config, logger pkglog.Logger, users repo.UserRepository, refresh repo.RefreshTokenRepository, activity *ActivityRecorder, policy *password.Policy, signer JWTSigner) Service {
	return &authService{cfg: cfg, logger: logger, users: users, refresh: refresh, activity: activity, policy: policy, signer: signer}
}

func (s *authService) Register(ctx context.Context, input RegisterInput, meta RequestMeta) (*domain.User, error) {
	fields := FieldErrors{}

	username := strings.TrimSpace(input.Username)
	switch {
	case username == "":
		fields.Add("username", "This field is required.")
	case utf8.RuneCountInString(username) < 3:
		fields.Add("username", "Username must be at least 3 characters long.")
	case utf8.RuneCountInString(username) > 50:
		fields.Add("username", "Ensure this field has no more than 50 characters.")
	case !usernamePattern.MatchString(username):
		fields.Add("username", "Username can only contain letters, numbers and underscores.")
	}

	email := strings.TrimSpace(input.Email)
	switch {
	case email == "":
		fields.Add("email", "This field is required.")
	case utf8.RuneCountInString(email) > 254:
		fields.Add("email", "Ensure this field has no more than 254 characters.")
	case !validEmail(email):
		fields.Add("email", "Enter a valid email address.")
	}

	if utf8.RuneCountInString(input.FirstName) > 30 {
		fields.Add("first_name", "Ensure this field has no more than 30 characters.")
	}
	if utf8.RuneCountInString(input.LastName) > 30 {
		fields.Add("last_name", "Ensure this field has no more than 30 characters.")
	}

	if input.Password == "" {
		fields.Add("password", "This field is required.")
	} else {
		for _, violation := range s.policy.Validate(ctx, input.Password, username, email) {
			fields.Add("password", violation)
		}
	}
	if input.PasswordCheck == "" {
		fields.Add("password_check", "This field is required.")
	} else if input.Password != input.PasswordCheck {
		fields.Add("password_check", "Passwords do not match.")
	}

	if !fields.Empty() {
		return nil, fields
	}

	// Uniqueness is checked before hashing so a duplicate causes no side
	// effects at all; the DB unique constraints still close the race.
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		fields.Add("username", "A user with this username already exists.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		fields.Add("email", "A user with this email already exists.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if !fields.Empty() {
		return nil, fields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Username:     username,
		Email:        email,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, FieldErrors{"non_field_errors": {"A user with this username or email already exists."}}
		}
		return nil, err
	}

	s.activity.Record(ctx, user, domain.ActionRegistration, meta)
	metrics.Registrations.Inc()
	s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, passwd string, meta RequestMeta) (*domain.User, *Tokens, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		s.logger.Warn().Str("username", username).Msg("login failed")
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		s.logger.Warn().Str("user_id", user.ID).Msg("login rejected for inactive user")
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(passwd)); err != nil {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		s.logger.Warn().Str("user_id", user.ID).Msg("login failed")
		return nil, nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("last login update failed")
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	s.activity.Record(ctx, user, domain.ActionLogin, meta)
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return user, tokens, nil
}

func (s *authService) Logout(ctx context.Context, user *domain.User, refreshToken string, meta RequestMeta) error {
	// The session end is audited even when the supplied token is bad.
	s.activity.Record(ctx, user, domain.ActionLogout, meta)

	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}
	jti, _, err := s.parseRefresh(refreshToken)
	if err != nil {
		return ErrTokenInvalid
	}
	if err := s.refresh.RevokeByHash(ctx, hashJTI(jti)); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", user.ID).Msg("refresh token revoked")
	return nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	jti, sub, err := s.parseRefresh(refreshToken)
	if err != nil {
		metrics.TokenRefreshes.WithLabelValues("rejected").Inc()
		return "", err
	}

	record, err := s.refresh.FindByHash(ctx, hashJTI(jti))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.TokenRefreshes.WithLabelValues("rejected").Inc()
			return "", ErrTokenInvalid
		}
		return "", err
	}
	if record.RevokedAt != nil {
		metrics.TokenRefreshes.WithLabelValues("revoked").Inc()
		s.logger.Warn().Str("user_id", record.UserID).Msg("refresh attempt with revoked token")
		return "", ErrTokenRevoked
	}
	if time.Now().After(record.ExpiresAt) {
		metrics.TokenRefreshes.WithLabelValues("rejected").Inc()
		return "", ErrTokenExpired
	}
	if record.UserID != sub {
		metrics.TokenRefreshes.WithLabelValues("rejected").Inc()
		return "", ErrTokenInvalid
	}

	user, err := s.users.FindByID(ctx, sub)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if !user.IsActive {
		return "", ErrNotFound
	}

	access, err := s.signer.SignAccessToken(user.ID, accessClaims(user), s.cfg.AccessTTL)
	if err != nil {
		return "", err
	}
	metrics.TokenRefreshes.WithLabelValues("success").Inc()
	return access, nil
}

func (s *authService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateUser(ctx context.Context, actor, target *domain.User, input UpdateUserInput, meta RequestMeta) (*domain.User, error) {
	fields := FieldErrors{}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		switch {
		case utf8.RuneCountInString(username) < 3:
			fields.Add("username", "Username must be at least 3 characters long.")
		case utf8.RuneCountInString(username) > 50:
			fields.Add("username", "Ensure this field has no more than 50 characters.")
		case !usernamePattern.MatchString(username):
			fields.Add("username", "Username can only contain letters, numbers and underscores.")
		default:
			if other, err := s.users.FindByUsername(ctx, username); err == nil && other.ID != target.ID {
				fields.Add("username", "A user with this username already exists.")
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			} else {
				target.Username = username
			}
		}
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		switch {
		case utf8.RuneCountInString(email) > 254:
			fields.Add("email", "Ensure this field has no more than 254 characters.")
		case !validEmail(email):
			fields.Add("email", "Enter a valid email address.")
		default:
			if other, err := s.users.FindByEmail(ctx, email); err == nil && other.ID != target.ID {
				fields.Add("email", "A user with this email already exists.")
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			} else {
				target.Email = email
			}
		}
	}
	if input.FirstName != nil {
		if utf8.RuneCountInString(*input.FirstName) > 30 {
			fields.Add("first_name", "Ensure this field has no more than 30 characters.")
		} else {
			target.FirstName = strings.TrimSpace(*input.FirstName)
		}
	}
	if input.LastName != nil {
		if utf8.RuneCountInString(*input.LastName) > 30 {
			fields.Add("last_name", "Ensure this field has no more than 30 characters.")
		} else {
			target.LastName = strings.TrimSpace(*input.LastName)
		}
	}
	if !fields.Empty() {
		return nil, fields
	}

	if err := s.users.Update(ctx, target); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, FieldErrors{"non_field_errors": {"A user with this username or email already exists."}}
		}
		return nil, err
	}

	action := domain.ActionSelfUpdate
	if actor.ID != target.ID {
		action = domain.AdminUpdatePrefix + actor.Username
	}
	s.activity.Record(ctx, target, action, meta)
	s.logger.Info().Str("user_id", target.ID).Str("actor_id", actor.ID).Msg("user updated")
	return target, nil
}

func (s *authService) Dashboard(ctx context.Context) (*Dashboard, error) {
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.activity.activities.ListRecent(ctx, s.cfg.DashboardActivityLimit)
	if err != nil {
		return nil, err
	}
	activities := make([]DashboardActivity, 0, len(recent))
	for _, a := range recent {
		username := ""
		if a.User != nil {
			username = a.User.Username
		}
		activities = append(activities, DashboardActivity{
			Username:  username,
			Action:    a.Action,
			Timestamp: a.CreatedAt,
		})
	}
	return &Dashboard{TotalUsers: total, RecentActivities: activities}, nil
}

func (s *authService) issueTokens(ctx context.Context, user *domain.User) (*Tokens, error) {
	access, err := s.signer.SignAccessToken(user.ID, accessClaims(user), s.cfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	jti := newJTI()
	refresh, err := s.signer.SignRefreshToken(user.ID, jti, s.cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}
	record := &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashJTI(jti),
		ExpiresAt: time.Now().Add(s.cfg.RefreshTTL),
	}
	if err := s.refresh.Create(ctx, record); err != nil {
		return nil, err
	}
	return &Tokens{Access: access, Refresh: refresh}, nil
}

// parseRefresh validates signature and claims shape of a refresh token and
// returns its identifier and subject. Time expiry maps to ErrTokenExpired,
// everything else to ErrTokenInvalid.
func (s *authService) parseRefresh(refreshToken string) (jti, sub string, err error) {
	tok, claims, err := s.signer.Parse(strings.TrimSpace(refreshToken))
	if err != nil || tok == nil || !tok.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", ErrTokenExpired
		}
		return "", "", ErrTokenInvalid
	}
	if typ, _ := claims["typ"].(string); typ != "refresh" {
		return "", "", ErrTokenInvalid
	}
	jti, _ = claims["jti"].(string)
	sub, _ = claims["sub"].(string)
	if jti == "" || sub == "" {
		return "", "", ErrTokenInvalid
	}
	return jti, sub, nil
}

func accessClaims(user *domain.User) map[string]interface{} {
	return map[string]interface{}{"username": user.Username}
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndexByte(email, '@')
	return at > 0 && strings.ContainsRune(email[at+1:], '.')
}

func hashJTI(jti string) string {
	sum := sha256.Sum256([]byte(jti))
	return hex.EncodeToString(sum[:])
}
