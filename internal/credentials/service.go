// Package credentials is the credential and session core: it owns user records,
// hashes and verifies passwords, and issues signed bearer tokens. Token
// verification lives in the router middleware.
package credentials

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"dashboard/internal/models"
	"dashboard/internal/store"
	"dashboard/internal/utils"
)

const (
	EventLogin           = "login"
	EventProfileUpdated  = "profile_updated"
	EventPasswordChanged = "password_changed"
)

const lockStripes = 64

// Notifier receives account events after a successful mutation.
type Notifier interface {
	Notify(userID, eventType string, user *models.User)
}

type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ProfileInput uses pointers so that an explicit "" is told apart from an absent field.
type ProfileInput struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

type Result struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type Service struct {
	repo      store.Repository
	log       logrus.FieldLogger
	jwtSecret string
	tokenTTL  time.Duration
	hashCost  int
	notifier  Notifier
	now       func() time.Time

	// per-user read-modify-write serialisation
	locks [lockStripes]sync.Mutex

	dummyOnce sync.Once
	dummyHash string
}

type Option func(*Service)

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.hashCost = cost }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo store.Repository, log logrus.FieldLogger, jwtSecret string, tokenTTL time.Duration, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		log:       log,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		hashCost:  utils.DefaultHashCost,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Result, error) {
	if in.Email == "" || in.Password == "" || in.FirstName == "" {
		return nil, ErrRegisterFieldsRequired
	}
	const failMsg = "Internal server error during registration"

	_, err := s.repo.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, ErrUserExists
	case !errors.Is(err, store.ErrNotFound):
		return nil, s.fail("register", failMsg, err)
	}

	hash, err := utils.HashPassword(in.Password, s.hashCost)
	if err != nil {
		return nil, s.fail("register", failMsg, err)
	}

	now := s.timestamp()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        store.NormalizeEmail(in.Email),
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// the lookup above is only a fast path; Insert decides
	if err := s.repo.Insert(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, ErrUserExists
		}
		return nil, s.fail("register", failMsg, err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, s.fail("register", failMsg, err)
	}

	s.log.WithField("user_id", user.ID).Info("user registered")
	return &Result{User: user.Sanitized(), Token: token}, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	if email == "" || password == "" {
		return nil, ErrLoginFieldsRequired
	}
	const failMsg = "Internal server error during login"

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// keep response time close to the wrong-password path
			utils.CheckPassword(password, s.dummy())
			return nil, ErrInvalidCredentials
		}
		return nil, s.fail("login", failMsg, err)
	}

	unlock := s.lock(user.ID)
	defer unlock()

	// checks and the write use the record read under the lock, so a
	// password change or profile edit that just committed is honoured
	user, err = s.repo.FindByID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, s.fail("login", failMsg, err)
	}
	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}
	if !utils.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	now := s.touch(user)
	user.LastLogin = &now
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, s.fail("login", failMsg, err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, s.fail("login", failMsg, err)
	}

	s.notify(user.ID, EventLogin, user)
	return &Result{User: user.Sanitized(), Token: token}, nil
}

func (s *Service) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, s.lookupErr("profile", err)
	}
	return user.Sanitized(), nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*models.User, error) {
	unlock := s.lock(userID)
	defer unlock()

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, s.lookupErr("update_profile", err)
	}

	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	s.touch(user)

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, s.lookupErr("update_profile", err)
	}

	s.notify(user.ID, EventProfileUpdated, user)
	return user.Sanitized(), nil
}

// ChangePassword does not judge password strength; that is left to clients.
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return ErrPasswordFieldsRequired
	}

	unlock := s.lock(userID)
	defer unlock()

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return s.lookupErr("change_password", err)
	}
	if !utils.CheckPassword(currentPassword, user.PasswordHash) {
		return ErrWrongCurrentPassword
	}

	hash, err := utils.HashPassword(newPassword, s.hashCost)
	if err != nil {
		return s.fail("change_password", "Internal server error", err)
	}
	user.PasswordHash = hash
	s.touch(user)

	if err := s.repo.Update(ctx, user); err != nil {
		return s.lookupErr("change_password", err)
	}

	s.notify(user.ID, EventPasswordChanged, user)
	return nil
}

// Logout only acknowledges. Tokens stay valid until they expire.
func (s *Service) Logout(ctx context.Context, userID string) error {
	s.log.WithField("user_id", userID).Debug("logout")
	return nil
}

func (s *Service) issueToken(u *models.User) (string, error) {
	return utils.GenerateJWT(u.ID, u.Email, s.jwtSecret, s.tokenTTL)
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// touch advances UpdatedAt strictly and returns the new value.
func (s *Service) touch(u *models.User) time.Time {
	now := s.timestamp()
	if !now.After(u.UpdatedAt) {
		now = u.UpdatedAt.Add(time.Microsecond)
	}
	u.UpdatedAt = now
	return now
}

func (s *Service) lock(userID string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	m := &s.locks[h.Sum32()%lockStripes]
	m.Lock()
	return m.Unlock
}

func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := utils.HashPassword("dashboard-timing-guard", s.hashCost)
		if err != nil {
			s.log.WithError(err).Warn("could not prepare timing guard hash")
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

func (s *Service) notify(userID, eventType string, user *models.User) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(userID, eventType, user.Sanitized())
}

func (s *Service) lookupErr(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return s.fail(op, "Internal server error", err)
}

// fail logs the cause and hides it behind a generic internal error.
func (s *Service) fail(op, message string, cause error) error {
	s.log.WithError(cause).WithField("op", op).Error("credential operation failed")
	return internal(message, cause)
}
