package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"marketplace-be/internal/auth"
	"marketplace-be/internal/crud"
	"marketplace-be/internal/listview"
	"marketplace-be/internal/logger"
	"marketplace-be/internal/store"

	"go.uber.org/zap"
)

type Service struct {
	*crud.Handler[User]
	tokens *auth.Tokens
	now    func() time.Time
}

func NewService(cfg crud.Config[User], tokens *auth.Tokens) *Service {
	cfg.Kind = Kind
	cfg.Identity = Identity
	if cfg.IDs == nil {
		cfg.IDs = store.Sequence{}
	}
	return &Service{Handler: crud.NewHandler(cfg), tokens: tokens, now: time.Now}
}

// List derives the admin user list. Credentials never leave the service.
func (s *Service) List(ctx context.Context, q crud.Query) (listview.Derived[User], error) {
	d, err := s.Query(ctx, Schema, q)
	if err != nil {
		return d, err
	}
	for i := range d.Items {
		d.Items[i] = Redact(d.Items[i])
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	u, err := s.Handler.Get(ctx, id)
	return Redact(u), err
}

func (s *Service) findByEmail(ctx context.Context, email string) (User, bool, error) {
	users, err := s.Handler.List(ctx)
	if err != nil {
		return User{}, false, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, true, nil
		}
	}
	return User{}, false, nil
}

// Create registers a user. The plain password in u.Password is hashed and
// dropped.
func (s *Service) Create(ctx context.Context, u User) (User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateUser"),
	)

	if len(u.Password) < 6 {
		return User{}, crud.NewValidationError("password", "password must have at least 6 characters")
	}

	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if _, taken, err := s.findByEmail(ctx, u.Email); err != nil {
		return User{}, err
	} else if taken {
		log.Warn("email already registered", zap.String("email", u.Email))
		return User{}, ErrEmailTaken
	}

	hashed, err := HashPassword(u.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return User{}, err
	}
	u.PasswordHash = hashed
	u.Password = ""

	if u.Role == "" {
		u.Role = RoleBuyer
	}
	u.Status = StatusActive
	u.BanReason = ""
	u.CreatedAt = s.now().UTC()

	created, err := s.Handler.Create(ctx, u)
	if err != nil {
		return User{}, err
	}

	log.Info("user created", zap.String("user_id", created.ID), zap.String("role", created.Role))
	return Redact(created), nil
}

// Update merges patch into the user. A "password" key is hashed; the
// stored hash and ban state cannot be patched directly.
func (s *Service) Update(ctx context.Context, id string, patch crud.Patch) (User, error) {
	password, hasPassword := patch["password"].(string)
	patch = patch.Without("password", "passwordHash", "status", "banReason", "createdAt")

	if raw, ok := patch["email"]; ok {
		email, isString := raw.(string)
		if !isString {
			return User{}, crud.NewValidationError("email", "email must be a string")
		}
		email = strings.ToLower(strings.TrimSpace(email))
		other, taken, err := s.findByEmail(ctx, email)
		if err != nil {
			return User{}, err
		}
		if taken && other.ID != id {
			logger.FromCtx(ctx).Warn("email already registered",
				zap.String("layer", "service"),
				zap.String("method", "UpdateUser"),
				zap.String("email", email),
			)
			return User{}, ErrEmailTaken
		}
		patch["email"] = email
	}

	var hashed string
	if hasPassword {
		if len(password) < 6 {
			return User{}, crud.NewValidationError("password", "password must have at least 6 characters")
		}
		var err error
		if hashed, err = HashPassword(password); err != nil {
			return User{}, err
		}
	}

	u, err := s.Modify(ctx, id, func(cur User) (User, error) {
		next, err := crud.ApplyPatch(cur, patch)
		if err != nil {
			return cur, err
		}
		if hashed != "" {
			next.PasswordHash = hashed
		}
		return next, nil
	})
	return Redact(u), err
}

func (s *Service) Ban(ctx context.Context, id, reason string) (User, error) {
	u, err := s.Modify(ctx, id, func(u User) (User, error) {
		if u.Status == StatusBanned {
			return u, ErrAlreadyBanned
		}
		u.Status = StatusBanned
		u.BanReason = reason
		return u, nil
	})
	return Redact(u), err
}

func (s *Service) Unban(ctx context.Context, id string) (User, error) {
	u, err := s.Modify(ctx, id, func(u User) (User, error) {
		if u.Status != StatusBanned {
			return u, ErrNotBanned
		}
		u.Status = StatusActive
		u.BanReason = ""
		return u, nil
	})
	return Redact(u), err
}

// Login checks the credentials and issues an access token.
func (s *Service) Login(ctx context.Context, email, password string) (string, User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Login"),
	)

	u, found, err := s.findByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", User{}, err
	}
	if !found || !CheckPasswordHash(password, u.PasswordHash) {
		log.Warn("invalid credentials", zap.String("email", email))
		return "", User{}, ErrInvalidCredentials
	}
	if u.Status == StatusBanned {
		log.Warn("banned user tried to log in", zap.String("user_id", u.ID))
		return "", User{}, ErrBanned
	}

	token, err := s.tokens.Issue(u.ID, u.Email, u.Role, u.SellerID)
	if err != nil {
		log.Error("failed to issue token", zap.String("user_id", u.ID), zap.Error(err))
		return "", User{}, errors.Join(errors.New("issue token"), err)
	}

	log.Info("login success", zap.String("user_id", u.ID))
	return token, Redact(u), nil
}
