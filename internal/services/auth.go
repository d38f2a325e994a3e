package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/veracomply/veracomply-backend/internal/logger"
	"github.com/veracomply/veracomply-backend/internal/repos"
	"github.com/veracomply/veracomply-backend/internal/requestdata"
	"github.com/veracomply/veracomply-backend/internal/types"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type RegisterInput struct {
	OrganizationName string
	Email            string
	Password         string
	FullName         string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (string, *types.User, error)
	Login(ctx context.Context, email, password string) (string, *types.User, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	db        *gorm.DB
	log       *logger.Logger
	users     repos.UserRepo
	orgs      repos.OrganizationRepo
	subs      repos.SubscriptionRepo
	secretKey string
	tokenTTL  time.Duration
}

func NewAuthService(
	db *gorm.DB,
	baseLog *logger.Logger,
	users repos.UserRepo,
	orgs repos.OrganizationRepo,
	subs repos.SubscriptionRepo,
	secretKey string,
	tokenTTL time.Duration,
) AuthService {
	return &authService{
		db:        db,
		log:       baseLog.With("service", "AuthService"),
		users:     users,
		orgs:      orgs,
		subs:      subs,
		secretKey: secretKey,
		tokenTTL:  tokenTTL,
	}
}

type accessClaims struct {
	UserID         string `json:"user_id"`
	OrganizationID string `json:"organization_id"`
	jwt.RegisteredClaims
}

// Register creates the organization, its first user and an explicit FREE
// subscription in one transaction.
func (s *authService) Register(ctx context.Context, in RegisterInput) (string, *types.User, error) {
	if in.OrganizationName == "" || in.Email == "" || in.Password == "" {
		return "", nil, fmt.Errorf("organization name, email and password required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	var user *types.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		org, err := s.orgs.Create(ctx, tx, &types.Organization{ID: uuid.New(), Name: in.OrganizationName})
		if err != nil {
			return err
		}
		user, err = s.users.Create(ctx, tx, &types.User{
			ID:             uuid.New(),
			OrganizationID: org.ID,
			Email:          in.Email,
			PasswordHash:   string(hash),
			FullName:       in.FullName,
		})
		if err != nil {
			return err
		}
		_, err = s.subs.Upsert(ctx, tx, &types.Subscription{
			ID:             uuid.New(),
			OrganizationID: org.ID,
			Plan:           types.PlanFree,
		})
		return err
	})
	if err != nil {
		return "", nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *types.User, error) {
	user, err := s.users.GetByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *authService) issueToken(user *types.User) (string, error) {
	now := time.Now().UTC()
	claims := accessClaims{
		UserID:         user.ID.String(),
		OrganizationID: user.OrganizationID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// SetContextFromToken validates the token and installs the caller's identity
// into the request context.
func (s *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		return ctx, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := parsed.Claims.(*accessClaims)
	if !ok || !parsed.Valid {
		return ctx, fmt.Errorf("invalid token")
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token")
	}
	organizationID, err := uuid.Parse(claims.OrganizationID)
	if err != nil {
		return ctx, fmt.Errorf("invalid organization id in token")
	}
	return requestdata.WithRequestData(ctx, &requestdata.RequestData{
		TokenString:    tokenString,
		UserID:         userID,
		OrganizationID: organizationID,
	}), nil
}
