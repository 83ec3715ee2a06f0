package service

import (
	"fmt"
	"strings"

	"github.com/Ravishyamsingh/Quiz-System/internal/config"
	"github.com/Ravishyamsingh/Quiz-System/internal/model"
	"github.com/Ravishyamsingh/Quiz-System/internal/store"
	"github.com/Ravishyamsingh/Quiz-System/internal/util"
	"golang.org/x/crypto/bcrypt"
)

// AuthService manages user accounts in the users collection and issues JWTs.
type AuthService struct {
	store store.DocumentStore
	cfg   *config.Config
}

func NewAuthService(st store.DocumentStore, cfg *config.Config) *AuthService {
	return &AuthService{store: st, cfg: cfg}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

func (s *AuthService) Register(req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.store.QueryByEquality(model.CollectionUsers, "email", email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrPersistenceFailed, err)
	}
	if len(existing) > 0 {
		return nil, util.ErrEmailRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := model.UserRole(req.Role)
	if role != model.Instructor {
		role = model.Learner
	}

	user := model.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	fields, err := model.Fields(user)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrPersistenceFailed, err)
	}
	id, err := s.store.AddRecord(model.CollectionUsers, fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrPersistenceFailed, err)
	}
	user.ID = id

	token, err := util.GenerateJWT(&user, s.cfg.JWT.Secret, s.cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: user.Public()}, nil
}

func (s *AuthService) Login(req LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	recs, err := s.store.QueryByEquality(model.CollectionUsers, "email", email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrPersistenceFailed, err)
	}
	if len(recs) == 0 {
		return nil, util.ErrInvalidCredentials
	}

	var user model.User
	if err := recs[0].Decode(&user); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrPersistenceFailed, err)
	}
	user.ID = recs[0].ID
	user.CreatedAt = recs[0].CreatedAt

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(&user, s.cfg.JWT.Secret, s.cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: user.Public()}, nil
}
