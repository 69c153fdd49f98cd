package service

import (
	"context"
	"errors"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/apperror"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/contract"
	"ai-chat-be/internal/repository/memory"
	"ai-chat-be/internal/repository/unitofwork"

	"golang.org/x/crypto/bcrypt"
)

type IUserService interface {
	CreateUser(ctx context.Context, request *dto.CreateUserRequest) (*dto.UserResponse, error)
	// GetOrCreateUser is for diagnostics and seeding only. Conversations never create users.
	GetOrCreateUser(ctx context.Context, email, password string) (*dto.UserResponse, bool, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
	userCache  *memory.UserCache
	logger     logger.ILogger
	now        Clock
	hashCost   int
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, userCache *memory.UserCache, logger logger.ILogger) IUserService {
	return &userService{
		uowFactory: uowFactory,
		userCache:  userCache,
		logger:     logger,
		now:        systemClock,
		hashCost:   bcrypt.DefaultCost,
	}
}

func (s *userService) CreateUser(ctx context.Context, request *dto.CreateUserRequest) (*dto.UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), s.hashCost)
	if err != nil {
		return nil, apperror.Validation(apperror.FieldError{Field: "password", Message: err.Error()})
	}

	user := &entity.User{
		Email:        request.Email,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		if errors.Is(err, contract.ErrDuplicate) {
			return nil, apperror.Conflict("user", "Email is already registered")
		}
		return nil, apperror.Persistence(err)
	}

	s.userCache.Save(user)
	s.logger.Info(constant.ModuleUser, "User created", map[string]interface{}{
		"user_id": user.Id,
	})

	return toUserResponse(user), nil
}

func (s *userService) GetOrCreateUser(ctx context.Context, email, password string) (*dto.UserResponse, bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := findUserByEmail(ctx, uow, s.userCache, email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return toUserResponse(existing), false, nil
	}

	created, err := s.CreateUser(ctx, &dto.CreateUserRequest{Email: email, Password: password})
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

func toUserResponse(user *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		Id:        user.Id,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
