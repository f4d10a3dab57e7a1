package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"secondhand/internal/errors"
	"secondhand/internal/logger"
	"secondhand/internal/model"
	"secondhand/internal/repository"
)

// UserInput is used by administrators to create or overwrite users.
// Nil pointers leave the field untouched on update.
type UserInput struct {
	Username *string
	Password *string
	Email    *string
	Phone    *string
	Avatar   *string
	IsAdmin  *bool
	Status   *bool
}

// ProfileInput is the self-service profile update.
type ProfileInput struct {
	Username string
	Email    string
	Phone    string
}

// UserService manages user accounts.
type UserService interface {
	List(ctx context.Context, page, size int) (Page[model.User], error)
	Get(ctx context.Context, id uint) (*model.User, error)
	Create(ctx context.Context, in UserInput) (*model.User, error)
	Update(ctx context.Context, id uint, in UserInput) (*model.User, error)
	Delete(ctx context.Context, id uint) error
	UpdateProfile(ctx context.Context, id uint, in ProfileInput) (*model.User, error)
	ChangePassword(ctx context.Context, id uint, oldPassword, newPassword string) error
	UploadAvatar(ctx context.Context, id uint, file *multipart.FileHeader) (*model.User, error)
}

type userService struct {
	repo    repository.UserRepository
	uploads UploadService
}

// NewUserService creates a new user service.
func NewUserService(repo repository.UserRepository, uploads UploadService) UserService {
	return &userService{repo: repo, uploads: uploads}
}

func (s *userService) List(ctx context.Context, page, size int) (Page[model.User], error) {
	page, size = normalizePage(page, size)
	users, total, err := s.repo.List(ctx, page*size, size)
	if err != nil {
		return Page[model.User]{}, fmt.Errorf("list users: %w", err)
	}
	return Page[model.User]{Items: users, Total: total, Page: page, Size: size}, nil
}

func (s *userService) Get(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, errors.ErrUserNotFound, "find user")
	}
	return user, nil
}

// ensureUsernameFree rejects a username held by a user other than selfID.
func (s *userService) ensureUsernameFree(ctx context.Context, username string, selfID uint) error {
	existing, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("check username: %w", err)
	}
	if existing.ID != selfID {
		return errors.ErrUsernameTaken
	}
	return nil
}

func (s *userService) save(ctx context.Context, user *model.User, create bool) error {
	var err error
	if create {
		err = s.repo.Create(ctx, user)
	} else {
		err = s.repo.Update(ctx, user)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *userService) apply(ctx context.Context, user *model.User, in UserInput) error {
	if in.Username != nil {
		name := strings.TrimSpace(*in.Username)
		if name == "" {
			return errors.Validation("username must not be empty")
		}
		if name != user.Username {
			if err := s.ensureUsernameFree(ctx, name, user.ID); err != nil {
				return err
			}
		}
		user.Username = name
	}
	if in.Password != nil && *in.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcryptCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}
	if in.IsAdmin != nil {
		user.IsAdmin = *in.IsAdmin
	}
	if in.Status != nil {
		user.Status = *in.Status
	}
	return nil
}

func (s *userService) Create(ctx context.Context, in UserInput) (*model.User, error) {
	if in.Username == nil || in.Password == nil || *in.Password == "" {
		return nil, errors.Validation("username and password are required")
	}
	user := &model.User{Status: true}
	if err := s.apply(ctx, user, in); err != nil {
		return nil, err
	}
	if err := s.save(ctx, user, true); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id uint, in UserInput) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, user, in); err != nil {
		return nil, err
	}
	if err := s.save(ctx, user, false); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err, errors.ErrUserNotFound, "delete user")
	}
	logger.FromContext(ctx).Info("user deleted", zap.Uint("user_id", id))
	return nil
}

// UpdateProfile changes username, email and phone. Empty fields keep
// their current value.
func (s *userService) UpdateProfile(ctx context.Context, id uint, in ProfileInput) (*model.User, error) {
	var patch UserInput
	if v := strings.TrimSpace(in.Username); v != "" {
		patch.Username = &v
	}
	if in.Email != "" {
		patch.Email = &in.Email
	}
	if in.Phone != "" {
		patch.Phone = &in.Phone
	}
	return s.Update(ctx, id, patch)
}

func (s *userService) ChangePassword(ctx context.Context, id uint, oldPassword, newPassword string) error {
	if newPassword == "" {
		return errors.Validation("new password is required")
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return errors.ErrWrongPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hashed)
	return s.save(ctx, user, false)
}

// UploadAvatar stores the image as avatar_<id>_<uuid> and records its data URI.
func (s *userService) UploadAvatar(ctx context.Context, id uint, file *multipart.FileHeader) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	stored, err := s.uploads.StoreImage(ctx, "avatar_"+strconv.FormatUint(uint64(id), 10), file)
	if err != nil {
		return nil, err
	}
	user.Avatar = stored.DataURI
	if err := s.save(ctx, user, false); err != nil {
		return nil, err
	}
	return user, nil
}
