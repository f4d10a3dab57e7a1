package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"secondhand/internal/errors"
	"secondhand/internal/logger"
	"secondhand/internal/model"
	"secondhand/internal/repository"
)

// AddressInput is the client-editable part of an address.
type AddressInput struct {
	RecipientName  string
	RecipientPhone string
	Address        string
	IsDefault      bool
}

// AddressService keeps exactly one default address per user that has any.
type AddressService interface {
	Save(ctx context.Context, userID uint, in AddressInput) (*model.Address, error)
	FindByUserID(ctx context.Context, userID uint) ([]model.Address, error)
	// FindDefaultByUserID returns nil without error when there is no default.
	FindDefaultByUserID(ctx context.Context, userID uint) (*model.Address, error)
	SetDefault(ctx context.Context, addressID, userID uint) (*model.Address, error)
	Delete(ctx context.Context, addressID, userID uint) error
	Update(ctx context.Context, addressID, userID uint, in AddressInput) (*model.Address, error)
	// OwnerOf returns the user owning the address.
	OwnerOf(ctx context.Context, addressID uint) (uint, error)
}

type addressService struct {
	repo     repository.AddressRepository
	userRepo repository.UserRepository
}

// NewAddressService creates a new address service.
func NewAddressService(repo repository.AddressRepository, userRepo repository.UserRepository) AddressService {
	return &addressService{repo: repo, userRepo: userRepo}
}

func lockOwner(ctx context.Context, repo repository.AddressRepository, userID uint) error {
	if err := repo.LockOwner(ctx, userID); err != nil {
		return translate(err, errors.ErrUserNotFound, "lock address owner")
	}
	return nil
}

// loadOwned fetches an address and checks it belongs to userID.
func loadOwned(ctx context.Context, repo repository.AddressRepository, addressID, userID uint) (*model.Address, error) {
	address, err := repo.FindByID(ctx, addressID)
	if err != nil {
		return nil, translate(err, errors.ErrAddressNotFound, "find address")
	}
	if address.UserID != userID {
		return nil, errors.ErrNotOwner
	}
	return address, nil
}

func (s *addressService) Save(ctx context.Context, userID uint, in AddressInput) (*model.Address, error) {
	address := &model.Address{
		UserID:         userID,
		RecipientName:  in.RecipientName,
		RecipientPhone: in.RecipientPhone,
		Address:        in.Address,
		IsDefault:      in.IsDefault,
	}

	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.AddressRepository) error {
		if err := lockOwner(ctx, repo, userID); err != nil {
			return err
		}
		if address.IsDefault {
			if err := repo.ClearDefault(ctx, userID); err != nil {
				return fmt.Errorf("clear default: %w", err)
			}
		} else {
			n, err := repo.CountByUser(ctx, userID)
			if err != nil {
				return fmt.Errorf("count addresses: %w", err)
			}
			if n == 0 {
				address.IsDefault = true
			}
		}
		if err := repo.Create(ctx, address); err != nil {
			return fmt.Errorf("create address: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("address saved",
		zap.Uint("user_id", userID), zap.Uint("address_id", address.ID), zap.Bool("default", address.IsDefault))
	return address, nil
}

func (s *addressService) FindByUserID(ctx context.Context, userID uint) ([]model.Address, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, translate(err, errors.ErrUserNotFound, "find user")
	}
	addresses, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return addresses, nil
}

func (s *addressService) FindDefaultByUserID(ctx context.Context, userID uint) (*model.Address, error) {
	address, err := s.repo.FindDefault(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find default address: %w", err)
	}
	return address, nil
}

func (s *addressService) SetDefault(ctx context.Context, addressID, userID uint) (*model.Address, error) {
	var result *model.Address
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.AddressRepository) error {
		if _, err := loadOwned(ctx, repo, addressID, userID); err != nil {
			return err
		}
		if err := lockOwner(ctx, repo, userID); err != nil {
			return err
		}
		if err := repo.ClearDefault(ctx, userID); err != nil {
			return fmt.Errorf("clear default: %w", err)
		}
		if err := repo.MarkDefault(ctx, addressID, userID); err != nil {
			return fmt.Errorf("mark default: %w", err)
		}
		address, err := repo.FindByID(ctx, addressID)
		if err != nil {
			return translate(err, errors.ErrAddressNotFound, "reload address")
		}
		result = address
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("default address switched", zap.Uint("user_id", userID), zap.Uint("address_id", addressID))
	return result, nil
}

// Delete removes the address. When it was the default, the most recently
// created remaining address takes over.
func (s *addressService) Delete(ctx context.Context, addressID, userID uint) error {
	return s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.AddressRepository) error {
		if _, err := loadOwned(ctx, repo, addressID, userID); err != nil {
			return err
		}
		if err := lockOwner(ctx, repo, userID); err != nil {
			return err
		}
		// re-read under the lock; the default flag may have moved
		address, err := loadOwned(ctx, repo, addressID, userID)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, addressID); err != nil {
			return fmt.Errorf("delete address: %w", err)
		}
		if !address.IsDefault {
			return nil
		}

		next, err := repo.FindLatest(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("find replacement default: %w", err)
		}
		if err := repo.MarkDefault(ctx, next.ID, userID); err != nil {
			return fmt.Errorf("mark default: %w", err)
		}
		logger.FromContext(ctx).Info("default address reassigned",
			zap.Uint("user_id", userID), zap.Uint("address_id", next.ID))
		return nil
	})
}

// Update copies the editable fields onto the stored record. Ownership is
// taken from the stored row, never from the request. A request to clear
// the default flag is ignored so the user keeps exactly one default.
func (s *addressService) Update(ctx context.Context, addressID, userID uint, in AddressInput) (*model.Address, error) {
	var result *model.Address
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.AddressRepository) error {
		existing, err := loadOwned(ctx, repo, addressID, userID)
		if err != nil {
			return err
		}

		existing.RecipientName = in.RecipientName
		existing.RecipientPhone = in.RecipientPhone
		existing.Address = in.Address

		if in.IsDefault && !existing.IsDefault {
			if err := lockOwner(ctx, repo, userID); err != nil {
				return err
			}
			if err := repo.ClearDefault(ctx, userID); err != nil {
				return fmt.Errorf("clear default: %w", err)
			}
			existing.IsDefault = true
		}

		if err := repo.Save(ctx, existing); err != nil {
			return fmt.Errorf("save address: %w", err)
		}
		result = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *addressService) OwnerOf(ctx context.Context, addressID uint) (uint, error) {
	address, err := s.repo.FindByID(ctx, addressID)
	if err != nil {
		return 0, translate(err, errors.ErrAddressNotFound, "find address")
	}
	return address.UserID, nil
}
