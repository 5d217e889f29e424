package service

import (
	"errors"

	"github.com/ksaito/chocolatte-backend/internal/app/model"
	"github.com/ksaito/chocolatte-backend/internal/app/repository"
	"github.com/ksaito/chocolatte-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrAddressNotFound = errors.New("address not found")

type AddressService interface {
	GetAddresses(userID uint) ([]model.Address, error)
	CreateAddress(address *model.Address) error
	UpdateAddress(userID, addressID uint, updates *model.Address) (*model.Address, error)
	DeleteAddress(userID, addressID uint) error
	SetDefaultAddress(userID, addressID uint) (*model.Address, error)
}

type addressService struct {
	addressRepo repository.AddressRepository
}

func NewAddressService(addressRepo repository.AddressRepository) AddressService {
	return &addressService{addressRepo: addressRepo}
}

func (s *addressService) GetAddresses(userID uint) ([]model.Address, error) {
	return s.addressRepo.FindByUserID(userID)
}

func (s *addressService) CreateAddress(address *model.Address) error {
	logger.Info("Creating address", map[string]interface{}{
		"user_id": address.UserID,
	})

	if address.IsDefault {
		if err := s.addressRepo.ClearDefaultByUserID(address.UserID); err != nil {
			return err
		}
	}
	return s.addressRepo.Create(address)
}

// findOwned returns the address only if it belongs to the user
func (s *addressService) findOwned(userID, addressID uint) (*model.Address, error) {
	address, err := s.addressRepo.FindByID(addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	if address.UserID != userID {
		return nil, ErrAddressNotFound
	}
	return address, nil
}

func (s *addressService) UpdateAddress(userID, addressID uint, updates *model.Address) (*model.Address, error) {
	address, err := s.findOwned(userID, addressID)
	if err != nil {
		return nil, err
	}

	if updates.Recipient != "" {
		address.Recipient = updates.Recipient
	}
	if updates.Phone != "" {
		address.Phone = updates.Phone
	}
	if updates.ZipCode != "" {
		address.ZipCode = updates.ZipCode
	}
	if updates.Address != "" {
		address.Address = updates.Address
	}
	if updates.DetailAddress != "" {
		address.DetailAddress = updates.DetailAddress
	}

	if err := s.addressRepo.Update(address); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *addressService) DeleteAddress(userID, addressID uint) error {
	if _, err := s.findOwned(userID, addressID); err != nil {
		return err
	}
	return s.addressRepo.Delete(addressID)
}

func (s *addressService) SetDefaultAddress(userID, addressID uint) (*model.Address, error) {
	address, err := s.findOwned(userID, addressID)
	if err != nil {
		return nil, err
	}

	if err := s.addressRepo.ClearDefaultByUserID(userID); err != nil {
		return nil, err
	}

	address.IsDefault = true
	if err := s.addressRepo.Update(address); err != nil {
		return nil, err
	}

	logger.Info("Default address updated", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})
	return address, nil
}
