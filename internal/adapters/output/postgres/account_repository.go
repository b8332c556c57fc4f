package postgres

import (
	"context"
	"errors"
	"fmt"

	"review-replier/internal/domain"
	"review-replier/internal/ports/output"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Compile-time check to ensure AccountRepository implements output.AccountRepository interface
var _ output.AccountRepository = (*AccountRepository)(nil)

// AccountRepository struct - Secondary/Driven adapter for PostgreSQL
type AccountRepository struct {
	dbGorm *gorm.DB
}

// NewAccountRepository func - Creates new PostgreSQL repository
func NewAccountRepository(dbGorm *gorm.DB) *AccountRepository {
	return &AccountRepository{
		dbGorm: dbGorm,
	}
}

// FindUser func - Looks a user up by chat user id
func (p *AccountRepository) FindUser(ctx context.Context, chatUserID string) (*domain.User, error) {
	var user domain.User
	err := p.dbGorm.WithContext(ctx).Where("chat_user_id = ?", chatUserID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("chat user %s: %w", chatUserID, domain.ErrUserNotFound)
	}
	if err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	return &user, nil
}

// SaveToken func - Stores the token, creating the user record on first contact
func (p *AccountRepository) SaveToken(ctx context.Context, chatUserID, token string) (*domain.User, error) {
	user := domain.User{ChatUserID: chatUserID, AuthToken: &token}

	err := p.dbGorm.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"auth_token", "updated_at"}),
	}).Create(&user).Error
	if err != nil {
		logrus.Errorln(err)
		return nil, err
	}

	// the upsert does not return the existing row's columns
	return p.FindUser(ctx, chatUserID)
}

// ListAccounts func - Lists the user's marketplace accounts in creation order
func (p *AccountRepository) ListAccounts(ctx context.Context, userID int64) ([]domain.MarketplaceAccount, error) {
	var accounts []domain.MarketplaceAccount
	if err := p.dbGorm.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&accounts).Error; err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	return accounts, nil
}

// FindAccount func - Loads an account of the user with its campaigns
func (p *AccountRepository) FindAccount(ctx context.Context, userID, accountID int64) (*domain.MarketplaceAccount, error) {
	var account domain.MarketplaceAccount
	err := p.dbGorm.WithContext(ctx).
		Preload("Campaigns", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ? AND user_id = ?", accountID, userID).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("account %d: %w", accountID, domain.ErrAccountNotFound)
	}
	if err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	return &account, nil
}

// SaveCampaigns func - Replaces the account's campaigns and business details in one transaction
func (p *AccountRepository) SaveCampaigns(ctx context.Context, accountID int64, business domain.BusinessCampaigns) error {
	return p.dbGorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.MarketplaceAccount{}).
			Where("id = ?", accountID).
			Updates(map[string]interface{}{
				"business_id":   business.BusinessID,
				"business_name": business.BusinessName,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("account %d: %w", accountID, domain.ErrAccountNotFound)
		}

		if err := tx.Where("marketplace_account_id = ?", accountID).Delete(&domain.Campaign{}).Error; err != nil {
			return err
		}
		if len(business.Campaigns) == 0 {
			return nil
		}

		campaigns := make([]domain.Campaign, 0, len(business.Campaigns))
		for _, c := range business.Campaigns {
			c.ID = 0
			c.MarketplaceAccountID = accountID
			campaigns = append(campaigns, c)
		}
		return tx.Create(&campaigns).Error
	})
}
