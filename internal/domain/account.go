package domain

import (
	"time"

	"gorm.io/gorm"
)

// MarketplaceYandex is the only marketplace with a review client
const MarketplaceYandex = "Yandex.Market"

// Company struct - employer of registered users
type Company struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Code      string `gorm:"type:varchar(64);uniqueIndex;not null"`
	Name      string `gorm:"type:varchar(255)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName func
func (Company) TableName() string {
	return "companies"
}

// User struct - seller registered through the chat bot
type User struct {
	ID                  int64   `gorm:"primaryKey;autoIncrement"`
	ChatUserID          string  `gorm:"type:varchar(64);uniqueIndex;not null"`
	Name                string  `gorm:"type:varchar(255)"`
	AuthToken           *string `gorm:"type:varchar(64);uniqueIndex"`
	CompanyID           *int64
	Company             *Company
	MarketplaceAccounts []MarketplaceAccount
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableName func
func (User) TableName() string {
	return "users"
}

// IsAuthorized reports whether registration is complete: a name and a company
func (u User) IsAuthorized() bool {
	return u.Name != "" && u.CompanyID != nil
}

// MarketplaceAccount struct - credential-bound connection to one marketplace
type MarketplaceAccount struct {
	ID           int64      `gorm:"primaryKey;autoIncrement"`
	UserID       int64      `gorm:"index;not null"`
	Marketplace  string     `gorm:"type:varchar(64);not null"`
	AccountName  string     `gorm:"type:varchar(255)"`
	APIKey       string     `gorm:"column:api_key;type:text"`
	BusinessID   string     `gorm:"type:varchar(64)"`
	BusinessName string     `gorm:"type:varchar(255)"`
	Campaigns    []Campaign `gorm:"foreignKey:MarketplaceAccountID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName func
func (MarketplaceAccount) TableName() string {
	return "marketplace_accounts"
}

// Campaign struct - marketplace campaign (shop) of an account
type Campaign struct {
	ID                   int64  `gorm:"primaryKey;autoIncrement"`
	MarketplaceAccountID int64  `gorm:"index;not null"`
	CampaignID           int64  `gorm:"index;not null"`
	Domain               string `gorm:"type:varchar(255)"`
	Name                 string `gorm:"type:varchar(255)"`
	PlacementType        string `gorm:"type:varchar(16)"` // FBY, FBS, DBS
}

// TableName func
func (Campaign) TableName() string {
	return "campaigns"
}

// MigrateDatabase func - Auto-migrate database schema
func MigrateDatabase(db *gorm.DB) error {
	if db == nil {
		panic("An error when connect database")
	}
	return db.AutoMigrate(&Company{}, &User{}, &MarketplaceAccount{}, &Campaign{})
}

// BusinessCampaigns is the result of a campaigns lookup: the business owning
// the API key and its campaigns
type BusinessCampaigns struct {
	BusinessID   string
	BusinessName string
	Campaigns    []Campaign
}
