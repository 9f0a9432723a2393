package models

import "gorm.io/datatypes"

type Account struct {
	BaseModel

	Name     string  `json:"name"`
	Email    string  `json:"email" gorm:"uniqueIndex;size:320"`
	Password *string `json:"-"`
	Image    *string `json:"image"`

	OauthAccounts []OauthAccount `json:"-"`
	Meetings      []Meeting      `json:"-" gorm:"foreignKey:CreatorID"`
}

// Caller is the identity resolved from the session at the request boundary.
type Caller struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DisplayName falls back to the email and then to a generic label.
func (v Caller) DisplayName() string {
	if len(v.Name) > 0 {
		return v.Name
	} else if len(v.Email) > 0 {
		return v.Email
	}
	return "User"
}

func (v Account) ToCaller() Caller {
	return Caller{ID: v.ID, Name: v.Name, Email: v.Email}
}

type OauthAccount struct {
	BaseModel

	Provider          string            `json:"provider" gorm:"uniqueIndex:idx_oauth_provider_account"`
	ProviderAccountID string            `json:"provider_account_id" gorm:"uniqueIndex:idx_oauth_provider_account"`
	Profile           datatypes.JSONMap `json:"profile"`
	AccountID         string            `json:"account_id" gorm:"index"`
}
