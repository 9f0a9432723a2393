package models

import "time"

type OauthState struct {
	BaseModel

	State       string    `json:"state" gorm:"uniqueIndex;size:64"`
	CallbackURL string    `json:"callback_url"`
	ExpiredAt   time.Time `json:"expired_at" gorm:"index"`
}
