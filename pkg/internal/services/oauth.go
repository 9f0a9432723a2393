package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"git.solsynth.dev/hypernet/collab/pkg/internal/database"
	"git.solsynth.dev/hypernet/collab/pkg/internal/models"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

const (
	OauthProviderGoogle = "google"
	oauthStateValidity  = 10 * time.Minute
	googleUserinfoURL   = "https://www.googleapis.com/oauth2/v3/userinfo"
)

type OauthProfile struct {
	Subject       string `json:"sub"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Picture       string `json:"picture"`
}

func GoogleOauthConfig() (*oauth2.Config, error) {
	cfg := &oauth2.Config{
		ClientID:     viper.GetString("oauth.google.client_id"),
		ClientSecret: viper.GetString("oauth.google.client_secret"),
		RedirectURL:  viper.GetString("oauth.google.redirect_url"),
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
	if len(cfg.ClientID) == 0 || len(cfg.ClientSecret) == 0 || len(cfg.RedirectURL) == 0 {
		return nil, newError(ErrConfiguration, "Google sign-in is not configured")
	}
	return cfg, nil
}

// NewOauthState stores a one-time state bound to the callback URL.
func NewOauthState(callbackURL string) (models.OauthState, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return models.OauthState{}, wrapUpstream(err)
	}

	state := models.OauthState{
		State:       base64.RawURLEncoding.EncodeToString(raw),
		CallbackURL: callbackURL,
		ExpiredAt:   time.Now().Add(oauthStateValidity),
	}
	if err := database.C.Create(&state).Error; err != nil {
		return state, wrapUpstream(err)
	}
	return state, nil
}

// ConsumeOauthState deletes the state and returns it if it was still valid.
func ConsumeOauthState(value string) (models.OauthState, error) {
	var state models.OauthState
	if err := database.C.Where("state = ?", value).First(&state).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return state, newError(ErrUnauthenticated, "invalid or expired sign-in state")
		}
		return state, wrapUpstream(err)
	}
	if tx := database.C.Delete(&state); tx.Error != nil {
		return state, wrapUpstream(tx.Error)
	} else if tx.RowsAffected == 0 {
		// Another callback consumed it first.
		return state, newError(ErrUnauthenticated, "invalid or expired sign-in state")
	}
	if time.Now().After(state.ExpiredAt) {
		return state, newError(ErrUnauthenticated, "invalid or expired sign-in state")
	}
	return state, nil
}

func FetchGoogleProfile(ctx context.Context, cfg *oauth2.Config, code string) (OauthProfile, map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return OauthProfile{}, nil, wrapUpstream(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserinfoURL, nil)
	if err != nil {
		return OauthProfile{}, nil, wrapUpstream(err)
	}
	resp, err := cfg.Client(ctx, token).Do(req)
	if err != nil {
		return OauthProfile{}, nil, wrapUpstream(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return OauthProfile{}, nil, wrapUpstream(fmt.Errorf("userinfo responded with status %d", resp.StatusCode))
	}

	var raw map[string]any
	if err := jsoniter.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return OauthProfile{}, nil, wrapUpstream(err)
	}

	var profile OauthProfile
	models.FitStruct(raw, &profile)
	return profile, raw, nil
}

// EnsureOauthAccount links the provider identity to an account, creating an
// account without password when the email has never been seen.
func EnsureOauthAccount(provider string, profile OauthProfile, raw map[string]any) (models.Account, error) {
	if len(profile.Subject) == 0 || !IsValidEmail(profile.Email) {
		return models.Account{}, newError(ErrUnauthenticated, "the provider did not return a usable identity")
	}

	var link models.OauthAccount
	err := database.C.
		Where(models.OauthAccount{Provider: provider, ProviderAccountID: profile.Subject}).
		First(&link).Error
	if err == nil {
		return GetAccount(link.AccountID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Account{}, wrapUpstream(err)
	}

	account, err := GetAccountByEmail(profile.Email)
	if err == nil && !profile.EmailVerified {
		// An unverified address cannot claim an account that already exists.
		return models.Account{}, newError(ErrUnauthenticated, "the provider did not verify this email address")
	} else if errors.Is(err, ErrNotFound) {
		account, err = NewAccount(lo.Ternary(len(profile.Name) > 0, profile.Name, profile.Email), profile.Email, nil)
		if err == nil && len(profile.Picture) > 0 {
			account.Image = lo.ToPtr(profile.Picture)
			err = database.C.Model(&account).Update("image", account.Image).Error
		}
	}
	if err != nil {
		return account, err
	}

	link = models.OauthAccount{
		Provider:          provider,
		ProviderAccountID: profile.Subject,
		Profile:           raw,
		AccountID:         account.ID,
	}
	if err := database.C.Create(&link).Error; err != nil {
		return account, wrapUpstream(err)
	}

	log.Info().Str("account", account.ID).Str("provider", provider).Msg("Linked an oauth identity to account.")
	return account, nil
}
