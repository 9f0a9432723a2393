package services

import (
	"errors"
	"strings"

	"git.solsynth.dev/hypernet/collab/pkg/internal/database"
	"git.solsynth.dev/hypernet/collab/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const PasswordHashCost = 12

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func GetAccount(id string) (models.Account, error) {
	var account models.Account
	if err := database.C.Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return account, newError(ErrNotFound, "Account not found")
		}
		return account, wrapUpstream(err)
	}
	return account, nil
}

func GetAccountByEmail(email string) (models.Account, error) {
	var account models.Account
	if err := database.C.Where("email = ?", NormalizeEmail(email)).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return account, newError(ErrNotFound, "Account not found")
		}
		return account, wrapUpstream(err)
	}
	return account, nil
}

// NewAccount checks for an existing email before inserting. The check and the
// insert are separate statements; the unique index on email is what finally
// rejects a concurrent duplicate.
func NewAccount(name, email string, passwordHash *string) (models.Account, error) {
	account := models.Account{
		Name:     strings.TrimSpace(name),
		Email:    NormalizeEmail(email),
		Password: passwordHash,
	}

	if _, err := GetAccountByEmail(account.Email); err == nil {
		return account, &FieldError{
			Field: "email",
			Err:   newError(ErrConflict, "An account with this email already exists"),
		}
	} else if !errors.Is(err, ErrNotFound) {
		return account, err
	}

	if err := database.C.Create(&account).Error; err != nil {
		return account, wrapUpstream(err)
	}
	return account, nil
}

func Signup(in SignupInput) (models.Account, error) {
	if err := ValidateSignup(in); err != nil {
		return models.Account{}, err
	}

	// Checked before hashing so a taken email costs no bcrypt round.
	if _, err := GetAccountByEmail(in.Email); err == nil {
		return models.Account{}, &FieldError{
			Field: "email",
			Err:   newError(ErrConflict, "An account with this email already exists"),
		}
	} else if !errors.Is(err, ErrNotFound) {
		return models.Account{}, err
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return models.Account{}, wrapUpstream(err)
	}

	account, err := NewAccount(in.Name, in.Email, &hashed)
	if err != nil {
		return account, err
	}

	log.Info().Str("account", account.ID).Msg("A new account has been signed up.")
	return account, nil
}

func Authenticate(email, password string) (models.Account, error) {
	account, err := GetAccountByEmail(email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return account, newError(ErrUnauthenticated, "Invalid email or password")
		}
		return account, err
	}

	hashed := lo.FromPtr(account.Password)
	if len(hashed) == 0 {
		return account, newError(ErrUnauthenticated, "Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)); err != nil {
		return account, newError(ErrUnauthenticated, "Invalid email or password")
	}

	return account, nil
}
