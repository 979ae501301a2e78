// Package settings is the typed profile store for one shop: name, currency,
// opening cash, lock PIN and activation state, persisted in the settings
// table of the ledger database.
package settings

import (
	"context"
	"fmt"
	"strconv"
)

const (
	keyShopName     = "shop_name"
	keyOwnerName    = "owner_name"
	keyCurrency     = "currency"
	keyMainAsset    = "main_asset"
	keyDateFormat   = "date_format"
	keyPINHash      = "pin_hash"
	keyRecoveryQ    = "recovery_question"
	keyRecoveryHash = "recovery_answer_hash"
	keyActivated    = "activated"
	keyOnboarded    = "onboarding_complete"
)

// DefaultCurrency is the Afghani, the currency of the app's home market.
const DefaultCurrency = "AFN"

// TrialTransactionLimit is the number of free ledger entries before
// activation is required.
const TrialTransactionLimit = 5

// Store reads and writes string settings. *storage.SQLiteRepository
// satisfies it.
type Store interface {
	GetSetting(ctx context.Context, key string) (string, bool, error)
	SetSetting(ctx context.Context, key, value string) error
}

type Settings struct {
	store Store
}

func New(store Store) *Settings {
	return &Settings{store: store}
}

func (s *Settings) get(ctx context.Context, key, fallback string) (string, error) {
	v, ok, err := s.store.GetSetting(ctx, key)
	if err != nil {
		return "", fmt.Errorf("read setting %s: %w", key, err)
	}
	if !ok {
		return fallback, nil
	}
	return v, nil
}

func (s *Settings) ShopName(ctx context.Context) (string, error) {
	return s.get(ctx, keyShopName, "")
}

func (s *Settings) SetShopName(ctx context.Context, name string) error {
	return s.store.SetSetting(ctx, keyShopName, name)
}

func (s *Settings) OwnerName(ctx context.Context) (string, error) {
	return s.get(ctx, keyOwnerName, "")
}

func (s *Settings) SetOwnerName(ctx context.Context, name string) error {
	return s.store.SetSetting(ctx, keyOwnerName, name)
}

func (s *Settings) Currency(ctx context.Context) (string, error) {
	return s.get(ctx, keyCurrency, DefaultCurrency)
}

func (s *Settings) SetCurrency(ctx context.Context, currency string) error {
	return s.store.SetSetting(ctx, keyCurrency, currency)
}

// MainAsset is the opening cash the owner declared at onboarding. It seeds
// the cash-on-hand figure; missing means 0.
func (s *Settings) MainAsset(ctx context.Context) (float64, error) {
	v, err := s.get(ctx, keyMainAsset, "0")
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse main asset %q: %w", v, err)
	}
	return f, nil
}

func (s *Settings) SetMainAsset(ctx context.Context, amount float64) error {
	return s.store.SetSetting(ctx, keyMainAsset, strconv.FormatFloat(amount, 'f', -1, 64))
}

func (s *Settings) DateFormat(ctx context.Context) (string, error) {
	return s.get(ctx, keyDateFormat, "")
}

func (s *Settings) SetDateFormat(ctx context.Context, format string) error {
	return s.store.SetSetting(ctx, keyDateFormat, format)
}

func (s *Settings) PINHash(ctx context.Context) (string, error) {
	return s.get(ctx, keyPINHash, "")
}

func (s *Settings) SetPINHash(ctx context.Context, hash string) error {
	return s.store.SetSetting(ctx, keyPINHash, hash)
}

func (s *Settings) RecoveryQuestion(ctx context.Context) (string, error) {
	return s.get(ctx, keyRecoveryQ, "")
}

func (s *Settings) RecoveryAnswerHash(ctx context.Context) (string, error) {
	return s.get(ctx, keyRecoveryHash, "")
}

func (s *Settings) SetRecovery(ctx context.Context, question, answerHash string) error {
	if err := s.store.SetSetting(ctx, keyRecoveryQ, question); err != nil {
		return err
	}
	return s.store.SetSetting(ctx, keyRecoveryHash, answerHash)
}

func (s *Settings) Activated(ctx context.Context) (bool, error) {
	v, err := s.get(ctx, keyActivated, "false")
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

func (s *Settings) SetActivated(ctx context.Context, activated bool) error {
	return s.store.SetSetting(ctx, keyActivated, strconv.FormatBool(activated))
}

func (s *Settings) OnboardingComplete(ctx context.Context) (bool, error) {
	v, err := s.get(ctx, keyOnboarded, "false")
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

func (s *Settings) SetOnboardingComplete(ctx context.Context, done bool) error {
	return s.store.SetSetting(ctx, keyOnboarded, strconv.FormatBool(done))
}
