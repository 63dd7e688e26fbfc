package rewards

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/abhisek/tablequest/internal/store"
)

// Keys under which player progress is stored.
const (
	KeyPoints       = "points"
	KeyTotalCorrect = "total_correct"
	KeySessions     = "total_sessions"
	KeyBestAccuracy = "best_accuracy"
	KeyCurrentTheme = "current_theme"
	KeyOwnedThemes  = "owned_themes"
	KeyOwnedBadges  = "owned_badges"
	KeyOwnedPets    = "owned_pets"
	KeyActivePet    = "active_pet"
)

var allKeys = []string{
	KeyPoints, KeyTotalCorrect, KeySessions, KeyBestAccuracy, KeyCurrentTheme,
	KeyOwnedThemes, KeyOwnedBadges, KeyOwnedPets, KeyActivePet,
}

// Vault is a typed view over the key-value store. Missing or malformed
// values read as their defaults.
type Vault struct {
	kv store.KVRepo
}

// NewVault wraps a KVRepo.
func NewVault(kv store.KVRepo) *Vault {
	return &Vault{kv: kv}
}

func (v *Vault) getInt(ctx context.Context, key string) (int, error) {
	s, ok, err := v.kv.Get(ctx, key)
	if err != nil || !ok {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func (v *Vault) setInt(ctx context.Context, key string, n int) error {
	return v.kv.Set(ctx, key, strconv.Itoa(n))
}

func (v *Vault) getList(ctx context.Context, key string, def []string) ([]string, error) {
	s, ok, err := v.kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return def, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return def, nil
	}
	return out, nil
}

func (v *Vault) setList(ctx context.Context, key string, items []string) error {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return v.kv.Set(ctx, key, string(b))
}

func (v *Vault) appendList(ctx context.Context, key string, def []string, ids ...string) ([]string, error) {
	list, err := v.getList(ctx, key, def)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if !slices.Contains(list, id) {
			list = append(list, id)
		}
	}
	return list, v.setList(ctx, key, list)
}

// Points returns the spendable balance.
func (v *Vault) Points(ctx context.Context) (int, error) { return v.getInt(ctx, KeyPoints) }

// SetPoints overwrites the balance.
func (v *Vault) SetPoints(ctx context.Context, n int) error { return v.setInt(ctx, KeyPoints, n) }

// TotalCorrect returns the lifetime number of correct answers.
func (v *Vault) TotalCorrect(ctx context.Context) (int, error) {
	return v.getInt(ctx, KeyTotalCorrect)
}

// SetTotalCorrect overwrites the lifetime correct-answer count.
func (v *Vault) SetTotalCorrect(ctx context.Context, n int) error {
	return v.setInt(ctx, KeyTotalCorrect, n)
}

// Sessions returns the number of finished sessions.
func (v *Vault) Sessions(ctx context.Context) (int, error) { return v.getInt(ctx, KeySessions) }

// SetSessions overwrites the finished-session count.
func (v *Vault) SetSessions(ctx context.Context, n int) error {
	return v.setInt(ctx, KeySessions, n)
}

// BestAccuracy returns the best session accuracy seen.
func (v *Vault) BestAccuracy(ctx context.Context) (int, error) {
	return v.getInt(ctx, KeyBestAccuracy)
}

// RaiseBestAccuracy stores accuracy only if it beats the current best.
func (v *Vault) RaiseBestAccuracy(ctx context.Context, accuracy int) error {
	best, err := v.BestAccuracy(ctx)
	if err != nil {
		return err
	}
	if accuracy <= best {
		return nil
	}
	return v.setInt(ctx, KeyBestAccuracy, accuracy)
}

// CurrentTheme returns the equipped theme ID.
func (v *Vault) CurrentTheme(ctx context.Context) (string, error) {
	s, ok, err := v.kv.Get(ctx, KeyCurrentTheme)
	if err != nil {
		return "", err
	}
	if !ok || s == "" {
		return DefaultThemeID, nil
	}
	return s, nil
}

// SetCurrentTheme equips a theme.
func (v *Vault) SetCurrentTheme(ctx context.Context, id string) error {
	return v.kv.Set(ctx, KeyCurrentTheme, id)
}

// OwnedThemes returns owned theme IDs; the default theme is always owned.
func (v *Vault) OwnedThemes(ctx context.Context) ([]string, error) {
	return v.getList(ctx, KeyOwnedThemes, []string{DefaultThemeID})
}

// AddOwnedThemes records theme purchases.
func (v *Vault) AddOwnedThemes(ctx context.Context, ids ...string) error {
	_, err := v.appendList(ctx, KeyOwnedThemes, []string{DefaultThemeID}, ids...)
	return err
}

// OwnedBadges returns earned and purchased badge IDs.
func (v *Vault) OwnedBadges(ctx context.Context) ([]string, error) {
	return v.getList(ctx, KeyOwnedBadges, nil)
}

// AddOwnedBadges records earned or purchased badges.
func (v *Vault) AddOwnedBadges(ctx context.Context, ids ...string) error {
	_, err := v.appendList(ctx, KeyOwnedBadges, nil, ids...)
	return err
}

// OwnedPets returns owned pet IDs.
func (v *Vault) OwnedPets(ctx context.Context) ([]string, error) {
	return v.getList(ctx, KeyOwnedPets, nil)
}

// AddOwnedPets records pet purchases.
func (v *Vault) AddOwnedPets(ctx context.Context, ids ...string) error {
	_, err := v.appendList(ctx, KeyOwnedPets, nil, ids...)
	return err
}

// ActivePet returns the companion ID, or "" when none is active.
func (v *Vault) ActivePet(ctx context.Context) (string, error) {
	s, _, err := v.kv.Get(ctx, KeyActivePet)
	return s, err
}

// SetActivePet sets the companion; "" clears it.
func (v *Vault) SetActivePet(ctx context.Context, id string) error {
	if id == "" {
		return v.kv.Delete(ctx, KeyActivePet)
	}
	return v.kv.Set(ctx, KeyActivePet, id)
}
