package store

import (
	"encoding/json"
	"log/slog"

	"promptvault/internal/models"
)

// rawState mirrors models.State with pointer fields so that absent and
// present-but-empty JSON fields can be told apart during reconciliation.
type rawState struct {
	Items       *[]models.CatalogItem    `json:"items"`
	Categories  *[]models.Category       `json:"categories"`
	Messages    *[]models.ContactMessage `json:"messages"`
	Analytics   *[]int64                 `json:"analytics"`
	Wishlist    *[]string                `json:"wishlist"`
	SocialLinks *[]models.SocialLink     `json:"socialLinks"`

	AdminUserHash *string `json:"adminUserHash"`
	AdminPassHash *string `json:"adminPassHash"`
	AdminPINHash  *string `json:"adminPinHash"`
}

// LoadState reads the state blob and reconciles it field by field against the
// built-in defaults. A missing slot or malformed blob yields the full default
// state; one absent field never fails the whole load. LoadState itself never
// fails — parse problems are logged and defaulted away.
func (k *KV) LoadState() *models.State {
	blob, ok, err := k.Get(stateKey)
	if err != nil {
		slog.Error("state load failed, using defaults", slog.String("error", err.Error()))
		return models.DefaultState()
	}
	if !ok {
		return models.DefaultState()
	}
	return ReconcileState(blob)
}

// ReconcileState parses a serialized state blob, substituting the built-in
// default for every missing field. Malformed JSON yields the full defaults.
func ReconcileState(blob []byte) *models.State {
	var raw rawState
	if err := json.Unmarshal(blob, &raw); err != nil {
		slog.Warn("state blob malformed, using defaults", slog.String("error", err.Error()))
		return models.DefaultState()
	}

	st := models.DefaultState()
	if raw.Items != nil {
		st.Items = *raw.Items
	}
	if raw.Categories != nil {
		st.Categories = *raw.Categories
	}
	if raw.Messages != nil {
		st.Messages = *raw.Messages
	}
	if raw.Analytics != nil {
		st.Analytics = *raw.Analytics
	}
	if raw.Wishlist != nil {
		st.Wishlist = *raw.Wishlist
	}
	if raw.SocialLinks != nil {
		st.SocialLinks = *raw.SocialLinks
	}
	if raw.AdminUserHash != nil && *raw.AdminUserHash != "" {
		st.AdminUserHash = *raw.AdminUserHash
	}
	if raw.AdminPassHash != nil && *raw.AdminPassHash != "" {
		st.AdminPassHash = *raw.AdminPassHash
	}
	if raw.AdminPINHash != nil && *raw.AdminPINHash != "" {
		st.AdminPINHash = *raw.AdminPINHash
	}
	return st
}

// SaveState serializes the full state and overwrites the state slot. Callers
// log failures and carry on — the in-memory state stays authoritative for the
// session even when a save is lost.
func (k *KV) SaveState(st *models.State) error {
	blob, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return k.Put(stateKey, blob)
}
