package session

import (
	"context"
	"fmt"
	"time"

	"github.com/Brunux-hub/Cafe-eria.hub/internal/config"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/domain"
)

// Registry tracks which subjects currently hold a live session: the token
// last issued for each subject, auxiliary per-session attributes, and
// membership in the active-user set.
//
// One token record exists per subject. Storing a token for a subject that
// already holds one overwrites it, so the previous token stops validating
// even though its signature and expiry are still intact (last login wins).
//
// The active-user set is maintained on explicit store/invalidate calls only.
// When a token record lapses through its TTL the subject lingers in the set
// until the next Invalidate; CountActive and ListActive are therefore
// eventually consistent with natural expiry.
type Registry struct {
	store    Store
	tokenTTL time.Duration
	attrTTL  time.Duration

	tokenPrefix string
	attrPrefix  string
	activeKey   string
}

// NewRegistry builds a registry over the given store.
func NewRegistry(store Store, cfg config.SessionConfig) *Registry {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "cafeteria"
	}
	return &Registry{
		store:       store,
		tokenTTL:    cfg.TTL(),
		attrTTL:     cfg.AttributeTTL(),
		tokenPrefix: prefix + ":token:",
		attrPrefix:  prefix + ":session:",
		activeKey:   prefix + ":active_users",
	}
}

func (r *Registry) tokenKey(subject string) string {
	return r.tokenPrefix + domain.NormalizeSubject(subject)
}

func (r *Registry) attrKey(subject, key string) string {
	return r.attrPrefix + domain.NormalizeSubject(subject) + ":" + key
}

// StoreToken records the subject's current token and marks the subject
// active. Re-adding an already active subject is a set no-op but still
// restarts the token TTL clock.
func (r *Registry) StoreToken(ctx context.Context, subject, token string) error {
	if err := r.store.Set(ctx, r.tokenKey(subject), token, r.tokenTTL); err != nil {
		return storeErr(err)
	}
	if err := r.store.SAdd(ctx, r.activeKey, domain.NormalizeSubject(subject)); err != nil {
		return storeErr(err)
	}
	return nil
}

// IsValid reports whether the given token is exactly the one on record for
// the subject. Superseded and expired tokens fail this check even when their
// signatures still verify.
func (r *Registry) IsValid(ctx context.Context, subject, token string) (bool, error) {
	stored, ok, err := r.store.Get(ctx, r.tokenKey(subject))
	if err != nil {
		return false, storeErr(err)
	}
	return ok && stored == token, nil
}

// Invalidate removes the subject's session record and active-set membership.
// Invalidating an absent subject is a silent no-op.
func (r *Registry) Invalidate(ctx context.Context, subject string) error {
	if err := r.store.Del(ctx, r.tokenKey(subject)); err != nil {
		return storeErr(err)
	}
	if err := r.store.SRem(ctx, r.activeKey, domain.NormalizeSubject(subject)); err != nil {
		return storeErr(err)
	}
	return nil
}

// StoreAttribute records auxiliary session data under its own TTL,
// independent of the token record.
func (r *Registry) StoreAttribute(ctx context.Context, subject, key, value string) error {
	if err := r.store.Set(ctx, r.attrKey(subject, key), value, r.attrTTL); err != nil {
		return storeErr(err)
	}
	return nil
}

// GetAttribute returns auxiliary session data, reporting absence via ok.
func (r *Registry) GetAttribute(ctx context.Context, subject, key string) (string, bool, error) {
	value, ok, err := r.store.Get(ctx, r.attrKey(subject, key))
	if err != nil {
		return "", false, storeErr(err)
	}
	return value, ok, nil
}

// CountActive returns the size of the active-user set.
func (r *Registry) CountActive(ctx context.Context) (int64, error) {
	count, err := r.store.SCard(ctx, r.activeKey)
	if err != nil {
		return 0, storeErr(err)
	}
	return count, nil
}

// ListActive returns the members of the active-user set.
func (r *Registry) ListActive(ctx context.Context) ([]string, error) {
	members, err := r.store.SMembers(ctx, r.activeKey)
	if err != nil {
		return nil, storeErr(err)
	}
	return members, nil
}

// Renew restarts the TTL clock on the subject's token record without
// changing its value. Renewing an absent subject is a no-op.
func (r *Registry) Renew(ctx context.Context, subject string) error {
	if err := r.store.Expire(ctx, r.tokenKey(subject), r.tokenTTL); err != nil {
		return storeErr(err)
	}
	return nil
}

// storeErr surfaces backend failures as ErrStoreUnavailable so callers fail
// closed instead of treating the subject as logged out.
func storeErr(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}
