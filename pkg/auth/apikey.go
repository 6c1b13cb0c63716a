package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/feiyu23/spark-resume-ai/pkg/kernel"
	"github.com/feiyu23/spark-resume-ai/pkg/logx"
)

// APIKeyResolver maps a raw API key to the tenant that owns it.
type APIKeyResolver interface {
	ResolveTenant(rawKey string) (kernel.TenantID, error)
}

// Keyring is an in-memory APIKeyResolver loaded at startup. Raw keys are
// hashed immediately and never retained.
type Keyring struct {
	entries []keyringEntry
}

type keyringEntry struct {
	tenantID kernel.TenantID
	hash     []byte
}

var _ APIKeyResolver = (*Keyring)(nil)

// NewKeyringFromEnv parses a "tenant:key,tenant:key" specification, the
// format of the API_KEYS environment variable. Malformed entries are skipped
// with a warning.
func NewKeyringFromEnv(spec string) *Keyring {
	k := &Keyring{}
	if strings.TrimSpace(spec) == "" {
		return k
	}
	for _, pair := range strings.Split(spec, ",") {
		tenant, key, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || tenant == "" || key == "" {
			logx.Warnf("skipping malformed API key entry %q", pair)
			continue
		}
		if err := k.Add(kernel.NewTenantID(tenant), key); err != nil {
			logx.Warnf("skipping API key for tenant %s: %v", tenant, err)
		}
	}
	return k
}

// Add hashes and stores a key for a tenant.
func (k *Keyring) Add(tenantID kernel.TenantID, rawKey string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(rawKey), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	k.entries = append(k.entries, keyringEntry{tenantID: tenantID, hash: hash})
	return nil
}

// Len reports how many keys are loaded.
func (k *Keyring) Len() int { return len(k.entries) }

func (k *Keyring) ResolveTenant(rawKey string) (kernel.TenantID, error) {
	for _, e := range k.entries {
		if bcrypt.CompareHashAndPassword(e.hash, []byte(rawKey)) == nil {
			return e.tenantID, nil
		}
	}
	return "", ErrInvalidAPIKey()
}
