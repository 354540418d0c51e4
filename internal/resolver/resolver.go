// Package resolver maps external account and category names onto ledger
// entities, creating them lazily on first sight. Each importer builds its
// resolvers once at the start of a run; lookups after the initial pass never
// touch storage again unless they miss.
//
// Creation is an unconditional durable write. An account or category created
// while resolving a record that later fails to import is not rolled back;
// both are treated as reference data independent of transaction success.
package resolver

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/kevinjqiu/silverstrike/internal/config"
	"github.com/kevinjqiu/silverstrike/internal/models"
	"github.com/kevinjqiu/silverstrike/internal/store"
)

// Use the centralized logger from config package
var log = config.Logger

// SetLogger allows setting a custom logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// AccountResolver resolves account names (or digests) to account ids,
// partitioned by account kind.
type AccountResolver struct {
	store    store.Store
	byName   map[models.AccountKind]map[string]int64
	byDigest map[string]int64
	systemID int64
}

// NewAccountResolver builds a resolver with its cache populated from the
// current ledger state in one pass.
func NewAccountResolver(s store.Store) (*AccountResolver, error) {
	accounts, err := s.Accounts()
	if err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}

	r := &AccountResolver{
		store: s,
		byName: map[models.AccountKind]map[string]int64{
			models.AccountPersonal: {},
			models.AccountForeign:  {},
			models.AccountSystem:   {},
		},
		byDigest: map[string]int64{},
	}
	for _, a := range accounts {
		r.byName[a.Kind][a.Name] = a.ID
		if a.Digest != "" {
			r.byDigest[a.Digest] = a.ID
		}
		if a.Kind == models.AccountSystem {
			r.systemID = a.ID
		}
	}
	return r, nil
}

// Personal resolves a personal account by name, creating it on miss.
func (r *AccountResolver) Personal(name string) (int64, error) {
	return r.resolve(name, models.AccountPersonal)
}

// Foreign resolves a foreign (payee) account by name, creating it on miss.
func (r *AccountResolver) Foreign(name string) (int64, error) {
	return r.resolve(name, models.AccountForeign)
}

// PersonalByBankID resolves a personal account by the digest of the
// bank-assigned account identifier. The account is created on miss with the
// raw identifier as its display name. Digest collisions are out of scope:
// the hash is treated as globally unique.
func (r *AccountResolver) PersonalByBankID(bankAccountID string) (int64, error) {
	digest := models.NewDigest(bankAccountID)
	if id, ok := r.byDigest[digest]; ok {
		return id, nil
	}

	// The cache is built once per run; a digest written by an earlier run
	// outside this process is still only findable in storage.
	existing, err := r.store.FindAccountByDigest(digest)
	if err == nil {
		r.byDigest[digest] = existing.ID
		return existing.ID, nil
	}
	if err != store.ErrNotFound {
		return 0, fmt.Errorf("finding account by digest: %w", err)
	}

	a := models.Account{Name: bankAccountID, Kind: models.AccountPersonal, Digest: digest}
	if err := r.store.CreateAccount(&a); err != nil {
		return 0, err
	}
	log.WithFields(logrus.Fields{"name": a.Name, "digest": digest}).
		Info("Created personal account for bank account")
	r.byDigest[digest] = a.ID
	r.byName[a.Kind][a.Name] = a.ID
	return a.ID, nil
}

// System resolves the singleton system account, creating it once with its
// fixed name.
func (r *AccountResolver) System() (int64, error) {
	if r.systemID != 0 {
		return r.systemID, nil
	}

	a := models.Account{Name: models.SystemAccountName, Kind: models.AccountSystem}
	if err := r.store.CreateAccount(&a); err != nil {
		return 0, err
	}
	log.Info("Created system account")
	r.byName[a.Kind][a.Name] = a.ID
	r.systemID = a.ID
	return a.ID, nil
}

func (r *AccountResolver) resolve(name string, kind models.AccountKind) (int64, error) {
	if id, ok := r.byName[kind][name]; ok {
		return id, nil
	}

	a := models.Account{Name: name, Kind: kind}
	if err := r.store.CreateAccount(&a); err != nil {
		return 0, err
	}
	log.WithFields(logrus.Fields{"name": name, "kind": kind.String()}).
		Debug("Created account")
	r.byName[kind][name] = a.ID
	return a.ID, nil
}

// CategoryResolver resolves category names to category ids.
type CategoryResolver struct {
	store  store.Store
	byName map[string]int64
}

// NewCategoryResolver builds a resolver with its cache populated from the
// current ledger state.
func NewCategoryResolver(s store.Store) (*CategoryResolver, error) {
	categories, err := s.Categories()
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}

	r := &CategoryResolver{store: s, byName: map[string]int64{}}
	for _, c := range categories {
		r.byName[c.Name] = c.ID
	}
	return r, nil
}

// Resolve resolves a category by name, creating it on miss. An empty name
// resolves to zero: no category, not a created "empty" category.
func (r *CategoryResolver) Resolve(name string) (int64, error) {
	if name == "" {
		return 0, nil
	}
	if id, ok := r.byName[name]; ok {
		return id, nil
	}

	c := models.Category{Name: name}
	if err := r.store.CreateCategory(&c); err != nil {
		return 0, err
	}
	log.WithField("name", name).Debug("Created category")
	r.byName[name] = c.ID
	return c.ID, nil
}
