package registry

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/surajislam/Hean/pkg/document"
	"github.com/surajislam/Hean/pkg/types"
)

const (
	hashCodeLength  = 12
	hashCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// Attempts at generating a hash code that does not collide with an
	// existing one before giving up. Collisions are vanishingly rare at
	// this scale, so hitting the cap means the generator is broken.
	maxCodeAttempts = 100

	seedAdminName    = "Admin User"
	seedAdminHash    = "ADMIN9999RSX"
	seedSpecialName  = "Special User"
	seedSpecialHash  = "SPECIAL9999X"
	seedBalance      = 9999
	defaultCustomMsg = "You have just added balance, please wait for 2 minutes for search"
)

var (
	// ErrValidation marks malformed caller input. Handlers map it to a
	// user-facing message, never a 5xx.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a record that does not exist.
	ErrNotFound = errors.New("not found")
)

// Document is the full persisted state of the user registry.
type Document struct {
	Users         []types.User         `json:"users"`
	DemoUsernames []types.DemoUsername `json:"demo_usernames"`
	ValidUTRs     []string             `json:"valid_utrs"`
	CustomMessage string               `json:"custom_message"`
}

// Manager owns the users document and is its sole mutator.
type Manager struct {
	store *document.Store[Document]

	// newCode is swappable in tests to force collisions.
	newCode func() (string, error)
}

// NewManager creates the registry over the document file at path and seeds
// it on first run. The seeded admin hash code is logged exactly once at
// seed time; there is no way to recover it later.
func NewManager(ctx context.Context, path string) (*Manager, error) {
	m := &Manager{
		store:   document.New(path, defaultDocument, normalizeDocument),
		newCode: generateHashCode,
	}

	seeded, err := m.store.InitIfAbsent(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize user registry: %w", err)
	}
	if seeded {
		logrus.WithField("hash_code", seedAdminHash).
			Warn("seeded admin account, note the hash code now - it is not shown again")
	}
	return m, nil
}

func defaultDocument() Document {
	now := time.Now()
	return Document{
		Users: []types.User{
			{ID: 1, Name: seedAdminName, HashCode: seedAdminHash, Balance: seedBalance, CreatedAt: now},
			{ID: 2, Name: seedSpecialName, HashCode: seedSpecialHash, Balance: seedBalance, CreatedAt: now},
		},
		DemoUsernames: []types.DemoUsername{},
		ValidUTRs:     []string{},
		CustomMessage: defaultCustomMsg,
	}
}

// normalizeDocument back-fills top-level keys missing from files written
// by older versions.
func normalizeDocument(doc *Document) bool {
	changed := false
	if doc.Users == nil {
		doc.Users = []types.User{}
		changed = true
	}
	if doc.DemoUsernames == nil {
		doc.DemoUsernames = []types.DemoUsername{}
		changed = true
	}
	if doc.ValidUTRs == nil {
		doc.ValidUTRs = []string{}
		changed = true
	}
	if doc.CustomMessage == "" {
		doc.CustomMessage = defaultCustomMsg
		changed = true
	}
	return changed
}

// CreateUser registers a new account under the given display name and
// returns it, including the freshly generated hash code.
func (m *Manager) CreateUser(ctx context.Context, name string) (types.User, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return types.User{}, fmt.Errorf("%w: name must be at least 2 characters", ErrValidation)
	}

	var created types.User
	err := m.store.Update(ctx, func(doc *Document) error {
		code, err := m.uniqueCode(doc)
		if err != nil {
			return err
		}
		created = types.User{
			ID:        maxUserID(doc.Users) + 1,
			Name:      name,
			HashCode:  code,
			Balance:   0,
			CreatedAt: time.Now(),
		}
		doc.Users = append(doc.Users, created)
		return nil
	})
	if err != nil {
		return types.User{}, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id": created.ID,
		"name":    created.Name,
	}).Info("created user")
	return created, nil
}

// Authenticate resolves a hash code to its account. The match is exact and
// case-sensitive. Returns ErrValidation for an empty code and ErrNotFound
// when no account carries the code.
func (m *Manager) Authenticate(ctx context.Context, hashCode string) (types.User, error) {
	hashCode = strings.TrimSpace(hashCode)
	if hashCode == "" {
		return types.User{}, fmt.Errorf("%w: hash code is required", ErrValidation)
	}

	doc, err := m.store.Load(ctx)
	if err != nil {
		return types.User{}, err
	}
	for _, u := range doc.Users {
		if u.HashCode == hashCode {
			return u, nil
		}
	}
	return types.User{}, fmt.Errorf("%w: no account for hash code", ErrNotFound)
}

// UpdateBalance overwrites the balance of the account identified by
// hashCode.
func (m *Manager) UpdateBalance(ctx context.Context, hashCode string, balance int) error {
	if balance < 0 {
		return fmt.Errorf("%w: balance must not be negative", ErrValidation)
	}

	return m.store.Update(ctx, func(doc *Document) error {
		for i := range doc.Users {
			if doc.Users[i].HashCode == hashCode {
				doc.Users[i].Balance = balance
				return nil
			}
		}
		return fmt.Errorf("%w: no account for hash code", ErrNotFound)
	})
}

// ListUsers returns all accounts in storage order.
func (m *Manager) ListUsers(ctx context.Context) ([]types.User, error) {
	doc, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Users, nil
}

// CustomMessage returns the operator-configured message shown to users on
// an unsuccessful search.
func (m *Manager) CustomMessage(ctx context.Context) (string, error) {
	doc, err := m.store.Load(ctx)
	if err != nil {
		return "", err
	}
	return doc.CustomMessage, nil
}

// DemoUsernames returns the searchable directory.
func (m *Manager) DemoUsernames(ctx context.Context) ([]types.DemoUsername, error) {
	doc, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.DemoUsernames, nil
}

// uniqueCode generates a hash code and regenerates on collision with any
// existing account.
func (m *Manager) uniqueCode(doc *Document) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := m.newCode()
		if err != nil {
			return "", fmt.Errorf("failed to generate hash code: %w", err)
		}
		if !codeExists(doc.Users, code) {
			return code, nil
		}
		logrus.WithField("attempt", attempt+1).Warn("hash code collision, regenerating")
	}
	return "", fmt.Errorf("failed to generate a unique hash code after %d attempts", maxCodeAttempts)
}

func codeExists(users []types.User, code string) bool {
	for _, u := range users {
		if u.HashCode == code {
			return true
		}
	}
	return false
}

func maxUserID(users []types.User) int {
	max := 0
	for _, u := range users {
		if u.ID > max {
			max = u.ID
		}
	}
	return max
}

func generateHashCode() (string, error) {
	b := make([]byte, hashCodeLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(hashCodeCharset))))
		if err != nil {
			return "", err
		}
		b[i] = hashCodeCharset[n.Int64()]
	}
	return string(b), nil
}
