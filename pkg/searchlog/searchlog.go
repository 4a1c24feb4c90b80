package searchlog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/surajislam/Hean/pkg/document"
	"github.com/surajislam/Hean/pkg/types"
)

// StatusNotFound is the status every logged entry carries: the log only
// records searches that found nothing.
const StatusNotFound = "not_found"

// mobileNumberUnset is the display default back-filled at read time for
// entries written before the field existed.
const mobileNumberUnset = "Not Available"

// Document is the full persisted state of the search log.
type Document struct {
	SearchedUsernames []types.SearchedUsername `json:"searched_usernames"`
}

// Log defines the operations the request-handling layer consumes.
type Log interface {
	// Add records a failed search; a no-op when the username is already
	// logged under case-insensitive comparison
	Add(ctx context.Context, username, searchedBy string) error

	// List returns all entries in storage order
	List(ctx context.Context) ([]types.SearchedUsername, error)

	// Delete removes the entry with the given id; a no-op when absent
	Delete(ctx context.Context, id int) error
}

// Manager owns the searched-usernames document and is its sole mutator.
type Manager struct {
	store *document.Store[Document]
}

// Compile-time interface compliance check
var _ Log = (*Manager)(nil)

// NewManager creates the search log over the document file at path.
func NewManager(ctx context.Context, path string) (*Manager, error) {
	m := &Manager{
		store: document.New(path, defaultDocument, normalizeDocument),
	}
	if _, err := m.store.InitIfAbsent(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize search log: %w", err)
	}
	return m, nil
}

func defaultDocument() Document {
	return Document{SearchedUsernames: []types.SearchedUsername{}}
}

func normalizeDocument(doc *Document) bool {
	if doc.SearchedUsernames == nil {
		doc.SearchedUsernames = []types.SearchedUsername{}
		return true
	}
	return false
}

// Add appends a failed search for username, attributed to the hash code of
// the requesting user. Re-searching an already-logged username is silently
// dropped, compared case-insensitively against what was stored.
func (m *Manager) Add(ctx context.Context, username, searchedBy string) error {
	lowered := strings.ToLower(username)

	return m.store.Update(ctx, func(doc *Document) error {
		for _, e := range doc.SearchedUsernames {
			if strings.ToLower(e.Username) == lowered {
				return nil
			}
		}
		entry := types.SearchedUsername{
			ID:         maxEntryID(doc.SearchedUsernames) + 1,
			Username:   username,
			SearchedBy: searchedBy,
			SearchedAt: time.Now(),
			Status:     StatusNotFound,
		}
		doc.SearchedUsernames = append(doc.SearchedUsernames, entry)
		logrus.WithField("username", username).Info("logged failed search")
		return nil
	})
}

// List returns all entries. Entries lacking a mobile number get a display
// default back-filled in the returned slice only; the file is untouched.
func (m *Manager) List(ctx context.Context) ([]types.SearchedUsername, error) {
	doc, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]types.SearchedUsername, len(doc.SearchedUsernames))
	copy(entries, doc.SearchedUsernames)
	for i := range entries {
		if entries[i].MobileNumber == "" {
			entries[i].MobileNumber = mobileNumberUnset
		}
	}
	return entries, nil
}

// Delete removes the entry with the given id. Deleting an id that is not
// present leaves the log unchanged and is not an error.
func (m *Manager) Delete(ctx context.Context, id int) error {
	return m.store.Update(ctx, func(doc *Document) error {
		kept := doc.SearchedUsernames[:0]
		for _, e := range doc.SearchedUsernames {
			if e.ID != id {
				kept = append(kept, e)
			}
		}
		doc.SearchedUsernames = kept
		return nil
	})
}

func maxEntryID(entries []types.SearchedUsername) int {
	max := 0
	for _, e := range entries {
		if e.ID > max {
			max = e.ID
		}
	}
	return max
}
