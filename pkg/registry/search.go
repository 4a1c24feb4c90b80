package registry

import (
	"context"
	"fmt"
	"strings"
)

// SearchResult is the public contact info returned for a matched
// directory entry.
type SearchResult struct {
	Username      string `json:"username"`
	MobileNumber  string `json:"mobile_number"`
	MobileDetails string `json:"mobile_details"`
}

// SearchPublicInfo looks up a username in the directory. A leading "@" is
// stripped and the match is case-insensitive, but only active entries are
// considered. Returns ErrNotFound when nothing matches; the caller decides
// what message to attach on that path.
func (m *Manager) SearchPublicInfo(ctx context.Context, query string) (SearchResult, error) {
	query = strings.TrimPrefix(query, "@")
	lowered := strings.ToLower(query)

	doc, err := m.store.Load(ctx)
	if err != nil {
		return SearchResult{}, err
	}

	for _, d := range doc.DemoUsernames {
		if d.Active && strings.ToLower(d.Username) == lowered {
			return SearchResult{
				Username:      d.Username,
				MobileNumber:  d.MobileNumber,
				MobileDetails: d.MobileDetails,
			}, nil
		}
	}
	return SearchResult{}, fmt.Errorf("%w: no details available", ErrNotFound)
}
