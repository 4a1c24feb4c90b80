package types

import "time"

// User is one registry account. HashCode doubles as the login credential,
// so it is never included in search responses shown to other users.
type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	HashCode  string    `json:"hash_code"`
	Balance   int       `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

// DemoUsername is one entry of the searchable directory. Only active
// entries are matched by a search.
type DemoUsername struct {
	Username      string `json:"username"`
	Active        bool   `json:"active"`
	MobileNumber  string `json:"mobile_number"`
	MobileDetails string `json:"mobile_details"`
}

// SearchedUsername records one failed directory lookup. MobileNumber is a
// display-only field back-filled at read time for older entries.
type SearchedUsername struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	SearchedBy   string    `json:"searched_by"`
	SearchedAt   time.Time `json:"searched_at"`
	Status       string    `json:"status"`
	MobileNumber string    `json:"mobile_number,omitempty"`
}
