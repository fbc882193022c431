package domain

import "time"

// Category classifies split amounts. Categories form a tree; roots have depth 0.
type Category struct {
	CategoryID     string    `json:"categoryID"`
	OrganizationID string    `json:"organizationID"`
	Name           string    `json:"name"`
	ParentID       *string   `json:"parentID"`
	Depth          int       `json:"depth"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CategoryRef identifies a category either by id or by name. When only a
// name is given, it is resolved (or created) at root level.
type CategoryRef struct {
	CategoryID   string `json:"categoryID,omitempty"`
	CategoryName string `json:"categoryName,omitempty"`
}

// IsEmpty reports whether neither an id nor a name was supplied.
func (r CategoryRef) IsEmpty() bool {
	return r.CategoryID == "" && r.CategoryName == ""
}
