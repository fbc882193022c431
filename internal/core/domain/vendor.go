package domain

// Vendor is a payee or payer referenced by transactions.
// Names are unique per organization, compared case-insensitively.
type Vendor struct {
	VendorID       string `json:"vendorID"`
	OrganizationID string `json:"organizationID"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	AuditFields
}
