package types

// Country is a member country of a group with its display name
type Country struct {
	ISO  string `json:"iso"`
	Name string `json:"name"`
}

// Group is an origin group (landgroup / agreement) with its members
type Group struct {
	// Code is the canonical group code
	Code string `json:"code"`

	// Name is the optional display name
	Name string `json:"name,omitempty"`

	// Countries lists ISO-2 member codes
	Countries []string `json:"countries"`
}

// GroupInfo is a group code resolved through a directory
type GroupInfo struct {
	Code      string    `json:"code"`
	Name      *string   `json:"name"`
	Countries []Country `json:"countries"`
}
