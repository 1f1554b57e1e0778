package models

// Actor is the request-scoped identity every engine call receives. It is
// built once by the auth middleware from the token claims; nothing below the
// handlers reads ambient session state.
type Actor struct {
	ID         uint
	Role       string
	VendorType string
}

func (a Actor) IsAdmin() bool   { return a.Role == RoleAdmin }
func (a Actor) IsStudent() bool { return a.Role == RoleStudent }

func (a Actor) IsCanteenVendor() bool {
	return a.Role == RoleVendor && a.VendorType == VendorCanteen
}

func (a Actor) IsPrintVendor() bool {
	return a.Role == RoleVendor && a.VendorType == VendorPrint
}
