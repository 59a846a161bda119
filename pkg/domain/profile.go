package domain

// Role is the authorization role attached to a profile.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Address is a saved delivery address on a profile.
type Address struct {
	ID        string `json:"_id,omitempty"`
	Label     string `json:"label,omitempty"`
	Street    string `json:"street"`
	City      string `json:"city"`
	Zip       string `json:"zip,omitempty"`
	Phone     string `json:"phone"`
	IsDefault bool   `json:"isDefault,omitempty"`
}

// Profile is the authenticated customer's identity as returned by the API.
type Profile struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Addresses []Address `json:"addresses,omitempty"`
}

// IsAdmin reports whether the profile carries the admin role.
func (p Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// DefaultAddress returns the address flagged as default, falling back to the
// first saved address. The second value is false when no address is saved.
func (p Profile) DefaultAddress() (Address, bool) {
	for _, a := range p.Addresses {
		if a.IsDefault {
			return a, true
		}
	}
	if len(p.Addresses) > 0 {
		return p.Addresses[0], true
	}
	return Address{}, false
}

// Clone returns a deep copy so callers can't mutate the store's addresses.
func (p Profile) Clone() Profile {
	if p.Addresses != nil {
		p.Addresses = append([]Address(nil), p.Addresses...)
	}
	return p
}

// ProfilePatch is a partial profile as returned by GET /auth/me.
// Nil fields were absent from the response.
type ProfilePatch struct {
	ID        *string    `json:"_id"`
	Name      *string    `json:"name"`
	Email     *string    `json:"email"`
	Role      *Role      `json:"role"`
	Addresses *[]Address `json:"addresses"`
}

// Apply merges the fields present in patch into a copy of p.
func (p Profile) Apply(patch ProfilePatch) Profile {
	out := p.Clone()
	if patch.ID != nil {
		out.ID = *patch.ID
	}
	if patch.Name != nil {
		out.Name = *patch.Name
	}
	if patch.Email != nil {
		out.Email = *patch.Email
	}
	if patch.Role != nil {
		out.Role = *patch.Role
	}
	if patch.Addresses != nil {
		out.Addresses = append([]Address(nil), (*patch.Addresses)...)
	}
	return out
}

// AuthResponse is the body returned by login and register: the token plus
// the profile fields at the top level.
type AuthResponse struct {
	Token string `json:"token"`
	Profile
}

// UpdateProfileRequest is the payload for PUT /auth/profile.
type UpdateProfileRequest struct {
	Name      string    `json:"name"`
	Addresses []Address `json:"addresses"`
}
