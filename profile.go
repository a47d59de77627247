package authkit

import (
	"fmt"
	"strings"
)

// DefaultAvatarURL stands in for an avatar when neither the identity provider
// nor the user supplies one.
const DefaultAvatarURL = "https://images.pexels.com/photos/1139743/pexels-photo-1139743.jpeg?auto=compress&cs=tinysrgb&w=400"

// A UserProfile is the application-level user record stored by the profile service.
//
// An agent authenticates first with the identity provider; the resulting
// session's email keys the UserProfile held as the current user.
// Whenever a UserProfile is current, its Email matches the active session's email.
type UserProfile struct {
	ID          string `json:"_id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar"`
	Bio         string `json:"bio,omitempty"`
	JoinedDate  string `json:"joinedDate"`
	Email       string `json:"email"`
	Website     string `json:"website"`
	Location    string `json:"location"`
}

// Exists asserts whether the UserProfile is a record the profile service has issued.
func (u UserProfile) Exists() bool { return u.ID != "" }

// GetID retrieves the profile service's identifier for the user.
func (u UserProfile) GetID() string { return u.ID }

// GetEmail retrieves the email address of the user.
func (u UserProfile) GetEmail() string { return u.Email }

// Apply overlays the five mutable fields from edits onto a copy of the
// UserProfile, leaving ID, Username, Email and JoinedDate untouched.
func (u UserProfile) Apply(edits ProfileEdits) UserProfile {
	u.DisplayName = edits.DisplayName
	u.Bio = edits.Bio
	u.Location = edits.Location
	u.Website = edits.Website
	u.Avatar = edits.Avatar
	return u
}

// ProfileEdits carries the full set of user-mutable UserProfile fields.
// All five replace their counterparts together; there is no partial-field update.
type ProfileEdits struct {
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
	Location    string `json:"location"`
	Website     string `json:"website"`
	Avatar      string `json:"avatar"`
}

// A Registration is the payload creating a brand new UserProfile
// with the profile service.
type Registration struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar"`
	Email       string `json:"email"`
}

// Valid asserts all required Registration fields are set.
func (r Registration) Valid() error {
	for field, val := range map[string]string{
		"Username":    r.Username,
		"DisplayName": r.DisplayName,
		"Avatar":      r.Avatar,
		"Email":       r.Email,
	} {
		if val == "" {
			return fmt.Errorf("%w: Registration.%s cannot be %q", ErrNotValid, field, val)
		}
	}

	return nil
}

// UsernameFromEmail derives a username from the local-part of an email,
// the text before the "@".
func UsernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
