package authkit_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/twiller-app/authkit"
)

func TestUserProfileApply(t *testing.T) {
	// Arrange
	original := authkit.UserProfile{
		ID:          "1",
		Username:    "ada",
		DisplayName: "Ada B",
		Avatar:      "old-avatar",
		Bio:         "old bio",
		JoinedDate:  "April 2024",
		Email:       "a@b.com",
		Website:     "old-site",
		Location:    "old-town",
	}

	// Act
	got := original.Apply(authkit.ProfileEdits{
		DisplayName: "X",
		Bio:         "Y",
		Location:    "Z",
		Website:     "W",
		Avatar:      "A",
	})

	// Assert: the five mutable fields move together, the rest never move
	require.Equal(t, "X", got.DisplayName)
	require.Equal(t, "Y", got.Bio)
	require.Equal(t, "Z", got.Location)
	require.Equal(t, "W", got.Website)
	require.Equal(t, "A", got.Avatar)
	require.Equal(t, original.ID, got.ID)
	require.Equal(t, original.Username, got.Username)
	require.Equal(t, original.Email, got.Email)
	require.Equal(t, original.JoinedDate, got.JoinedDate)

	// Apply copies; the original is untouched.
	require.Equal(t, "Ada B", original.DisplayName)
}

func TestRegistrationValid(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input authkit.Registration
		valid bool
	}{
		{"Complete", authkit.Registration{Username: "u", DisplayName: "d", Avatar: "a", Email: "e@x.com"}, true},
		{"NoUsername", authkit.Registration{DisplayName: "d", Avatar: "a", Email: "e@x.com"}, false},
		{"NoDisplayName", authkit.Registration{Username: "u", Avatar: "a", Email: "e@x.com"}, false},
		{"NoAvatar", authkit.Registration{Username: "u", DisplayName: "d", Email: "e@x.com"}, false},
		{"NoEmail", authkit.Registration{Username: "u", DisplayName: "d", Avatar: "a"}, false},
		{"Zero-Value", authkit.Registration{}, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.input.Valid()
			if tc.valid {
				require.Nil(t, err)
				return
			}
			require.ErrorIs(t, err, authkit.ErrNotValid)
		})
	}
}

func TestUsernameFromEmail(t *testing.T) {
	for _, tc := range []struct {
		input    string
		expected string
	}{
		{"brand.new@x.com", "brand.new"},
		{"a@b.com", "a"},
		{"no-at-sign", "no-at-sign"},
		{"", ""},
	} {
		t.Run(tc.input, func(t *testing.T) {
			require.Equal(t, tc.expected, authkit.UsernameFromEmail(tc.input))
		})
	}
}

func TestUserProfileExists(t *testing.T) {
	require.False(t, authkit.UserProfile{}.Exists())
	require.True(t, authkit.UserProfile{ID: "1"}.Exists())
}
