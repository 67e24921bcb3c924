package models

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestAmount_AcceptsNumbersAndStrings(t *testing.T) {
	var w Wallet
	err := json.Unmarshal([]byte(`{"available":"12.50","reserved":3,"pending":null,"totalSpent":""}`), &w)
	require.NoError(t, err)
	require.Equal(t, Amount(12.5), w.Available)
	require.Equal(t, Amount(3), w.Reserved)
	require.Zero(t, w.Pending)
	require.Zero(t, w.TotalSpent)
	require.Equal(t, "12.50", w.Available.String())
}

func TestAmount_RejectsGarbage(t *testing.T) {
	var a Amount
	require.Error(t, json.Unmarshal([]byte(`"twelve"`), &a))
	require.Error(t, json.Unmarshal([]byte(`{}`), &a))
}

func TestUser_DisplayName(t *testing.T) {
	require.Equal(t, "Ali Valiyev", (&User{FirstName: "Ali", LastName: "Valiyev"}).DisplayName())
	require.Equal(t, "Ali", (&User{FirstName: "Ali", Username: "ali"}).DisplayName())
	require.Equal(t, "@ali", (&User{Username: "ali"}).DisplayName())
	require.Equal(t, "u1", (&User{ID: "u1"}).DisplayName())

	var nilUser *User
	require.Empty(t, nilUser.DisplayName())
}

func TestLoginStatus_Decode(t *testing.T) {
	var st LoginStatus
	raw := `{"authorized":true,"tokens":{"accessToken":"A","refreshToken":"R"},"user":{"id":"u1","role":"ADVERTISER","locale":"uz"}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &st))
	require.True(t, st.Authorized)
	require.Equal(t, Tokens{AccessToken: "A", RefreshToken: "R"}, *st.Tokens)
	require.Equal(t, "ADVERTISER", st.User.Role)
}

func TestDefaultAdForm(t *testing.T) {
	want := AdForm{
		ContentType:       ContentText,
		Buttons:           []AdButton{},
		TargetImpressions: 1000,
		Targeting:         AdTargeting{Languages: []string{"uz", "ru", "en"}, Frequency: "unique"},
	}
	if diff := cmp.Diff(want, DefaultAdForm()); diff != "" {
		t.Fatalf("DefaultAdForm mismatch (-want +got):\n%s", diff)
	}
}

func TestAdTargeting_CloneIsDeep(t *testing.T) {
	orig := &AdTargeting{Languages: []string{"uz"}, Frequency: "daily"}
	c := orig.Clone()
	c.Languages[0] = "ru"
	require.Equal(t, "uz", orig.Languages[0])

	var nilT *AdTargeting
	require.Nil(t, nilT.Clone())
}

func TestParseAssignments(t *testing.T) {
	got, err := ParseAssignments([]string{"frequencyMinutes = 30", "postFilter=all", "url=https://x.uz/?a=b"})
	require.NoError(t, err)
	require.Equal(t, []Assignment{
		{Name: "frequencyMinutes", Value: "30"},
		{Name: "postFilter", Value: "all"},
		{Name: "url", Value: "https://x.uz/?a=b"},
	}, got)

	_, err = ParseAssignments([]string{"justname"})
	require.ErrorIs(t, err, ErrIncorrectAssignment)
	_, err = ParseAssignments([]string{"=value"})
	require.ErrorIs(t, err, ErrIncorrectAssignment)
}
