package service

import (
	"regexp"
	"testing"

	"dollarpay/internal/domain"
	"dollarpay/internal/models"

	"github.com/stretchr/testify/require"
)

var referralCodePattern = regexp.MustCompile(`^[A-Z0-9]{8}$`)

func TestRegisterAssignsReferralCode(t *testing.T) {
	f := newFixture(t, nil)

	u, token, err := f.authSvc.Register("9100000001", "secret123", "")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Regexp(t, referralCodePattern, u.ReferralCode)
	require.Nil(t, u.ReferredByUserID)
	require.True(t, u.WalletBalance.IsZero())
}

func TestRegisterDuplicatePhone(t *testing.T) {
	f := newFixture(t, nil)
	f.registerUser(t, "9100000001", "")

	_, _, err := f.authSvc.Register("9100000001", "another", "")
	require.ErrorIs(t, err, ErrPhoneExists)
}

func TestRegisterInvalidReferralCode(t *testing.T) {
	f := newFixture(t, nil)

	_, _, err := f.authSvc.Register("9100000001", "secret123", "NOSUCH00")
	require.ErrorIs(t, err, ErrInvalidReferralCode)

	// Nothing is persisted for the failed registration.
	var count int64
	require.NoError(t, f.db.Model(&models.User{}).Count(&count).Error)
	require.Zero(t, count)
}

func edgesFor(t *testing.T, f *fixture, childID uint) map[uint]int {
	t.Helper()
	var edges []models.TeamMember
	require.NoError(t, f.db.Where("child_user_id = ?", childID).Find(&edges).Error)
	byParent := make(map[uint]int, len(edges))
	for _, e := range edges {
		byParent[e.ParentUserID] = e.Level
	}
	require.Len(t, byParent, len(edges), "duplicate parent edge")
	return byParent
}

func TestRegisterBuildsAncestorChain(t *testing.T) {
	f := newFixture(t, nil)

	a := f.registerUser(t, "9100000001", "")
	b := f.registerUser(t, "9100000002", a.ReferralCode)
	c := f.registerUser(t, "9100000003", b.ReferralCode)
	d := f.registerUser(t, "9100000004", c.ReferralCode)

	require.Equal(t, map[uint]int{c.ID: 1, b.ID: 2, a.ID: 3}, edgesFor(t, f, d.ID))
	require.Equal(t, map[uint]int{b.ID: 1, a.ID: 2}, edgesFor(t, f, c.ID))
	require.Equal(t, map[uint]int{a.ID: 1}, edgesFor(t, f, b.ID))
	require.Empty(t, edgesFor(t, f, a.ID))
}

func TestRegisterAncestryDepthCap(t *testing.T) {
	f := newFixture(t, map[string]string{domain.SettingMaxReferralDepth: "2"})

	a := f.registerUser(t, "9100000001", "")
	b := f.registerUser(t, "9100000002", a.ReferralCode)
	c := f.registerUser(t, "9100000003", b.ReferralCode)
	d := f.registerUser(t, "9100000004", c.ReferralCode)

	// A sits at level 3 from D and is beyond the cap.
	require.Equal(t, map[uint]int{c.ID: 1, b.ID: 2}, edgesFor(t, f, d.ID))
}

func TestTeamStats(t *testing.T) {
	f := newFixture(t, nil)

	a := f.registerUser(t, "9100000001", "")
	b := f.registerUser(t, "9100000002", a.ReferralCode)
	f.registerUser(t, "9100000003", a.ReferralCode)
	f.registerUser(t, "9100000004", b.ReferralCode)

	stats, err := f.teamSvc.Stats(a.ID)
	require.NoError(t, err)
	require.EqualValues(t, 3, stats.TotalMembers)
	require.EqualValues(t, 2, stats.DirectMembers)
	require.EqualValues(t, 1, stats.IndirectMembers)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture(t, nil)
	f.registerUser(t, "9100000001", "")

	_, _, err := f.authSvc.Login("9100000001", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = f.authSvc.Login("9999999999", "secret123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginBlockedUser(t *testing.T) {
	f := newFixture(t, nil)
	u := f.registerUser(t, "9100000001", "")
	require.NoError(t, f.db.Model(&models.User{}).Where("id = ?", u.ID).
		Update("is_blocked", true).Error)

	_, _, err := f.authSvc.Login("9100000001", "secret123")
	require.ErrorIs(t, err, ErrAccountBlocked)
}
