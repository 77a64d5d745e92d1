package visibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirlapp/hirl-server/models"
)

func viewer(email, gender, seeking string) *models.User {
	return &models.User{Email: email, Gender: gender, Seeking: seeking}
}

func checkInOf(email, gender string, private bool) models.CheckIn {
	return models.CheckIn{
		UserEmail:       email,
		UserGender:      gender,
		IsActive:        true,
		CreatedAt:       time.Now(),
		UserPrivateMode: private,
	}
}

func emails(checkIns []models.CheckIn) []string {
	out := make([]string, 0, len(checkIns))
	for _, c := range checkIns {
		out = append(out, c.UserEmail)
	}
	return out
}

func TestVisibleExcludesSelf(t *testing.T) {
	p := NewPolicy(Options{})
	v := viewer("me@hirl.com", models.GenderFemale, models.SeekingEveryone)
	checkIns := []models.CheckIn{
		checkInOf("me@hirl.com", models.GenderFemale, false),
		checkInOf("other@hirl.com", models.GenderMale, false),
	}

	visible := p.Visible(v, checkIns, nil)
	assert.Equal(t, []string{"other@hirl.com"}, emails(visible))
}

func TestVisibleExcludesPrivateMode(t *testing.T) {
	p := NewPolicy(Options{})
	v := viewer("me@hirl.com", models.GenderFemale, models.SeekingEveryone)
	checkIns := []models.CheckIn{
		checkInOf("hidden@hirl.com", models.GenderMale, true),
		checkInOf("shown@hirl.com", models.GenderMale, false),
	}

	visible := p.Visible(v, checkIns, nil)
	assert.Equal(t, []string{"shown@hirl.com"}, emails(visible))
}

func TestVisibleAppliesSeekingPreference(t *testing.T) {
	p := NewPolicy(Options{})
	checkIns := []models.CheckIn{
		checkInOf("m@hirl.com", models.GenderMale, false),
		checkInOf("f@hirl.com", models.GenderFemale, false),
		checkInOf("o@hirl.com", models.GenderOther, false),
	}

	seekingMen := viewer("me@hirl.com", models.GenderFemale, models.GenderMale)
	assert.Equal(t, []string{"m@hirl.com"}, emails(p.Visible(seekingMen, checkIns, nil)))

	seekingAll := viewer("me@hirl.com", models.GenderFemale, models.SeekingEveryone)
	assert.Len(t, p.Visible(seekingAll, checkIns, nil), 3)

	// Empty seeking behaves like everyone
	noPref := viewer("me@hirl.com", models.GenderFemale, "")
	assert.Len(t, p.Visible(noPref, checkIns, nil), 3)
}

func TestVisibleAppliesBlocksBothDirections(t *testing.T) {
	p := NewPolicy(Options{})
	v := viewer("me@hirl.com", models.GenderFemale, models.SeekingEveryone)
	checkIns := []models.CheckIn{
		checkInOf("iblocked@hirl.com", models.GenderMale, false),
		checkInOf("blockedme@hirl.com", models.GenderMale, false),
		checkInOf("neutral@hirl.com", models.GenderMale, false),
	}
	blocks := []models.Block{
		{BlockerEmail: "me@hirl.com", BlockedEmail: "iblocked@hirl.com"},
		{BlockerEmail: "blockedme@hirl.com", BlockedEmail: "me@hirl.com"},
	}

	visible := p.Visible(v, checkIns, blocks)
	assert.Equal(t, []string{"neutral@hirl.com"}, emails(visible))
}

func TestVisibleGenderGate(t *testing.T) {
	p := NewPolicy(Options{GridGenderGateEnabled: true, GridFullAccessGender: models.GenderFemale})
	checkIns := []models.CheckIn{
		checkInOf("a@hirl.com", models.GenderMale, false),
		checkInOf("b@hirl.com", models.GenderFemale, false),
	}

	full := viewer("me@hirl.com", models.GenderFemale, models.SeekingEveryone)
	assert.Len(t, p.Visible(full, checkIns, nil), 2)

	gated := viewer("him@hirl.com", models.GenderMale, models.SeekingEveryone)
	assert.Empty(t, p.Visible(gated, checkIns, nil))
}

func TestVisibleGenderGateDisabledByDefault(t *testing.T) {
	p := NewPolicy(Options{})
	gated := viewer("him@hirl.com", models.GenderMale, models.SeekingEveryone)
	checkIns := []models.CheckIn{checkInOf("b@hirl.com", models.GenderFemale, false)}
	assert.Len(t, p.Visible(gated, checkIns, nil), 1)
}

func TestVisibleOrderedByCreationTime(t *testing.T) {
	p := NewPolicy(Options{})
	v := viewer("me@hirl.com", models.GenderFemale, models.SeekingEveryone)

	base := time.Now()
	first := checkInOf("first@hirl.com", models.GenderMale, false)
	first.CreatedAt = base.Add(-2 * time.Hour)
	second := checkInOf("second@hirl.com", models.GenderMale, false)
	second.CreatedAt = base.Add(-1 * time.Hour)
	third := checkInOf("third@hirl.com", models.GenderMale, false)
	third.CreatedAt = base

	visible := p.Visible(v, []models.CheckIn{third, first, second}, nil)
	require.Len(t, visible, 3)
	assert.Equal(t, []string{"first@hirl.com", "second@hirl.com", "third@hirl.com"}, emails(visible))
}

func TestRulesNames(t *testing.T) {
	p := NewPolicy(Options{})
	assert.Equal(t, []string{"exclude-self", "exclude-private-mode", "seeking-preference"}, p.Rules())

	gated := NewPolicy(Options{GridGenderGateEnabled: true})
	assert.Contains(t, gated.Rules(), "grid-gender-gate")
}
