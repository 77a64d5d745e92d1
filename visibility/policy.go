// Package visibility decides which active check-ins a viewer may see at a venue.
// The filter is an ordered list of named exclusion rules so each business rule,
// including the configurable gender-gated grid, can be tested on its own.
package visibility

import (
	"sort"
	"strings"

	"github.com/hirlapp/hirl-server/models"
)

// Rule excludes check-ins from a viewer's grid. Excludes returns true when the
// check-in must be hidden from this viewer.
type Rule struct {
	Name     string
	Excludes func(viewer *models.User, c *models.CheckIn) bool
}

// Options tune the policy. GridGenderGateEnabled reproduces the legacy behavior
// where only one gender gets the full people grid; everyone else sees an empty one.
type Options struct {
	GridGenderGateEnabled bool
	GridFullAccessGender  string
}

// Policy applies its rules in order to every candidate check-in.
type Policy struct {
	rules []Rule
}

// NewPolicy builds the default rule chain: own check-in, private mode, seeking
// preference, then the optional gender gate. Block exclusion is handled in Visible
// because it needs the block edges, not just the check-in row.
func NewPolicy(opts Options) *Policy {
	rules := []Rule{
		{
			Name: "exclude-self",
			Excludes: func(viewer *models.User, c *models.CheckIn) bool {
				return strings.EqualFold(c.UserEmail, viewer.Email)
			},
		},
		{
			Name: "exclude-private-mode",
			Excludes: func(viewer *models.User, c *models.CheckIn) bool {
				return c.UserPrivateMode
			},
		},
		{
			Name: "seeking-preference",
			Excludes: func(viewer *models.User, c *models.CheckIn) bool {
				if viewer.Seeking == "" || viewer.Seeking == models.SeekingEveryone {
					return false
				}
				return c.UserGender != viewer.Seeking
			},
		},
	}

	if opts.GridGenderGateEnabled {
		gender := opts.GridFullAccessGender
		if gender == "" {
			gender = models.GenderFemale
		}
		rules = append(rules, Rule{
			Name: "grid-gender-gate",
			Excludes: func(viewer *models.User, c *models.CheckIn) bool {
				return viewer.Gender != gender
			},
		})
	}

	return &Policy{rules: rules}
}

// Rules exposes the rule names, mainly for diagnostics.
func (p *Policy) Rules() []string {
	names := make([]string, 0, len(p.rules))
	for _, r := range p.rules {
		names = append(names, r.Name)
	}
	return names
}

// Visible filters the active check-ins at a venue down to what viewer may see.
// Blocks are applied in both directions. The result is ordered by check-in creation
// time ascending so grids render deterministically between polls.
func (p *Policy) Visible(viewer *models.User, checkIns []models.CheckIn, blocks []models.Block) []models.CheckIn {
	hidden := map[string]bool{}
	for _, b := range blocks {
		if strings.EqualFold(b.BlockerEmail, viewer.Email) {
			hidden[strings.ToLower(b.BlockedEmail)] = true
		}
		if strings.EqualFold(b.BlockedEmail, viewer.Email) {
			hidden[strings.ToLower(b.BlockerEmail)] = true
		}
	}

	out := make([]models.CheckIn, 0, len(checkIns))
next:
	for _, c := range checkIns {
		if hidden[strings.ToLower(c.UserEmail)] {
			continue
		}
		for _, r := range p.rules {
			if r.Excludes(viewer, &c) {
				continue next
			}
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
