package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedProfilesAreComplete(t *testing.T) {
	require.Len(t, seedProfiles, 3)
	for _, p := range seedProfiles {
		assert.NotEmpty(t, p.Email, p.FullName)
		assert.NotEmpty(t, p.FullName, p.Email)
		assert.NotEmpty(t, p.Gender, p.Email)
		assert.NotEmpty(t, p.Seeking, p.Email)
		assert.NotEmpty(t, p.Bio, p.Email)
		assert.NotEmpty(t, p.StarSign, p.Email)
		// The people grid renders the photo; a seeded squad without photos looks broken
		assert.NotEmpty(t, p.PhotoURL, p.Email)
		assert.Greater(t, p.Age, 18, p.Email)
	}
}
