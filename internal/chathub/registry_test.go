package chathub_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pairchat/backend/internal/chathub"
	"pairchat/backend/internal/models"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := chathub.NewRegistry()
	client := newMockClient("user_a")

	sess := r.Register(client)
	assert.Equal(t, models.StateIdle, sess.State, "fresh connections start idle")

	got, ok := r.Lookup("user_a")
	assert.True(t, ok)
	assert.Same(t, sess, got)

	_, ok = r.Lookup("user_b")
	assert.False(t, ok)
}

func TestRegistryAttachProfile(t *testing.T) {
	r := chathub.NewRegistry()
	r.Register(newMockClient("user_a"))

	profile := &models.Profile{Gender: "female", Interests: []string{"music", "travel"}}
	r.AttachProfile("user_a", profile)

	sess, _ := r.Lookup("user_a")
	assert.Same(t, profile, sess.Profile)
	assert.Equal(t, models.StateIdle, sess.State, "attaching a profile changes no state")

	// Attaching to an unknown id is a no-op.
	r.AttachProfile("ghost", profile)
	_, ok := r.Lookup("ghost")
	assert.False(t, ok)
}

func TestRegistryRemoveIdempotent(t *testing.T) {
	r := chathub.NewRegistry()
	r.Register(newMockClient("user_a"))

	_, ok := r.Remove("user_a")
	assert.True(t, ok)

	// Disconnect and explicit end can race; the loser is a no-op.
	_, ok = r.Remove("user_a")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}
