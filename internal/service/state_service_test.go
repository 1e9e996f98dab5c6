package service

import (
	"context"
	"testing"

	"design-team-be/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppStateReadModifyWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Absent scope reads as an empty map.
	state, err := f.states.GetAppState(ctx, "gdd")
	require.NoError(t, err)
	assert.Empty(t, state.State)

	_, err = f.states.SetAppState(ctx, "gdd", &dto.SetStateRequest{Key: "theme", Value: "noir"})
	require.NoError(t, err)
	_, err = f.states.SetAppState(ctx, "gdd", &dto.SetStateRequest{Key: "engine", Value: "godot"})
	require.NoError(t, err)

	state, err = f.states.GetAppState(ctx, "gdd")
	require.NoError(t, err)
	assert.Equal(t, "noir", state.State["theme"])
	assert.Equal(t, "godot", state.State["engine"])

	// Last writer wins on a single key.
	_, err = f.states.SetAppState(ctx, "gdd", &dto.SetStateRequest{Key: "theme", Value: "pastel"})
	require.NoError(t, err)
	state, err = f.states.GetAppState(ctx, "gdd")
	require.NoError(t, err)
	assert.Equal(t, "pastel", state.State["theme"])
	assert.Len(t, state.State, 2)
}

func TestUserStateIsScopedPerUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	_, err := f.states.SetUserState(ctx, alice, &dto.SetStateRequest{Key: "locale", Value: "en"})
	require.NoError(t, err)
	_, err = f.states.SetUserState(ctx, bob, &dto.SetStateRequest{Key: "locale", Value: "de"})
	require.NoError(t, err)

	state, err := f.states.GetUserState(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "en", state.State["locale"])

	state, err = f.states.GetUserState(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, "de", state.State["locale"])
}
