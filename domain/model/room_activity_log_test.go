package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestActivityActionValid(t *testing.T) {
	for _, action := range []ActivityAction{ActionCreated, ActionJoined, ActionLeft, ActionExpired, ActionDeleted} {
		require.True(t, action.Valid(), "action %q", action)
	}

	require.False(t, ActivityAction("").Valid())
	require.False(t, ActivityAction("CREATED").Valid())
	require.False(t, ActivityAction("renamed").Valid())
}

func TestValidActionsCoversAllConstants(t *testing.T) {
	actions := ValidActions()
	require.Len(t, actions, 5)

	for _, action := range actions {
		require.True(t, action.Valid())
	}
}
