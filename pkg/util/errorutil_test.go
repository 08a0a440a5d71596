package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToDomainError_PassesThroughDomainErrors(t *testing.T) {
	err := NewInvalidTransition("cannot clock out while not working")

	mapped := ToDomainError(err)
	require.Equal(t, "INVALID_TRANSITION", mapped.Code)
	require.Equal(t, http.StatusConflict, mapped.HTTPStatus)
}

func TestToDomainError_WrapsUnknownErrors(t *testing.T) {
	mapped := ToDomainError(errors.New("boom"))
	require.Equal(t, "INTERNAL_ERROR", mapped.Code)
	require.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
}

func TestToDomainError_Nil(t *testing.T) {
	require.Nil(t, ToDomainError(nil))
}

func TestActorNotFoundCarriesUserID(t *testing.T) {
	err := NewActorNotFound("user-1")

	mapped := ToDomainError(err)
	require.Equal(t, "ACTOR_NOT_FOUND", mapped.Code)
	require.Equal(t, "user-1", mapped.Details["user_id"])
}

func TestDomainError_Unwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := NewPersistenceFailure(inner)
	require.ErrorIs(t, err, inner)
}
