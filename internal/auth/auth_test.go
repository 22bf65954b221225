package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetSessionCookieRoundTrip(t *testing.T) {
	theAuth := New("storeapi_session", []byte("auth-test-signing-key"))

	recorder := httptest.NewRecorder()
	err := theAuth.SetSessionCookie(recorder, "some-user-id")
	require.NoError(t, err)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "storeapi_session", cookies[0].Name)

	userID, err := theAuth.ParseUserID(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, "some-user-id", userID)
}

func TestParseUserIDRejectsForeignSignature(t *testing.T) {
	theAuth := New("storeapi_session", []byte("auth-test-signing-key"))
	foreignAuth := New("storeapi_session", []byte("some-other-key"))

	recorder := httptest.NewRecorder()
	err := foreignAuth.SetSessionCookie(recorder, "some-user-id")
	require.NoError(t, err)

	userID, err := theAuth.ParseUserID(recorder.Result().Cookies()[0].Value)
	require.NoError(t, err)
	assert.Empty(t, userID, "a token signed with another key should not authenticate")
}

func TestParseUserIDRejectsGarbage(t *testing.T) {
	theAuth := New("storeapi_session", []byte("auth-test-signing-key"))

	userID, err := theAuth.ParseUserID("not-a-token")
	require.NoError(t, err)
	assert.Empty(t, userID)
}
