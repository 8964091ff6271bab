package ops

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidfileconvert/convertbot/internal/observability"
)

type fakeUsage struct {
	counts map[int64]int64
	err    error
}

func (f *fakeUsage) CountByUser(_ context.Context, userID int64) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.counts[userID], nil
}

func testServer(usage UsageReader) *httptest.Server {
	return httptest.NewServer(NewServer(usage, observability.Nop()).Router())
}

func TestHealth(t *testing.T) {
	srv := testServer(&fakeUsage{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUsage(t *testing.T) {
	srv := testServer(&fakeUsage{counts: map[int64]int64{42: 7}})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/usage/42")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		UserID int64 `json:"user_id"`
		Count  int64 `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(42), body.UserID)
	assert.Equal(t, int64(7), body.Count)
}

func TestUsage_InvalidUserID(t *testing.T) {
	srv := testServer(&fakeUsage{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/usage/not-a-number")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUsage_QueryFailure(t *testing.T) {
	srv := testServer(&fakeUsage{err: errors.New("db closed")})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/usage/42")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
