package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_EmptyBaseURL(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)
}

func TestLogin_KeepsRefreshCookie(t *testing.T) {
	var sawCookie string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/user/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "rt-1", Path: "/"})
		json.NewEncoder(w).Encode(tokenResponse{Token: "jwt-1"})
	})
	mux.HandleFunc("POST /api/user/refresh", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("refreshToken"); err == nil {
			sawCookie = c.Value
		}
		json.NewEncoder(w).Encode(tokenResponse{Token: "jwt-2"})
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c, err := NewClient(ts.URL)
	require.NoError(t, err)

	token, err := c.Login(context.Background(), "alice", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, "jwt-1", token)

	token, err = c.Refresh(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "jwt-2", token)
	assert.Equal(t, "rt-1", sawCookie, "refresh call must carry the stored cookie")
}

func TestRegister_ServerErrorMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(errorResponse{Error: "login already in use"})
	}))
	defer ts.Close()

	c, err := NewClient(ts.URL)
	require.NoError(t, err)

	_, err = c.Register(context.Background(), "alice", []byte("pw"), "a@x.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServer)
	assert.Contains(t, err.Error(), "login already in use")
}

func TestClaims_SendsBearerHeader(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer jwt-1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"name": "alice"})
	}))
	defer ts.Close()

	c, err := NewClient(ts.URL)
	require.NoError(t, err)

	claims, err := c.Claims(context.Background(), "jwt-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", claims["name"])
}

func TestHasExpired(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "jwt-1", r.URL.Query().Get("token"))
		json.NewEncoder(w).Encode(expiredResponse{Expired: true})
	}))
	defer ts.Close()

	c, err := NewClient(ts.URL)
	require.NoError(t, err)

	expired, err := c.HasExpired(context.Background(), "jwt-1")
	require.NoError(t, err)
	assert.True(t, expired)
}

func TestList(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]User{{ID: "u1", Login: "alice"}})
	}))
	defer ts.Close()

	c, err := NewClient(ts.URL)
	require.NoError(t, err)

	list, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "alice", list[0].Login)
}

func TestDelete_StatusWithoutBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	c, err := NewClient(ts.URL)
	require.NoError(t, err)

	err = c.Delete(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrServer)
}
