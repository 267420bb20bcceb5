package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ddanilov/daybook/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_QueryAndBearer(t *testing.T) {
	var gotPath, gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		gotAuth = r.Header.Get(common.AuthorizationHeaderName)
		_ = json.NewEncoder(w).Encode(map[string]any{"entries": []map[string]any{
			{"id": "e1", "title": "Hello"},
		}})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL + "/")
	c.SetAccessToken("tok")

	entries, err := c.List(context.Background(), ListOptions{
		Query:      "beach trip",
		ImagesOnly: true,
		Tags:       []string{"travel", "work"},
		Offset:     12,
		Limit:      12,
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "e1", entries[0].ID)

	assert.Equal(t, common.BearerPrefix+"tok", gotAuth)
	assert.Contains(t, gotPath, "q=beach+trip")
	assert.Contains(t, gotPath, "images_only=true")
	assert.Contains(t, gotPath, "tags=travel%2Cwork")
	assert.Contains(t, gotPath, "offset=12")
	assert.Contains(t, gotPath, "limit=12")
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, common.ErrValidation},
		{http.StatusUnauthorized, common.ErrUnauthorized},
		{http.StatusNotFound, common.ErrNotFound},
		{http.StatusTooManyRequests, common.ErrRateLimited},
		{http.StatusInternalServerError, common.ErrInternal},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "nope"})
		}))

		c := NewHTTPClient(srv.URL)
		_, err := c.Get(context.Background(), "e1")
		assert.ErrorIs(t, err, tt.want, "status %d", tt.status)
		assert.Contains(t, err.Error(), "nope")

		srv.Close()
	}
}

func TestRequestLink_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/link", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	assert.NoError(t, c.RequestLink(context.Background(), "a@b.cd"))
}

func TestVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tok", req["token"])
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token": "jwt", "user_id": "u1", "email": "a@b.cd",
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	result, err := c.Verify(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "jwt", result.AccessToken)
	assert.Equal(t, "u1", result.UserID)
}

func TestUpdate_ImagePatchWireFormat(t *testing.T) {
	var body map[string]json.RawMessage

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "e1"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)

	// tags-only patch must not mention the image at all
	tags := []string{"travel"}
	_, err := c.Update(context.Background(), "e1", EntryPatch{Tags: &tags})
	require.NoError(t, err)
	_, hasImage := body["image"]
	assert.False(t, hasImage, "omitted image must stay omitted on the wire")

	_, err = c.Update(context.Background(), "e1", EntryPatch{Image: &ImagePatch{Op: "clear"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"op":"clear"}`, string(body["image"]))
}

func TestDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/entries/delete", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	assert.NoError(t, c.Delete(context.Background(), "e1"))
}
