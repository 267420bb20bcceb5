package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ddanilov/daybook/internal/common"
	"github.com/ddanilov/daybook/internal/logging"
	"github.com/ddanilov/daybook/internal/server/auth"
	"github.com/ddanilov/daybook/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

type fakeAuth struct {
	linkErr error
	lastTo  string

	verifyToken string
	verifyUser  *models.User
	verifyErr   error
}

func (f *fakeAuth) RequestLink(ctx context.Context, email string) error {
	f.lastTo = email
	return f.linkErr
}

func (f *fakeAuth) Verify(ctx context.Context, token string) (string, *models.User, error) {
	if f.verifyErr != nil {
		return "", nil, f.verifyErr
	}
	return f.verifyToken, f.verifyUser, nil
}

type fakeEntries struct {
	listResult []*models.Entry
	listFilter models.ListFilter
	listOffset int
	listLimit  int
	listErr    error

	created   *models.Entry
	createErr error

	updated   *models.Entry
	updPatch  models.EntryPatch
	updErr    error

	got    *models.Entry
	getErr error

	deletedID string
	delUserID string
	delErr    error

	signedURL string
	signErr   error

	uploadKey string
	uploadURL string
	uploadRef string
	uploadErr error
}

func (f *fakeEntries) List(ctx context.Context, filter models.ListFilter, offset, limit int) ([]*models.Entry, error) {
	f.listFilter, f.listOffset, f.listLimit = filter, offset, limit
	return f.listResult, f.listErr
}

func (f *fakeEntries) Get(ctx context.Context, userID, id string) (*models.Entry, error) {
	return f.got, f.getErr
}

func (f *fakeEntries) Create(ctx context.Context, userID, title, content string, imageRef *string, tags []string) (*models.Entry, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = &models.Entry{ID: "new-id", UserID: userID, Title: title, Content: content, ImageRef: imageRef, Tags: tags}
	return f.created, nil
}

func (f *fakeEntries) Update(ctx context.Context, userID, id string, patch models.EntryPatch) (*models.Entry, error) {
	f.updPatch = patch
	return f.updated, f.updErr
}

func (f *fakeEntries) Delete(ctx context.Context, userID, id string) error {
	f.deletedID, f.delUserID = id, userID
	return f.delErr
}

func (f *fakeEntries) SignURL(ctx context.Context, path, bucket string, expires time.Duration) (string, error) {
	return f.signedURL, f.signErr
}

func (f *fakeEntries) NewUploadURL(ctx context.Context, userID, ext string) (string, string, string, error) {
	return f.uploadKey, f.uploadURL, f.uploadRef, f.uploadErr
}

func newTestServer(a *fakeAuth, e *fakeEntries) http.Handler {
	return New(":0", a, e, testSecret, logging.NewJSON(io.Discard)).Handler()
}

func bearerFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, testSecret, time.Hour)
	require.NoError(t, err)
	return common.BearerPrefix + token
}

func doJSON(t *testing.T, h http.Handler, method, target, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if bearer != "" {
		req.Header.Set(common.AuthorizationHeaderName, bearer)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRequestLinkEndpoint(t *testing.T) {
	a := &fakeAuth{}
	h := newTestServer(a, &fakeEntries{})

	rr := doJSON(t, h, http.MethodPost, "/api/auth/link", "", map[string]string{"email": "a@b.cd"})
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "a@b.cd", a.lastTo)
}

func TestRequestLinkEndpoint_InvalidEmail(t *testing.T) {
	h := newTestServer(&fakeAuth{}, &fakeEntries{})

	rr := doJSON(t, h, http.MethodPost, "/api/auth/link", "", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRequestLinkEndpoint_RateLimited(t *testing.T) {
	h := newTestServer(&fakeAuth{linkErr: common.ErrRateLimited}, &fakeEntries{})

	rr := doJSON(t, h, http.MethodPost, "/api/auth/link", "", map[string]string{"email": "a@b.cd"})
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestVerifyEndpoint(t *testing.T) {
	a := &fakeAuth{verifyToken: "jwt-token", verifyUser: &models.User{ID: "user-1", Email: "a@b.cd"}}
	h := newTestServer(a, &fakeEntries{})

	rr := doJSON(t, h, http.MethodPost, "/api/auth/verify", "", map[string]string{"token": "tok"})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "jwt-token", resp["access_token"])
	assert.Equal(t, "user-1", resp["user_id"])
	assert.Equal(t, "a@b.cd", resp["email"])
}

func TestVerifyEndpoint_InvalidToken(t *testing.T) {
	h := newTestServer(&fakeAuth{verifyErr: common.ErrInvalidToken}, &fakeEntries{})

	rr := doJSON(t, h, http.MethodPost, "/api/auth/verify", "", map[string]string{"token": "bad"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestListEntries(t *testing.T) {
	ref := "pic.jpg"
	e := &fakeEntries{listResult: []*models.Entry{
		{ID: "e1", Title: "Hello", Tags: []string{"travel"}, ImageRef: &ref},
		{ID: "e2", Title: "World"},
	}}
	h := newTestServer(&fakeAuth{}, e)

	rr := doJSON(t, h, http.MethodGet, "/api/entries?q=beach+trip&images_only=true&tags=Travel,work&offset=12&limit=12", bearerFor(t, "user-1"), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, "user-1", e.listFilter.UserID, "scope comes from the token, never the request")
	assert.Equal(t, "beach trip", e.listFilter.Query)
	assert.True(t, e.listFilter.ImagesOnly)
	assert.Equal(t, []string{"travel", "work"}, e.listFilter.Tags)
	assert.Equal(t, 12, e.listOffset)
	assert.Equal(t, 12, e.listLimit)

	var resp struct {
		Entries []entryDTO `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "e1", resp.Entries[0].ID)
	require.NotNil(t, resp.Entries[0].ImageRef)
	assert.Nil(t, resp.Entries[1].ImageRef)
}

func TestListEntries_NoBearer(t *testing.T) {
	h := newTestServer(&fakeAuth{}, &fakeEntries{})

	rr := doJSON(t, h, http.MethodGet, "/api/entries", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestListEntries_ExpiredToken(t *testing.T) {
	h := newTestServer(&fakeAuth{}, &fakeEntries{})

	expired, err := auth.GenerateToken("user-1", testSecret, -time.Minute)
	require.NoError(t, err)

	rr := doJSON(t, h, http.MethodGet, "/api/entries", common.BearerPrefix+expired, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateEntry(t *testing.T) {
	e := &fakeEntries{}
	h := newTestServer(&fakeAuth{}, e)

	rr := doJSON(t, h, http.MethodPost, "/api/entries", bearerFor(t, "user-1"), map[string]any{
		"title":   "Hello",
		"content": "World",
		"tags":    []string{"travel"},
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "user-1", e.created.UserID)
	assert.Equal(t, "Hello", e.created.Title)
}

func TestUpdateEntry_ImageTriState(t *testing.T) {
	e := &fakeEntries{updated: &models.Entry{ID: "e1"}}
	h := newTestServer(&fakeAuth{}, e)
	bearer := bearerFor(t, "user-1")

	// omitted image keeps the current reference
	rr := doJSON(t, h, http.MethodPatch, "/api/entries/e1", bearer, map[string]any{"title": "x"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, e.updPatch.Image.Op == models.ImageKeep || e.updPatch.Image.Op == "")

	rr = doJSON(t, h, http.MethodPatch, "/api/entries/e1", bearer, map[string]any{"image": map[string]string{"op": "clear"}})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.ImageClear, e.updPatch.Image.Op)

	rr = doJSON(t, h, http.MethodPatch, "/api/entries/e1", bearer, map[string]any{"image": map[string]string{"op": "set", "ref": "new.jpg"}})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.ImageSet, e.updPatch.Image.Op)
	assert.Equal(t, "new.jpg", e.updPatch.Image.Ref)

	rr = doJSON(t, h, http.MethodPatch, "/api/entries/e1", bearer, map[string]any{"image": map[string]string{"op": "bogus"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateEntry_NotFound(t *testing.T) {
	h := newTestServer(&fakeAuth{}, &fakeEntries{updErr: common.ErrNotFound})

	rr := doJSON(t, h, http.MethodPatch, "/api/entries/nope", bearerFor(t, "user-1"), map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteEntry(t *testing.T) {
	e := &fakeEntries{}
	h := newTestServer(&fakeAuth{}, e)

	rr := doJSON(t, h, http.MethodPost, "/api/entries/delete", bearerFor(t, "user-1"), map[string]string{"id": "e1"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
	assert.Equal(t, "e1", e.deletedID)
	assert.Equal(t, "user-1", e.delUserID)
}

func TestDeleteEntry_Statuses(t *testing.T) {
	bearer := bearerFor(t, "user-1")

	// missing bearer
	rr := doJSON(t, newTestServer(&fakeAuth{}, &fakeEntries{}), http.MethodPost, "/api/entries/delete", "", map[string]string{"id": "e1"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// missing id
	rr = doJSON(t, newTestServer(&fakeAuth{}, &fakeEntries{}), http.MethodPost, "/api/entries/delete", bearer, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// outside caller scope
	rr = doJSON(t, newTestServer(&fakeAuth{}, &fakeEntries{delErr: common.ErrNotFound}), http.MethodPost, "/api/entries/delete", bearer, map[string]string{"id": "e1"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// row removal failed
	rr = doJSON(t, newTestServer(&fakeAuth{}, &fakeEntries{delErr: common.ErrStore}), http.MethodPost, "/api/entries/delete", bearer, map[string]string{"id": "e1"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSignURLEndpoint(t *testing.T) {
	e := &fakeEntries{signedURL: "https://signed.example/u"}
	h := newTestServer(&fakeAuth{}, e)

	rr := doJSON(t, h, http.MethodPost, "/api/storage/signed-url", "", map[string]any{"path": "pic.jpg", "expiresIn": 3600})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"url":"https://signed.example/u"}`, rr.Body.String())
}

func TestSignURLEndpoint_Statuses(t *testing.T) {
	// missing path
	rr := doJSON(t, newTestServer(&fakeAuth{}, &fakeEntries{signErr: common.ErrValidation}), http.MethodPost, "/api/storage/signed-url", "", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// store not configured
	rr = doJSON(t, newTestServer(&fakeAuth{}, &fakeEntries{signErr: common.ErrInternal}), http.MethodPost, "/api/storage/signed-url", "", map[string]any{"path": "k"})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	// signing failed
	rr = doJSON(t, newTestServer(&fakeAuth{}, &fakeEntries{signErr: common.ErrStore}), http.MethodPost, "/api/storage/signed-url", "", map[string]any{"path": "k"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUploadURLEndpoint(t *testing.T) {
	e := &fakeEntries{uploadKey: "123-abc.jpg", uploadURL: "https://put.example/u", uploadRef: "123-abc.jpg"}
	h := newTestServer(&fakeAuth{}, e)

	rr := doJSON(t, h, http.MethodPost, "/api/storage/upload-url", bearerFor(t, "user-1"), map[string]string{"ext": "jpg"})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "123-abc.jpg", resp["key"])
	assert.Equal(t, "https://put.example/u", resp["url"])
}
