package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserDuplicateEmail(t *testing.T) {
	ts, _ := newTestServer(t)

	body := gin.H{
		"email":        "dup@example.com",
		"display_name": "First",
		"password":     "right-password",
	}
	resp, _ := postJSON(t, ts.URL+"/v1/users", "", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, parsed := postJSON(t, ts.URL+"/v1/users", "", body)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "EMAIL_TAKEN", parsed.Code)
	assert.False(t, parsed.Success)
}

func TestCreateUserResponseCarriesNoPasswordMaterial(t *testing.T) {
	ts, _ := newTestServer(t)

	data, err := json.Marshal(gin.H{
		"email":        "clean@example.com",
		"display_name": "Clean",
		"password":     "super-secret-pw",
	})
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/v1/users", "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "super-secret-pw")
}

func TestListUsersRequiresGuard(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v1/users")
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", parsed.Code)
}

func TestUploadImageReturnsBucketURL(t *testing.T) {
	ts, _ := newTestServer(t)
	userID, token := registerAndLogin(t, ts, "picture@example.com")

	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	part, err := writer.CreateFormFile("file", "avatar.png")
	require.NoError(t, err)
	_, err = part.Write([]byte{0x89, 0x50, 0x4e, 0x47})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/v1/users/me/image", &form)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))

	var uploadData struct {
		ImageURL string `json:"image_url"`
	}
	require.NoError(t, json.Unmarshal(parsed.Data, &uploadData))
	assert.Equal(t, "https://users-bucket.s3.amazonaws.com/"+userID+".jpg", uploadData.ImageURL)

	// Subsequent reads surface the same derived URL.
	getResp := getJSON(t, ts, "/v1/users/"+userID, token)
	var userData struct {
		ImageURL string `json:"image_url"`
	}
	require.NoError(t, json.Unmarshal(getResp.Data, &userData))
	assert.Equal(t, uploadData.ImageURL, userData.ImageURL)
}

func TestUpdateMeChangesDisplayName(t *testing.T) {
	ts, _ := newTestServer(t)
	userID, token := registerAndLogin(t, ts, "rename@example.com")

	data, err := json.Marshal(gin.H{"display_name": "Renamed"})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPatch, ts.URL+"/v1/users/me", bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	getResp := getJSON(t, ts, "/v1/users/"+userID, token)
	var userData struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	}
	require.NoError(t, json.Unmarshal(getResp.Data, &userData))
	assert.Equal(t, userID, userData.ID)
	assert.Equal(t, "Renamed", userData.DisplayName)
}

func getJSON(t *testing.T, ts *httptest.Server, path, token string) apiResponse {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return parsed
}
