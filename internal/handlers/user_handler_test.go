package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mub7865/Hackathone-2-sub003/testutil"
)

func postJSON(t *testing.T, router http.Handler, url, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, _ := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestRegisterUser_Success(t *testing.T) {
	db, router, _, _ := testutil.SetupTestDB(t)
	defer db.Close()

	body := `{"username": "new_user", "email": "new_user@example.com", "password": "password789"}`
	resp := postJSON(t, router, "/api/register", body)

	require.Equal(t, http.StatusCreated, resp.Code, "Expected HTTP Status Code 201 Created")

	// 登録したメールアドレスでそのままログインできる
	token, err := testutil.LoginAndGetToken(t, router, "new_user@example.com", "password789")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	db, router, _, _ := testutil.SetupTestDB(t)
	defer db.Close()

	body := `{"username": "another_name", "email": "normal_user@example.com", "password": "password789"}`
	resp := postJSON(t, router, "/api/register", body)

	require.Equal(t, http.StatusConflict, resp.Code, "Expected HTTP Status Code 409 Conflict")
}

func TestRegisterUser_ShortPassword(t *testing.T) {
	db, router, _, _ := testutil.SetupTestDB(t)
	defer db.Close()

	body := `{"username": "short_pw", "email": "short_pw@example.com", "password": "short"}`
	resp := postJSON(t, router, "/api/register", body)

	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestLoginUser_Success(t *testing.T) {
	db, router, _, _ := testutil.SetupTestDB(t)
	defer db.Close()

	body := `{"email": "normal_user@example.com", "password": "password123"}`
	resp := postJSON(t, router, "/api/login", body)

	require.Equal(t, http.StatusOK, resp.Code)

	var loginRes map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &loginRes))
	assert.NotEmpty(t, loginRes["token"])
	assert.EqualValues(t, 1, loginRes["user_id"])
}

func TestLoginUser_WrongPassword(t *testing.T) {
	db, router, _, _ := testutil.SetupTestDB(t)
	defer db.Close()

	body := `{"email": "normal_user@example.com", "password": "wrong-password"}`
	resp := postJSON(t, router, "/api/login", body)

	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLoginUser_UnknownEmail(t *testing.T) {
	db, router, _, _ := testutil.SetupTestDB(t)
	defer db.Close()

	body := `{"email": "nobody@example.com", "password": "password123"}`
	resp := postJSON(t, router, "/api/login", body)

	require.Equal(t, http.StatusUnauthorized, resp.Code)
}
