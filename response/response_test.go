package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golivishiva/Digital-Notice-Board/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func run(t *testing.T, h gin.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.POST("/x", h)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var b ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	return b.Error
}

func TestFail_MapsKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{service.ErrValidation("Title and content are required"), http.StatusBadRequest, "Title and content are required"},
		{service.ErrConflict("Email already registered"), http.StatusBadRequest, "Email already registered"},
		{service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
		{service.ErrPermissionDenied, http.StatusForbidden, "Permission denied"},
		{service.ErrNoticeNotFound, http.StatusNotFound, "Notice not found"},
		{errors.New("dial tcp: connection refused"), http.StatusInternalServerError, "Failed to get notices"},
	}
	for _, tc := range cases {
		w := run(t, func(c *gin.Context) { Fail(c, tc.err, "Failed to get notices") }, "")
		assert.Equal(t, tc.status, w.Code)
		assert.Equal(t, tc.msg, decodeError(t, w))
	}
}

func TestFail_InternalNeverLeaksDetail(t *testing.T) {
	w := run(t, func(c *gin.Context) { Fail(c, errors.New("secret table nb_user"), "") }, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "nb_user")
}

func TestBindError_Messages(t *testing.T) {
	type req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Role     string `json:"role" binding:"omitempty,oneof=admin staff student"`
	}
	handler := func(c *gin.Context) {
		var r req
		if err := c.ShouldBindJSON(&r); err != nil {
			BindError(c, err)
			return
		}
		OK(c, r)
	}

	cases := map[string]string{
		`{}`:                                    "email is required",
		`{"email":"nope","password":"secret1"}`: "Invalid email",
		`{"email":"a@x.edu","password":"123"}`:  "Password must be at least 6 characters",
		`{"email":"a@x.edu","password":"secret1","role":"x"}`: "Invalid role",
		`not json`: "Invalid request body",
	}
	for body, want := range cases {
		w := run(t, handler, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, want, decodeError(t, w), body)
	}

	w := run(t, handler, `{"email":"a@x.edu","password":"secret1"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}
