package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bitbucket.org/mmdatafocus/shop_backend/utils"
	"github.com/gin-gonic/gin"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	return c, w
}

func TestRespondError_StatusMapping(t *testing.T) {
	cases := []struct {
		kind   utils.ErrorKind
		status int
	}{
		{utils.ErrorKindInvalidReference, http.StatusBadRequest},
		{utils.ErrorKindInvalidLine, http.StatusBadRequest},
		{utils.ErrorKindEmptyOrder, http.StatusBadRequest},
		{utils.ErrorKindInsufficientStock, http.StatusBadRequest},
		{utils.ErrorKindInvalidRange, http.StatusBadRequest},
		{utils.ErrorKindNotFound, http.StatusNotFound},
		{utils.ErrorKindForbidden, http.StatusForbidden},
		{utils.ErrorKindConflict, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			c, w := newTestContext(t)
			respondError(c, utils.NewAppError(tc.kind, "field", "boom"))
			if w.Code != tc.status {
				t.Fatalf("kind %s: expected status %d, got %d", tc.kind, tc.status, w.Code)
			}
		})
	}
}

func TestRespondError_UnknownErrorIs500(t *testing.T) {
	c, w := newTestContext(t)
	respondError(c, http.ErrServerClosed)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for unknown errors, got %d", w.Code)
	}
	if body := w.Body.String(); body == "" || body == "{}" {
		t.Fatal("expected an error body")
	}
}
