package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/secchub/secchub-backend/internal/pkg/apperrors"
)

func handleError(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)

	HandleAPIError(ctx, err)

	var body struct {
		Error map[string]interface{} `json:"error"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	return recorder, body.Error
}

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"bad request", apperrors.NewBadRequestError("capacity out of range"), http.StatusBadRequest},
		{"schedule conflict", apperrors.ErrScheduleConflict, http.StatusConflict},
		{"class not found", apperrors.ErrClassNotFound, http.StatusNotFound},
		{"authz lookup failure", apperrors.ErrAuthzLookupFailed, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder, _ := handleError(t, tt.err)
			if recorder.Code != tt.status {
				t.Errorf("status = %d, want %d", recorder.Code, tt.status)
			}
		})
	}
}

func TestHandleAPIErrorKeepsCopiedPrefixDetails(t *testing.T) {
	failure := apperrors.NewCustomError(apperrors.ErrInternal, "duplication failed at source class 42").
		WithDetails(map[string]interface{}{"copiedClassIds": []int64{7, 8}})

	recorder, detail := handleError(t, failure)

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", recorder.Code)
	}
	// The message stays opaque while the structured details survive.
	if detail["message"] != apperrors.ErrInternal.Error() {
		t.Errorf("message = %q, want %q", detail["message"], apperrors.ErrInternal.Error())
	}
	details, ok := detail["details"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected structured details, got %v", detail["details"])
	}
	ids, ok := details["copiedClassIds"].([]interface{})
	if !ok || len(ids) != 2 {
		t.Fatalf("expected 2 copied class ids, got %v", details["copiedClassIds"])
	}
}

func TestHandleAPIErrorKeepsDetailsOnMappedErrors(t *testing.T) {
	failure := apperrors.NewCustomError(apperrors.ErrDuplicateClass, apperrors.ErrDuplicateClass.Error()).
		WithDetails(map[string]interface{}{"copiedClassIds": []int64{3}})

	recorder, detail := handleError(t, failure)

	if recorder.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", recorder.Code)
	}
	if _, ok := detail["details"].(map[string]interface{}); !ok {
		t.Errorf("expected details to survive the conflict mapping, got %v", detail["details"])
	}
}
