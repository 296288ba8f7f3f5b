package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    AppError
		code   ErrorCode
		status int
	}{
		{"invalid request", ErrInvalidRequest("bad"), ErrCodeInvalidRequest, http.StatusBadRequest},
		{"not found", ErrSupplierNotFound("sup-1"), ErrCodeNotFound, http.StatusNotFound},
		{"store unavailable", ErrStoreUnavailable("get_supplier"), ErrCodeServiceUnavailable, http.StatusInternalServerError},
		{"internal", ErrInternal("oops"), ErrCodeInternal, http.StatusInternalServerError},
		{"rate limit", ErrRateLimitExceeded("client_ip"), ErrCodeRateLimitExceeded, http.StatusTooManyRequests},
		{"parameter format", ErrInvalidParameterFormat("limit", "integer"), ErrCodeInvalidRequest, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code())
			assert.Equal(t, tt.status, tt.err.HTTPStatus())
			assert.NotEmpty(t, tt.err.Description())
		})
	}
}

func TestCauseChain(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := ErrStoreUnavailable("get_supplier").WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")

	wrapped := fmt.Errorf("lookup: %w", err)
	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeServiceUnavailable, appErr.Code())
	assert.Equal(t, http.StatusInternalServerError, StatusOf(wrapped))
}

func TestInspection(t *testing.T) {
	assert.True(t, IsNotFound(ErrSupplierNotFound("x")))
	assert.False(t, IsNotFound(ErrInternal("x")))
	assert.False(t, IsNotFound(stderrors.New("plain")))

	assert.True(t, IsClientError(ErrInvalidRequest("x")))
	assert.True(t, IsClientError(fmt.Errorf("wrapped: %w", ErrSupplierNotFound("x"))))
	assert.False(t, IsClientError(ErrStoreUnavailable("get_supplier")))
	assert.False(t, IsClientError(stderrors.New("plain")))

	assert.True(t, ShouldLogError(ErrInternal("x")))
	assert.True(t, ShouldLogError(ErrRateLimitExceeded("ip")))
	assert.True(t, ShouldLogError(stderrors.New("plain")))
	assert.False(t, ShouldLogError(ErrInvalidRequest("x")))

	assert.Equal(t, http.StatusInternalServerError, StatusOf(stderrors.New("plain")))
}

func TestToErrorResponse(t *testing.T) {
	resp := ToErrorResponse(ErrSupplierNotFound("sup-9"))
	assert.Equal(t, "not_found", resp.Error)
	assert.Equal(t, "Supplier not found: sup-9", resp.ErrorDescription)
	assert.Equal(t, "sup-9", resp.Metadata["supplier_id"])

	resp = ToErrorResponse(stderrors.New("secret internals"))
	assert.Equal(t, "internal_error", resp.Error)
	assert.NotContains(t, resp.ErrorDescription, "secret")
}
