package httpx

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without internal err",
			err:  ErrValidation("lot numbers required"),
			want: "code=2001, message=lot numbers required",
		},
		{
			name: "error with internal err",
			err:  ErrDatabase("database error", errors.New("driver: bad connection")),
			want: "code=5001, message=database error, err=driver: bad connection",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrNoFieldsToUpdate(t *testing.T) {
	err := ErrNoFieldsToUpdate()
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("Expected HTTP status %d, got %d", http.StatusBadRequest, err.HTTPStatus)
	}
	if err.Code != CodeNoFieldsToUpdate {
		t.Errorf("Expected code %d, got %d", CodeNoFieldsToUpdate, err.Code)
	}
	if err.Message != "no fields to update" {
		t.Errorf("Expected message 'no fields to update', got '%s'", err.Message)
	}
}

func TestErrNotFound(t *testing.T) {
	err := ErrNotFound("material sheet not found")
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("Expected HTTP status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Code != CodeNotFound {
		t.Errorf("Expected code %d, got %d", CodeNotFound, err.Code)
	}
	if err.Message != "material sheet not found" {
		t.Errorf("Expected custom message, got '%s'", err.Message)
	}
}

func TestErrNotFound_DefaultMessage(t *testing.T) {
	err := ErrNotFound("")
	if err.Message != "resource not found" {
		t.Errorf("Expected default message, got '%s'", err.Message)
	}
}

func TestErrInvalidCredentials(t *testing.T) {
	err := ErrInvalidCredentials()
	if err.HTTPStatus != http.StatusUnauthorized {
		t.Errorf("Expected HTTP status %d, got %d", http.StatusUnauthorized, err.HTTPStatus)
	}
	if err.Code != CodeInvalidCredentials {
		t.Errorf("Expected code %d, got %d", CodeInvalidCredentials, err.Code)
	}
	if err.Message != "invalid credentials" {
		t.Errorf("Expected fixed message, got '%s'", err.Message)
	}
}

func TestErrForbidden(t *testing.T) {
	err := ErrForbidden("")
	if err.HTTPStatus != http.StatusForbidden {
		t.Errorf("Expected HTTP status %d, got %d", http.StatusForbidden, err.HTTPStatus)
	}
	if err.Code != CodeForbidden {
		t.Errorf("Expected code %d, got %d", CodeForbidden, err.Code)
	}
}

func TestErrDependency(t *testing.T) {
	inner := errors.New("dial tcp: connection refused")
	err := ErrDependency("mail relay unreachable", inner)
	if err.HTTPStatus != http.StatusBadGateway {
		t.Errorf("Expected HTTP status %d, got %d", http.StatusBadGateway, err.HTTPStatus)
	}
	if !errors.Is(err, inner) {
		t.Error("Expected errors.Is to see the wrapped internal error")
	}
}

func TestErrLengthMismatch(t *testing.T) {
	err := ErrLengthMismatch("")
	if err.Code != CodeLengthMismatch {
		t.Errorf("Expected code %d, got %d", CodeLengthMismatch, err.Code)
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("Expected HTTP status %d, got %d", http.StatusBadRequest, err.HTTPStatus)
	}
}
