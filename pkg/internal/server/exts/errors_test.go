package exts

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"git.solsynth.dev/hypernet/collab/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		field  string
	}{
		{"validation", &services.ValidationError{Field: "password", Message: "Password must be at least 8 characters long"}, fiber.StatusBadRequest, "password"},
		{"fiber error", fiber.NewError(fiber.StatusUnauthorized, "unauthorized"), fiber.StatusUnauthorized, ""},
		{"conflict with field", &services.FieldError{Field: "email", Err: fmt.Errorf("taken: %w", services.ErrConflict)}, fiber.StatusConflict, "email"},
		{"unauthenticated", fmt.Errorf("no session: %w", services.ErrUnauthenticated), fiber.StatusUnauthorized, ""},
		{"not found", fmt.Errorf("meeting: %w", services.ErrNotFound), fiber.StatusNotFound, ""},
		{"configuration", fmt.Errorf("livekit: %w", services.ErrConfiguration), fiber.StatusServiceUnavailable, ""},
		{"upstream", fmt.Errorf("database: %w", services.ErrUpstream), fiber.StatusBadGateway, ""},
		{"unknown", errors.New("boom"), fiber.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
			app.Get("/", func(c *fiber.Ctx) error {
				return tt.err
			})

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}

			var body map[string]string
			if err := jsoniter.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body["error"] != tt.err.Error() {
				t.Errorf("error = %q, want %q", body["error"], tt.err.Error())
			}
			if body["field"] != tt.field {
				t.Errorf("field = %q, want %q", body["field"], tt.field)
			}
		})
	}
}
