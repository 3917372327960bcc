package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

type signupForm struct {
	FirstName string `validate:"required,min=2,max=64"`
	EmailID   string `validate:"required,email"`
	Password  string `validate:"required,min=8"`
}

// TestMessages verifies per-field messages for each validation tag.
func TestMessages(t *testing.T) {
	v := validator.New()

	err := v.Struct(&signupForm{FirstName: "A", EmailID: "not-an-email", Password: ""})
	if err == nil {
		t.Fatal("Struct() should fail validation")
	}

	msgs := Messages(err)

	if msg := msgs["FirstName"]; !strings.Contains(msg, "at least 2") {
		t.Errorf("FirstName message = %q, want min-length message", msg)
	}
	if msg := msgs["EmailID"]; !strings.Contains(msg, "valid email") {
		t.Errorf("EmailID message = %q, want email message", msg)
	}
	if msg := msgs["Password"]; !strings.Contains(msg, "required") {
		t.Errorf("Password message = %q, want required message", msg)
	}
}

// TestMessages_MalformedBody verifies non-validation errors collapse into a
// single body entry.
func TestMessages_MalformedBody(t *testing.T) {
	msgs := Messages(errors.New("unexpected EOF"))

	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if msgs["body"] == "" {
		t.Error("expected a body entry for malformed input")
	}
}
