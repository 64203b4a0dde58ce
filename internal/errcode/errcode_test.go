package errcode

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("apply: %w", Conflict("already applied"))
	if KindOf(err) != KindConflict {
		t.Fatalf("expected conflict kind, got %v", KindOf(err))
	}
	if HTTPStatus(KindOf(err)) != http.StatusConflict {
		t.Fatalf("expected 409")
	}
	if KindOf(errors.New("boom")) != KindInternal {
		t.Fatalf("plain errors should be internal")
	}
}

func TestPublicMessage_HidesCause(t *testing.T) {
	err := Unavailable(errors.New("dial tcp 10.0.0.5:5432: connection refused"))
	if got := PublicMessage(err); got != "service temporarily unavailable" {
		t.Fatalf("unexpected public message %q", got)
	}
	if HTTPStatus(KindOf(err)) != http.StatusInternalServerError {
		t.Fatalf("unavailable should map to 500")
	}
	if got := PublicMessage(Validation("title is required")); got != "title is required" {
		t.Fatalf("unexpected message %q", got)
	}
	if !errors.Is(err, err.Err) {
		t.Fatalf("cause should be unwrappable")
	}
}
