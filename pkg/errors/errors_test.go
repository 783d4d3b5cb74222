package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := Wrap(CodeDependency, cause, "discovery request failed")

	typed := As(err)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeDependency {
		t.Fatalf("unexpected code: %s", typed.Code())
	}
	if typed.Unwrap() != cause {
		t.Fatal("expected cause to be preserved")
	}
}

func TestAsThroughWrappedChain(t *testing.T) {
	inner := New(CodeNotFound, "no embedded events")
	outer := fmt.Errorf("search %q: %w", "Sabrina Carpenter", inner)

	if !IsNotFound(outer) {
		t.Fatal("expected NotFound to survive wrapping")
	}
	if IsRetryable(outer) {
		t.Fatal("NotFound must never be retryable")
	}
}

func TestRetryableByCode(t *testing.T) {
	if !IsRetryable(New(CodeDependency, "502 from upstream")) {
		t.Fatal("dependency errors should be retryable")
	}
	if !IsRetryable(New(CodeRepository, "tx begin failed")) {
		t.Fatal("repository errors should be retryable")
	}
	if IsRetryable(New(CodeTransform, "bad date")) {
		t.Fatal("transform errors are record-level, not retryable")
	}
}

func TestMetadataForUnknownCode(t *testing.T) {
	meta := MetadataFor(Code("SOMETHING_ELSE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown codes should map to 500, got %d", meta.HTTPStatus)
	}
}

func TestDumpSurfacesPGError(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "events_id_date_price_key",
		TableName:      "events",
		Message:        "duplicate key value violates unique constraint",
	}
	err := Wrap(CodeRepository, pgErr, "append price")

	d := Dump(err)
	if d.PGCode != "23505" {
		t.Fatalf("unexpected pg code: %s", d.PGCode)
	}
	if d.PGConstraint != "events_id_date_price_key" {
		t.Fatalf("unexpected constraint: %s", d.PGConstraint)
	}
	if d.Code != CodeRepository {
		t.Fatalf("unexpected code: %s", d.Code)
	}
	if len(d.Chain) < 2 {
		t.Fatalf("expected full chain, got %v", d.Chain)
	}
}
