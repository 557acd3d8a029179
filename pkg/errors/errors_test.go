package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/runwaylab/outcomes-lab-backend/pkg/db/dbtest"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeMethod, status: http.StatusMethodNotAllowed, publicMsg: "method not allowed"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "limit out of range")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "limit out of range" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	base.WithDetails(map[string]any{"field": "limit"})
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("connection refused")
	wrapped := Wrap(CodeDependency, cause, "top products query failed")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestCodeOf(t *testing.T) {
	typed := fmt.Errorf("outer: %w", New(CodeNotFound, "missing"))
	if got := CodeOf(typed); got != CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %s", got)
	}
	if got := CodeOf(stdErrors.New("plain")); got != CodeInternal {
		t.Fatalf("expected INTERNAL_ERROR for untyped error, got %s", got)
	}
}

func TestNilErrorAccessors(t *testing.T) {
	var e *Error
	if e.Code() != CodeInternal || e.Message() != "" || e.Details() != nil || e.Unwrap() != nil || e.Error() != "" {
		t.Fatalf("nil error accessors should be zero-valued")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should be nil")
	}
}

func TestDumpCapturesPostgresFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "42P01", Message: "relation \"order_items\" does not exist", TableName: "order_items"}
	err := Wrap(CodeDependency, pgErr, "summary query failed")

	dump := Dump(err)
	if dump.Code != CodeDependency {
		t.Fatalf("expected dependency code, got %s", dump.Code)
	}
	if dump.Store != StorePostgres || dump.DBCode != "42P01" || dump.DBTable != "order_items" {
		t.Fatalf("unexpected db fields: %+v", dump)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected chain of 2, got %d", len(dump.Chain))
	}

	fields := dump.Fields()
	if fields["db_store"] != StorePostgres || fields["db_table"] != "order_items" {
		t.Fatalf("unexpected log fields: %+v", fields)
	}
	if _, ok := fields["db_detail"]; ok {
		t.Fatalf("empty detail should be omitted: %+v", fields)
	}
}

func TestDumpCapturesSQLiteFields(t *testing.T) {
	conn := dbtest.OpenEmpty(t)
	var n int64
	queryErr := conn.Raw("SELECT COUNT(*) FROM order_items").Scan(&n).Error
	if queryErr == nil {
		t.Fatalf("expected missing table error")
	}

	dump := Dump(Wrap(CodeDependency, queryErr, "summary query failed"))
	if dump.Store != StoreSQLite {
		t.Fatalf("expected sqlite store, got %+v", dump)
	}
	if dump.DBCode != "1" {
		t.Fatalf("expected SQLITE_ERROR code 1, got %s", dump.DBCode)
	}
	if !strings.Contains(dump.DBMessage, "no such table") {
		t.Fatalf("unexpected sqlite message %q", dump.DBMessage)
	}
}

func TestDumpWithoutDriverError(t *testing.T) {
	dump := Dump(stdErrors.New("plain"))
	if dump.Store != "" || dump.Code != "" {
		t.Fatalf("unexpected dump %+v", dump)
	}
	fields := dump.Fields()
	if _, ok := fields["db_store"]; ok {
		t.Fatalf("driver fields should be absent: %+v", fields)
	}
	if fields["error"] != "plain" {
		t.Fatalf("unexpected error field %v", fields["error"])
	}
	if got := Dump(nil); got.TopMessage != "" || got.Chain != nil {
		t.Fatalf("nil error should dump empty, got %+v", got)
	}
}
