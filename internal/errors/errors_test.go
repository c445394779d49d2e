package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := Parsing("invalid duty file", fmt.Errorf("unexpected EOF"))
	want := "[PARSING_ERROR] invalid duty file: unexpected EOF"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if NotFound("commodity", "0101.21").Error() != "[NOT_FOUND] commodity not found: 0101.21" {
		t.Errorf("unexpected message %q", NotFound("commodity", "0101.21").Error())
	}
}

func TestTypeOfWrapped(t *testing.T) {
	base := NotFound("commodity", "0101.21")
	wrapped := fmt.Errorf("lookup: %w", base)

	if !IsType(wrapped, TypeNotFound) {
		t.Error("IsType should see through fmt wrapping")
	}
	if TypeOf(wrapped) != TypeNotFound {
		t.Errorf("TypeOf = %s", TypeOf(wrapped))
	}
	if MessageOf(wrapped) != "commodity not found: 0101.21" {
		t.Errorf("MessageOf = %q", MessageOf(wrapped))
	}

	plain := stderrors.New("boom")
	if TypeOf(plain) != TypeInternal {
		t.Errorf("TypeOf(plain) = %s", TypeOf(plain))
	}
	if MessageOf(plain) != "boom" {
		t.Errorf("MessageOf(plain) = %q", MessageOf(plain))
	}
	if IsType(nil, TypeInput) {
		t.Error("nil has no type")
	}
}

func TestWithContext(t *testing.T) {
	err := Input("invalid weight").WithContext("param", "weight_kg")
	if err.Context["param"] != "weight_kg" {
		t.Errorf("context = %v", err.Context)
	}
	if !stderrors.Is(Storage("query failed", err), err) {
		t.Error("Storage should unwrap to its cause")
	}
}

func TestHasType(t *testing.T) {
	err := Input("invalid weight")
	if !err.HasType(TypeInput) {
		t.Error("HasType(TypeInput) = false")
	}
	if err.HasType(TypeNotFound) {
		t.Error("HasType(TypeNotFound) = true")
	}
	if stderrors.Is(err, Input("invalid weight")) {
		t.Error("distinct errors of the same type should not match errors.Is")
	}
}
