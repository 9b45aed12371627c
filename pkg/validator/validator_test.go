package validator

import "testing"

func TestValidator_FirstErrorWins(t *testing.T) {
	v := New()
	v.Check(Between(60, 0, 50), "speed_percentage", "must be between 0 and 50")
	v.Check(false, "speed_percentage", "second message")
	v.Check(NotBlank("Airport"), "destination", "must be provided")

	if v.Valid() {
		t.Fatalf("validator must be invalid")
	}
	if got := v.Errors["speed_percentage"]; got != "must be between 0 and 50" {
		t.Fatalf("unexpected message: %s", got)
	}
	if _, ok := v.Errors["destination"]; ok {
		t.Fatalf("destination must be valid")
	}
}

func TestPermittedValue(t *testing.T) {
	if !PermittedValue("sqlite", "memory", "sqlite") {
		t.Fatalf("sqlite must be permitted")
	}
	if PermittedValue(3, 1, 2) {
		t.Fatalf("3 must not be permitted")
	}
}
