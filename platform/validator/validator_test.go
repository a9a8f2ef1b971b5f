package validator

import "testing"

func TestOpaqueID(t *testing.T) {
	val := New()

	valid := []string{"A", "3f1c2a9e-8d7b-4c1a-9e2f-0b1d2c3e4f5a", "agent_42", "12345"}
	for _, id := range valid {
		if err := val.Var(id, "opaqueid"); err != nil {
			t.Errorf("expected %q to be valid: %v", id, err)
		}
	}

	invalid := []string{"", "has space", "tab\there", string(make([]byte, 129))}
	for _, id := range invalid {
		if err := val.Var(id, "opaqueid"); err == nil {
			t.Errorf("expected %q to be rejected", id)
		}
	}
}

func TestFieldErrors(t *testing.T) {
	type query struct {
		Limit int `validate:"min=1,max=10"`
	}

	err := New().Struct(query{Limit: 50})
	fields := FieldErrors(err)
	if fields["Limit"] != "max" {
		t.Fatalf("expected Limit to fail max, got %v", fields)
	}

	if FieldErrors(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
}
