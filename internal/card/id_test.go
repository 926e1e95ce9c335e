package card

import "testing"

func TestLocalBlockIDRoundTrip(t *testing.T) {
	id := NewLocalBlockID()
	if !id.IsLocal() {
		t.Fatal("expected local identifier")
	}
	if _, ok := id.StoreValue(); ok {
		t.Fatal("local identifier must not expose a store value")
	}

	parsed := ParseBlockID(id.String())
	if parsed != id {
		t.Fatalf("parsed = %v, want %v", parsed, id)
	}
}

func TestStoreBlockIDRoundTrip(t *testing.T) {
	id := StoreBlockID("  abc123  ")
	if id.IsLocal() {
		t.Fatal("expected persisted identifier")
	}
	value, ok := id.StoreValue()
	if !ok || value != "abc123" {
		t.Fatalf("store value = %q, %v", value, ok)
	}

	parsed := ParseBlockID(id.String())
	if parsed != id {
		t.Fatalf("parsed = %v, want %v", parsed, id)
	}
}

func TestBlockIDSpacesAreDisjoint(t *testing.T) {
	local := ParseBlockID("local-abc")
	persisted := StoreBlockID("abc")
	if local == persisted {
		t.Fatal("local and persisted identifiers with the same value must differ")
	}
}

func TestZeroBlockID(t *testing.T) {
	var id BlockID
	if !id.IsZero() {
		t.Fatal("expected zero identifier")
	}
	if ParseBlockID("") != id {
		t.Fatal("parsing empty string should yield the zero identifier")
	}
}
