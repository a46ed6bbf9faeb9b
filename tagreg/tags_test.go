package tagreg

import "testing"

func TestLookup_KnownTag(t *testing.T) {
	def, ok := Lookup(37)
	if !ok {
		t.Fatal("expected tag 37 to be registered")
	}
	if def.Name != "uuid" || def.ByteStringLength != 16 {
		t.Fatalf("unexpected definition for tag 37: %+v", def)
	}
}

func TestLookup_UnknownTag(t *testing.T) {
	if _, ok := Lookup(999999999); ok {
		t.Fatal("expected an unregistered tag to report false")
	}
}

func TestAll_AscendingOrder(t *testing.T) {
	defs := All()
	if len(defs) < 90 {
		t.Fatalf("expected close to 100 registered tags, got %d", len(defs))
	}
	for i := 1; i < len(defs); i++ {
		if defs[i].Number <= defs[i-1].Number {
			t.Fatalf("expected ascending tag order, got %d after %d", defs[i].Number, defs[i-1].Number)
		}
	}
}

func TestReservedTagsAreInvalid(t *testing.T) {
	for _, tag := range []uint64{65535, 1<<32 - 1, ^uint64(0)} {
		def, ok := Lookup(tag)
		if !ok {
			t.Fatalf("expected reserved tag %d to be registered", tag)
		}
		if def.Requirement != Invalid {
			t.Fatalf("expected tag %d to be Invalid, got %v", tag, def.Requirement)
		}
	}
}
