package ragModel

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestDerivePointID(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		a := DerivePointID("The sky is blue.")
		b := DerivePointID("The sky is blue.")
		if a != b {
			t.Errorf("same text produced different ids: %s vs %s", a, b)
		}
	})

	t.Run("Distinct_Texts_Distinct_IDs", func(t *testing.T) {
		if DerivePointID("The sky is blue.") == DerivePointID("The sky is grey.") {
			t.Error("different texts collided")
		}
	})

	t.Run("Valid_UUID_Shape", func(t *testing.T) {
		id := DerivePointID("anything at all")
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("id %q is not a parseable uuid: %v", id, err)
		}
	})

	t.Run("Known_Value", func(t *testing.T) {
		// sha256("hola") = b221d9dbb083a7f33428d7c2a3c3198ae925614d70210e28716ccaa7cd4ddb79
		if got := DerivePointID("hola"); got != "b221d9db-b083-a7f3-3428-d7c2a3c3198a" {
			t.Errorf("got %s", got)
		}
	})
}

func TestContentHash(t *testing.T) {
	got := ContentHash("hola")
	if got != "b221d9dbb083a7f33428d7c2a3c3198ae925614d70210e28716ccaa7cd4ddb79" {
		t.Errorf("got %s", got)
	}
	if len(got) != 64 || strings.ToLower(got) != got {
		t.Errorf("hash %q is not lowercase hex of 32 bytes", got)
	}
}

func TestContentHashPrefixesPointID(t *testing.T) {
	text := "chunk identity and payload hash come from the same digest"
	id := DerivePointID(text)
	hash := ContentHash(text)
	if strings.ReplaceAll(id, "-", "") != hash[:32] {
		t.Errorf("id %s does not match the hash prefix %s", id, hash[:32])
	}
}
