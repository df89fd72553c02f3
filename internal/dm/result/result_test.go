package result

import (
	"bytes"
	"testing"
)

func TestResultOrderAndLookup(t *testing.T) {
	r := New()
	r.AddString("esn", "04030201")
	r.AddU32("sid", 4139)
	r.AddU8("code-channel", 7)
	r.AddBytes("active-set", []byte{0x10, 0x00, 0x0A, 0x00})

	keys := r.Keys()
	want := []string{"esn", "sid", "code-channel", "active-set"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}

	if s, ok := r.String("esn"); !ok || s != "04030201" {
		t.Errorf("String(esn) = %q, %v", s, ok)
	}
	if v, ok := r.U32("sid"); !ok || v != 4139 {
		t.Errorf("U32(sid) = %d, %v", v, ok)
	}
	if v, ok := r.U8("code-channel"); !ok || v != 7 {
		t.Errorf("U8(code-channel) = %d, %v", v, ok)
	}
	if b, ok := r.Bytes("active-set"); !ok || len(b) != 4 {
		t.Errorf("Bytes(active-set) = %v, %v", b, ok)
	}
}

func TestResultKindMismatch(t *testing.T) {
	r := New()
	r.AddU8("state", 3)
	if _, ok := r.U32("state"); ok {
		t.Error("U32 should not read a u8 value")
	}
	if _, ok := r.String("missing"); ok {
		t.Error("String should report a missing key")
	}
}

func TestResultReplaceKeepsPosition(t *testing.T) {
	r := New()
	r.AddU8("a", 1)
	r.AddU8("b", 2)
	r.AddU8("a", 3)
	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
	if r.Keys()[0] != "a" {
		t.Errorf("first key = %q, want a", r.Keys()[0])
	}
	if v, _ := r.U8("a"); v != 3 {
		t.Errorf("U8(a) = %d, want 3", v)
	}
}

func TestAddBytesCopies(t *testing.T) {
	src := []byte{1, 2, 3}
	r := New()
	r.AddBytes("mask", src)
	src[0] = 0xFF
	b, _ := r.Bytes("mask")
	if b[0] != 1 {
		t.Error("AddBytes should copy its input")
	}
}

func TestMarshalJSON(t *testing.T) {
	r := New()
	r.AddString("model", "Q6085")
	r.AddU8("band-class", 2)
	r.AddBytes("mask", []byte{0x08, 0x04})

	got, err := r.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	want := []byte(`{"model":"Q6085","band-class":2,"mask":"0804"}`)
	if !bytes.Equal(got, want) {
		t.Errorf("MarshalJSON() = %s, want %s", got, want)
	}
}
