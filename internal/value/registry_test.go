package value

import "testing"

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Set("Counter", NewInt(1))

	v, ok := r.Get("COUNTER")
	if !ok {
		t.Fatal("expected lookup to succeed case-insensitively")
	}
	if i, _ := v.AsInt(); i != 1 {
		t.Fatalf("got %d", i)
	}

	r.Set("counter", NewInt(2))
	if r.Len() != 1 {
		t.Fatalf("expected overwrite not insert, len=%d", r.Len())
	}
}

func TestRegistry_RemoveAndEnumerate(t *testing.T) {
	r := NewRegistry()
	r.Set("score", NewInt(100))
	r.Set("name", NewString("alice"))

	if !r.Remove("Score") {
		t.Fatal("expected removal to report found")
	}
	if _, ok := r.Get("score"); ok {
		t.Fatal("expected score to be gone")
	}

	entries := r.Enumerate()
	if len(entries) != 1 || entries[0].Name != "name" {
		t.Fatalf("got %+v", entries)
	}
}

func TestRegistry_TagPreservedAcrossWrite(t *testing.T) {
	r := NewRegistry()
	r.Set("flag", NewBool(true))
	v, _ := r.Get("flag")
	if v.Tag() != Bool {
		t.Fatalf("got tag %v", v.Tag())
	}
}

func TestValue_Display(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{NewInt(42), "42"},
		{NewDouble(9), "9"},
		{NewDouble(4.5), "4.5"},
		{NewBool(true), "True"},
		{NewBool(false), "False"},
		{NewString("hi"), "hi"},
	}
	for _, c := range cases {
		if got := c.v.Display(); got != c.want {
			t.Errorf("Display() = %q, want %q", got, c.want)
		}
	}
}

func TestValue_Parse(t *testing.T) {
	v, err := Parse(Int, "123")
	if err != nil {
		t.Fatal(err)
	}
	if i, _ := v.AsInt(); i != 123 {
		t.Fatalf("got %d", i)
	}

	if _, err := Parse(Int, "not-a-number"); err == nil {
		t.Fatal("expected error")
	}
}
