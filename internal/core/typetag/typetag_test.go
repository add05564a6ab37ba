package typetag

import "testing"

type owner interface{ name() string }

type intOwner struct{}

func (intOwner) name() string { return "int" }

type strOwner struct{}

func (strOwner) name() string { return "string" }

func TestOfDistinguishesTypes(t *testing.T) {
	if Of[int]() == Of[int32]() {
		t.Fatal("int and int32 share a tag")
	}
	if Of[int]() != Of[int]() {
		t.Fatal("tag is not stable")
	}
	if Of[owner]().Kind().String() != "interface" {
		t.Fatalf("interface tag kind = %s", Of[owner]().Kind())
	}
}

func TestLookupChecksDowncast(t *testing.T) {
	r := NewRegistry[owner]()
	r.Put(Of[int](), intOwner{})
	r.Put(Of[string](), strOwner{})

	if o, ok := Lookup[int, intOwner](r); !ok || o.name() != "int" {
		t.Fatalf("lookup int = %v, %v", o, ok)
	}
	if _, ok := Lookup[int, strOwner](r); ok {
		t.Fatal("mismatched downcast should fail")
	}
	if _, ok := Lookup[float64, intOwner](r); ok {
		t.Fatal("unregistered tag should fail")
	}
}

func TestRegistryOrderAndDelete(t *testing.T) {
	r := NewRegistry[int]()
	r.Put(Of[string](), 1)
	r.Put(Of[int](), 2)
	r.Put(Of[bool](), 3)
	r.Put(Of[int](), 4)
	r.Delete(Of[string]())

	var got []int
	r.Each(func(_ Tag, v int) { got = append(got, v) })
	if len(got) != 2 || got[0] != 4 || got[1] != 3 {
		t.Fatalf("order = %v, want [4 3]", got)
	}

	calls := 0
	mk := func() int { calls++; return 9 }
	r.GetOrPut(Of[uint](), mk)
	r.GetOrPut(Of[uint](), mk)
	if calls != 1 {
		t.Fatalf("GetOrPut created %d times", calls)
	}
}
