package dom

import "testing"

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a := NewNode(5, NoID, 0)

	if r.AddNode(a) {
		t.Error("first AddNode reported replaced")
	}
	if r.GetNode(5) != a {
		t.Error("GetNode(5) did not return the added node")
	}
	if r.GetNode(6) != nil {
		t.Error("GetNode(6) should be nil")
	}

	b := NewNode(5, NoID, 0)
	if !r.AddNode(b) {
		t.Error("duplicate AddNode did not report replaced")
	}
	if r.GetNode(5) != b {
		t.Error("duplicate AddNode should overwrite")
	}

	r.RemoveNode(5)
	if r.GetNode(5) != nil || r.Len() != 0 {
		t.Error("RemoveNode left the entry behind")
	}
}

func TestRegistryRangeOrdered(t *testing.T) {
	r := NewRegistry()
	for _, id := range []uint32{9, 3, 7, 1} {
		r.AddNode(NewNode(id, NoID, 0))
	}

	var got []uint32
	r.Range(func(n *Node) bool {
		got = append(got, n.ID)
		return true
	})
	if want := []uint32{1, 3, 7, 9}; !equalIDs(got, want) {
		t.Errorf("Range order = %v, want %v", got, want)
	}

	count := 0
	r.Range(func(*Node) bool {
		count++
		return count < 2
	})
	if count != 2 {
		t.Errorf("Range did not stop early: %d visits", count)
	}
}
