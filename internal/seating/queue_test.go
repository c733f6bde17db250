package seating

import (
	"testing"

	"github.com/pixil98/go-cafe/internal/nav"
	"github.com/pixil98/go-testutil"
)

func TestQueue(t *testing.T) {
	q := NewQueue()
	a, b, c := newWaiter("a"), newWaiter("b"), newWaiter("c")

	testutil.AssertEqual(t, "push a", q.Push(a), true)
	testutil.AssertEqual(t, "push b", q.Push(b), true)
	testutil.AssertEqual(t, "push a again", q.Push(a), false)
	testutil.AssertEqual(t, "push c", q.Push(c), true)
	testutil.AssertEqual(t, "push nil", q.Push(nil), false)
	testutil.AssertEqual(t, "length", q.Len(), 3)

	testutil.AssertEqual(t, "remove b", q.Remove(b), true)
	testutil.AssertEqual(t, "remove b again", q.Remove(b), false)

	names := []string{}
	for _, w := range q.Waiters() {
		names = append(names, w.(*fakeWaiter).name)
	}
	testutil.AssertEqual(t, "order", len(names), 2)
	testutil.AssertEqual(t, "front", names[0], "a")
	testutil.AssertEqual(t, "back", names[1], "c")

	w, ok := q.Pop()
	testutil.AssertEqual(t, "pop ok", ok, true)
	testutil.AssertEqual(t, "pop front", w.(*fakeWaiter).name, "a")
	testutil.AssertEqual(t, "contains a", q.Contains(a), false)

	q.Pop()
	_, ok = q.Pop()
	testutil.AssertEqual(t, "pop empty", ok, false)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	s1 := NewSeat("s1", "t1", nav.Point{})
	s2 := NewSeat("s2", "t1", nav.Point{})
	s3 := NewSeat("s3", "t2", nav.Point{})

	testutil.AssertEqual(t, "register s1", r.Register(s1), true)
	testutil.AssertEqual(t, "register s1 twice", r.Register(s1), false)
	testutil.AssertEqual(t, "register nil", r.Register(nil), false)
	r.Register(s2)
	r.Register(s3)
	testutil.AssertEqual(t, "free count", r.FreeCount(), 3)

	s2.occupied = true
	testutil.AssertEqual(t, "free after occupy", r.FreeCount(), 2)

	testutil.AssertEqual(t, "unregister s1", r.Unregister(s1), true)
	testutil.AssertEqual(t, "unregister s1 twice", r.Unregister(s1), false)
	testutil.AssertEqual(t, "len", r.Len(), 2)

	free := r.Free()
	testutil.AssertEqual(t, "free len", len(free), 1)
	testutil.AssertEqual(t, "free seat", free[0].Id, "s3")

	// Index must follow the shift so s3 can still be removed.
	testutil.AssertEqual(t, "unregister s3", r.Unregister(s3), true)
	testutil.AssertEqual(t, "remaining", r.All()[0].Id, "s2")
}
