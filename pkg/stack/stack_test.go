package stack_test

import (
	"testing"

	"stackvm/pkg/stack"
)

func TestPushPop(t *testing.T) {
	s := stack.NewStack(1, 2)
	s.Push(3)

	if s.Size() != 3 {
		t.Fatalf("expected size 3, got %d", s.Size())
	}

	for _, want := range []int{3, 2, 1} {
		got, ok := s.Pop()
		if !ok {
			t.Fatalf("expected %d, stack was empty", want)
		}
		if got != want {
			t.Errorf("expected %d, got %d", want, got)
		}
	}

	if _, ok := s.Pop(); ok {
		t.Error("expected pop on empty stack to fail")
	}
}

func TestPeek(t *testing.T) {
	s := stack.NewStack[string]()
	if _, ok := s.Peek(); ok {
		t.Error("expected peek on empty stack to fail")
	}

	s.Push("a")
	s.Push("b")
	if top, _ := s.Peek(); top != "b" {
		t.Errorf("expected top b, got %q", top)
	}
	if s.Size() != 2 {
		t.Errorf("peek changed size to %d", s.Size())
	}
	if arr := s.Array(); len(arr) != 2 || arr[0] != "a" {
		t.Errorf("unexpected array %v", arr)
	}
}
