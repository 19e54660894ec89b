package flow

import (
	"context"
	"testing"
	"time"
)

func TestNextTransitions(t *testing.T) {
	cases := []struct {
		name string
		from State
		ev   Event
		want State
	}{
		{"login to register", Initial(), GoRegister{}, State{Screen: ScreenRegister}},
		{"login to reset", Initial(), GoReset{}, State{Screen: ScreenResetStep1}},
		{"email verified", State{Screen: ScreenResetStep1}, EmailVerified{Email: "a@b.fr"},
			State{Screen: ScreenResetStep2, ResetEmail: "a@b.fr"}},
		{"registered returns to login", State{Screen: ScreenRegister}, Registered{}, Initial()},
		{"reset done returns to login", State{Screen: ScreenResetStep2, ResetEmail: "a@b.fr"}, ResetDone{}, Initial()},
		{"back from register", State{Screen: ScreenRegister}, Back{}, Initial()},
		{"back from reset step2 drops email", State{Screen: ScreenResetStep2, ResetEmail: "a@b.fr"}, Back{}, Initial()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Next(tc.from, tc.ev); got != tc.want {
				t.Fatalf("Next(%+v, %T) = %+v, want %+v", tc.from, tc.ev, got, tc.want)
			}
		})
	}
}

func TestNextUndefinedCombosKeepState(t *testing.T) {
	cases := []struct {
		name string
		from State
		ev   Event
	}{
		{"register while registering", State{Screen: ScreenRegister}, GoRegister{}},
		{"reset from register", State{Screen: ScreenRegister}, GoReset{}},
		{"email verified out of order", Initial(), EmailVerified{Email: "a@b.fr"}},
		{"registered from login", Initial(), Registered{}},
		{"reset done from step1", State{Screen: ScreenResetStep1}, ResetDone{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Next(tc.from, tc.ev); got != tc.from {
				t.Fatalf("Next(%+v, %T) = %+v, want unchanged", tc.from, tc.ev, got)
			}
		})
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	// 未知令牌回初始态
	st, err := s.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if st != Initial() {
		t.Fatalf("missing token: got %+v, want initial state", st)
	}

	want := State{Screen: ScreenResetStep2, ResetEmail: "a@b.fr"}
	if err := s.Put(ctx, "tok", want, time.Minute); err != nil {
		t.Fatalf("Put: %v", err)
	}
	st, err = s.Get(ctx, "tok")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if st != want {
		t.Fatalf("got %+v, want %+v", st, want)
	}

	if err := s.Delete(ctx, "tok"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	st, _ = s.Get(ctx, "tok")
	if st != Initial() {
		t.Fatalf("after delete: got %+v, want initial state", st)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Put(ctx, "tok", State{Screen: ScreenRegister}, time.Millisecond); err != nil {
		t.Fatalf("Put: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	st, err := s.Get(ctx, "tok")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if st != Initial() {
		t.Fatalf("expired token: got %+v, want initial state", st)
	}
}
