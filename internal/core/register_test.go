package core

import "testing"

type fakeBackend struct{ name string }

func (f fakeBackend) Name() string { return f.name }

func TestRegisterThenRegisteredReturnsIt(t *testing.T) {
	ResetForTesting()
	defer ResetForTesting()

	Register(fakeBackend{name: "fake"})
	got := Registered()
	if got == nil || got.Name() != "fake" {
		t.Fatalf("Registered() = %v, want a backend named %q", got, "fake")
	}
}

func TestRegisterTwicePanics(t *testing.T) {
	ResetForTesting()
	defer ResetForTesting()

	Register(fakeBackend{name: "first"})

	defer func() {
		if recover() == nil {
			t.Fatal("expected the second Register call to panic")
		}
	}()
	Register(fakeBackend{name: "second"})
}

func TestRegisteredNilBeforeRegistration(t *testing.T) {
	ResetForTesting()
	defer ResetForTesting()

	if got := Registered(); got != nil {
		t.Fatalf("Registered() = %v, want nil", got)
	}
}
