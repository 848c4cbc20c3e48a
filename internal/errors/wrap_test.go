package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestOpWrap(t *testing.T) {
	op := At(ModuleAPI, "course")

	t.Run("nil stays nil", func(t *testing.T) {
		if err := op.Wrap(nil, "unknown course"); err != nil {
			t.Errorf("Wrap(nil) = %v, want nil", err)
		}
		if err := op.Wrapf(nil, "unknown course %q", "X"); err != nil {
			t.Errorf("Wrapf(nil) = %v, want nil", err)
		}
	})

	t.Run("keeps cause and op", func(t *testing.T) {
		err := op.Wrapf(ErrNotFound, "unknown course %q", "ASTRO 1")

		var pub *PublicError
		if !errors.As(err, &pub) {
			t.Fatal("expected *PublicError")
		}
		if pub.Op.String() != "api.course" {
			t.Errorf("op = %q, want api.course", pub.Op)
		}
		if !errors.Is(err, ErrNotFound) {
			t.Error("cause not reachable with errors.Is")
		}
		want := `api.course: unknown course "ASTRO 1": ` + ErrNotFound.Error()
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})
}

func TestGetUserMessage(t *testing.T) {
	load := At(ModuleEngine, "load")
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"Nil", nil, ""},
		{"Plain error", errors.New("boom"), "boom"},
		{"Wrapped", load.Wrap(errors.New("eof"), "catalog unavailable"), "catalog unavailable"},
		{"Wrapped inside fmt", fmt.Errorf("reload: %w", load.Wrap(errors.New("eof"), "catalog unavailable")), "catalog unavailable"},
		{"Outermost wins", At(ModuleAdmin, "reload").Wrap(load.Wrap(errors.New("eof"), "inner"), "outer"), "outer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetUserMessage(tt.err); got != tt.want {
				t.Errorf("GetUserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
