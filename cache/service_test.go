package cache

import (
	"context"
	"errors"
	"testing"
)

// mockService records calls for testing the generic GetOrFetch wrapper.
type mockService struct {
	result any
	err    error
}

func (m *mockService) GetOrFetch(ctx context.Context, key string, fetchFn FetchFn[any]) (any, error) {
	return m.result, m.err
}

func (m *mockService) Delete(ctx context.Context, key string) error { return nil }

func (m *mockService) DeleteByPrefix(ctx context.Context, prefix string) error { return nil }

func (m *mockService) InvalidateKeys(ctx context.Context, keys []string) error { return nil }

func TestGetOrFetch_ValidResult(t *testing.T) {
	mock := &mockService{result: "value"}

	result, err := GetOrFetch(context.Background(), mock, "key", func(ctx context.Context) (string, error) {
		return "value", nil
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result != "value" {
		t.Errorf("result = %q, want %q", result, "value")
	}
}

func TestGetOrFetch_NilResultYieldsZeroValue(t *testing.T) {
	mock := &mockService{result: nil}

	result, err := GetOrFetch(context.Background(), mock, "key", func(ctx context.Context) ([]int, error) {
		return nil, nil
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result != nil {
		t.Errorf("result = %v, want nil slice", result)
	}
}

func TestGetOrFetch_TypeMismatch(t *testing.T) {
	// A string under a key the caller reads as int: two callers sharing a key
	// with different types.
	mock := &mockService{result: "wrong-type"}

	result, err := GetOrFetch(context.Background(), mock, "key", func(ctx context.Context) (int, error) {
		return 42, nil
	})
	if !errors.Is(err, ErrInvalidResultType) {
		t.Errorf("expected ErrInvalidResultType, got: %v", err)
	}
	if result != 0 {
		t.Errorf("result = %v, want zero value", result)
	}
}

func TestGetOrFetch_ErrorPropagates(t *testing.T) {
	wantErr := errors.New("backend down")
	mock := &mockService{err: wantErr}

	_, err := GetOrFetch(context.Background(), mock, "key", func(ctx context.Context) (string, error) {
		return "", nil
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected %v, got %v", wantErr, err)
	}
}

func TestPermanentError_Marking(t *testing.T) {
	base := errors.New("permission denied")

	wrapped := Permanent(base)
	if !IsPermanent(wrapped) {
		t.Error("Permanent(err) must be detected by IsPermanent")
	}
	if !errors.Is(wrapped, base) {
		t.Error("Permanent must preserve the error chain")
	}
	if IsPermanent(base) {
		t.Error("unwrapped errors are not permanent")
	}
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) must be nil")
	}
}
