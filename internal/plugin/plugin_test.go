package plugin

import (
	"context"
	"errors"
	"testing"
)

// TestHookMetadataValidation tests hook metadata validation.
func TestHookMetadataValidation(t *testing.T) {
	tests := []struct {
		name      string
		metadata  HookMetadata
		expectErr bool
	}{
		{
			name:      "valid metadata",
			metadata:  HookMetadata{Name: "backup", Source: SourceBuiltin},
			expectErr: false,
		},
		{
			name:      "missing name",
			metadata:  HookMetadata{Source: SourceBuiltin},
			expectErr: true,
		},
		{
			name:      "invalid source",
			metadata:  HookMetadata{Name: "backup", Source: HookSource("pip")},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.metadata.Validate()
			if tt.expectErr && err == nil {
				t.Error("expected error but got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestHookMetadataString(t *testing.T) {
	m := HookMetadata{Name: "gitguard", Source: SourceBuiltin}
	if got := m.String(); got != "gitguard (builtin)" {
		t.Errorf("String() = %q", got)
	}
}

func TestNewHook(t *testing.T) {
	var seen string
	boom := errors.New("boom")
	h := NewHook("probe", "records the artifact", func(_ context.Context, artifact string) error {
		seen = artifact
		return boom
	})

	if h.Metadata().Source != SourceCode {
		t.Errorf("expected code source, got %s", h.Metadata().Source)
	}
	if err := h.Invoke(context.Background(), "contracts/a.cairo"); !errors.Is(err, boom) {
		t.Errorf("Invoke() error = %v, want %v", err, boom)
	}
	if seen != "contracts/a.cairo" {
		t.Errorf("hook saw %q", seen)
	}

	if err := NewHook("noop", "", nil).Invoke(context.Background(), "x"); err != nil {
		t.Errorf("nil func hook should succeed, got %v", err)
	}
}

func TestKnownPoint(t *testing.T) {
	if !KnownPoint(PointBeforeCompile) {
		t.Error("before-compile must be known")
	}
	if KnownPoint("after-deploy") {
		t.Error("after-deploy must not be known")
	}
}

func TestRunIDContext(t *testing.T) {
	ctx := context.Background()
	if got := RunIDFromContext(ctx); got != "" {
		t.Errorf("expected empty run id, got %q", got)
	}
	if got := RunIDFromContext(WithRunID(ctx, "run-1")); got != "run-1" {
		t.Errorf("expected run-1, got %q", got)
	}
}
