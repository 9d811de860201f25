package services_test

import (
	"context"
	"testing"

	"steameagle/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithAppID(ctx, 620)
	ctx = services.WithStage(ctx, "download")
	ctx = services.WithRunID(ctx, "run-123")

	if id, ok := services.AppIDFromContext(ctx); !ok || id != 620 {
		t.Fatalf("unexpected app id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "download" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if rid, ok := services.RunIDFromContext(ctx); !ok || rid != "run-123" {
		t.Fatalf("unexpected run id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithRunID(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id value")
	}
	if _, ok := services.AppIDFromContext(ctx); ok {
		t.Fatal("expected no app id value")
	}
}
