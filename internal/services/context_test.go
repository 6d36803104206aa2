package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"vidseg/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-42")
	ctx = services.WithStage(ctx, "classify")
	ctx = services.WithVideo(ctx, "/videos/session.mp4")

	id, ok := services.RunIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "run-42", id)

	stage, ok := services.StageFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "classify", stage)

	video, ok := services.VideoFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "/videos/session.mp4", video)
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithRunID(ctx, "")
	ctx = services.WithVideo(ctx, "")

	_, ok := services.StageFromContext(ctx)
	assert.False(t, ok, "stage")
	_, ok = services.RunIDFromContext(ctx)
	assert.False(t, ok, "run id")
	_, ok = services.VideoFromContext(ctx)
	assert.False(t, ok, "video")
}
