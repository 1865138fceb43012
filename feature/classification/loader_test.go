package classification

import (
	"testing"

	"kbli-registry/feature/classification/source"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestLoader(t *testing.T) {
	svc := newTestService(t, testConfig(), source.Config{}, Dependencies{})
	feature := NewFeature(testConfig(), svc)

	assert.Equal(t, "registry", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.Same(t, svc, feature.Service())

	app := fiber.New()
	assert.NoError(t, feature.Load(app))

	disabled := NewFeature(Config{}, svc)
	assert.False(t, disabled.IsEnabled())
}
