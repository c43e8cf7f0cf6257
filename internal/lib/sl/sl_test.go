package sl_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/hotel-booking/internal/lib/sl"
)

func TestErr_ReturnsCorrectAttr(t *testing.T) {
	attr := sl.Err(errors.New("room not found"))

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, "room not found", attr.Value.String())
}

func TestErr_NilError(t *testing.T) {
	assert.NotPanics(t, func() {
		attr := sl.Err(nil)
		assert.Equal(t, "<nil>", attr.Value.String())
	})
}

func TestActor_RendersGroup(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	log.Info("status changed", sl.Actor("u-1", "admin"))

	assert.Contains(t, buf.String(), "actor.id=u-1")
	assert.Contains(t, buf.String(), "actor.role=admin")
}

func TestNew_LevelDependsOnEnv(t *testing.T) {
	var local, prod bytes.Buffer

	sl.New(&local, sl.EnvLocal).Debug("cache miss")
	sl.New(&prod, "prod").Debug("cache miss")
	sl.New(&prod, "prod").Info("booking created")

	assert.Contains(t, local.String(), "cache miss")
	assert.NotContains(t, prod.String(), "cache miss")
	assert.Contains(t, prod.String(), "booking created")
}
