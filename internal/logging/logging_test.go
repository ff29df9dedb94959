package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/flashdeck/internal/config"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(config.LogConfig{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)

	log.WithField("card_id", "c1").Info("reviewed")
	log.Debug("hidden")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "reviewed", line["msg"])
	assert.Equal(t, "c1", line["card_id"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(config.LogConfig{Level: "debug", Format: "text"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNewLogger_Errors(t *testing.T) {
	_, err := NewLogger(config.LogConfig{Level: "loud"}, nil)
	assert.Error(t, err)

	_, err = NewLogger(config.LogConfig{Level: "info", Format: "xml"}, nil)
	assert.Error(t, err)
}
