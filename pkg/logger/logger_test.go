package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProduccionEmiteJSONConServicio(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Name: "contable-pro", Level: "info", Writer: &buf})

	log.Info().Str("env", "production").Msg("iniciando aplicación")

	line := buf.String()
	require.NotEmpty(t, line)
	assert.True(t, strings.HasPrefix(line, "{"), "producción emite JSON: %s", line)
	assert.Contains(t, line, `"service":"contable-pro"`)
	assert.Contains(t, line, `"level":"info"`)
	assert.Contains(t, line, `"message":"iniciando aplicación"`)
}

func TestNew_NivelFiltraEventos(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Level: "error", Writer: &buf})

	log.Info().Msg("no debería salir")
	assert.Empty(t, buf.String())

	log.Error().Msg("esto sí")
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestNew_DesarrolloUsaConsola(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "development", Level: "info", Writer: &buf})

	log.Info().Msg("legible")
	line := buf.String()
	require.NotEmpty(t, line)
	assert.False(t, strings.HasPrefix(line, "{"), "development no emite JSON: %s", line)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":       zerolog.DebugLevel,
		"info":        zerolog.InfoLevel,
		"warn":        zerolog.WarnLevel,
		"error":       zerolog.ErrorLevel,
		"":            zerolog.InfoLevel,
		"desconocido": zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), "nivel %q", in)
	}
}
