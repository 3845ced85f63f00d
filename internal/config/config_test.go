package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFromYAML(t *testing.T, content string) (*Config, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), ".islet.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	return Load()
}

func TestLoad_Defaults(t *testing.T) {
	config, err := loadFromYAML(t, "")

	require.NoError(t, err)
	assert.Equal(t, 4321, config.Server.Port)
	assert.Equal(t, "localhost", config.Server.Host)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "text", config.Logging.Format)
	assert.Empty(t, config.Renderers)
}

func TestLoad_FullConfig(t *testing.T) {
	config, err := loadFromYAML(t, `
server:
  port: 9000
  host: 0.0.0.0
logging:
  level: debug
  format: json
development:
  live_reload: true
  validate_markup: true
renderers:
  - name: react
    client_entrypoint: "@islet/react/client.js"
    include:
      - "**/react/**"
    exclude:
      - "**/*.test.jsx"
    extensions:
      - ".jsx"
      - ".tsx"
  - name: svelte
    client_entrypoint: "@islet/svelte/client.js"
    extensions:
      - ".svelte"
`)

	require.NoError(t, err)
	assert.Equal(t, 9000, config.Server.Port)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.True(t, config.Development.LiveReload)
	assert.True(t, config.Development.ValidateMarkup)

	require.Len(t, config.Renderers, 2)
	react := config.Renderers[0]
	assert.Equal(t, "react", react.Name)
	assert.Equal(t, "@islet/react/client.js", react.ClientEntrypoint)
	assert.Equal(t, []string{"**/react/**"}, react.Include)
	assert.Equal(t, []string{".jsx", ".tsx"}, react.Extensions)
}

func TestLoad_InvalidPort(t *testing.T) {
	_, err := loadFromYAML(t, "server:\n  port: 99999\n")
	assert.Error(t, err)
}

func TestValidate_DuplicateRendererNames(t *testing.T) {
	_, err := loadFromYAML(t, `
renderers:
  - name: react
  - name: react
`)
	assert.Error(t, err)
}

func TestValidate_EmptyRendererName(t *testing.T) {
	_, err := loadFromYAML(t, `
renderers:
  - client_entrypoint: "@islet/react/client.js"
`)
	assert.Error(t, err)
}

func TestValidate_BadFilterPattern(t *testing.T) {
	_, err := loadFromYAML(t, `
renderers:
  - name: react
    include:
      - "/[unclosed/"
`)
	assert.Error(t, err)
}

func TestRendererConfig_Filter(t *testing.T) {
	rc := &RendererConfig{
		Name:    "react",
		Include: []string{"**/react/**"},
		Exclude: []string{"**/*.test.jsx"},
	}

	m, err := rc.Filter()
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.True(t, m.Test("src/react/App.jsx"))
	assert.False(t, m.Test("src/react/App.test.jsx"))
	assert.False(t, m.Test("src/svelte/App.svelte"))
}

func TestRendererConfig_FilterAbsentWhenNoPatterns(t *testing.T) {
	rc := &RendererConfig{Name: "react"}

	m, err := rc.Filter()
	require.NoError(t, err)
	assert.Nil(t, m, "no patterns means no filter, not an accept-all filter")
}

func TestRendererByName(t *testing.T) {
	config := &Config{Renderers: []RendererConfig{{Name: "react"}, {Name: "svelte"}}}

	rc, ok := config.RendererByName("svelte")
	require.True(t, ok)
	assert.Equal(t, "svelte", rc.Name)

	_, ok = config.RendererByName("vue")
	assert.False(t, ok)
}
