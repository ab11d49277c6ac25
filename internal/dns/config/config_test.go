package config

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/student-dns/rr-iterator/internal/dns/domain"
	"github.com/student-dns/rr-iterator/internal/dns/iterator"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DNS_ENV", "DNS_LOG_LEVEL", "DNS_PORT", "DNS_ROOT_HINTS_DIR",
		"DNS_MAX_PLAN_DEPTH", "DNS_EDNS_PAYLOAD_SIZE", "DNS_CACHE_SIZE", "DNS_DISABLE_CACHE",
	} {
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 53, cfg.Port)
	assert.Equal(t, "/etc/rr-dns/roothints/", cfg.RootHintsDir)
	assert.Equal(t, 30, cfg.MaxPlanDepth)
	assert.Equal(t, 4096, cfg.EDNSPayloadSize)
	assert.Equal(t, 1000, cfg.CacheSize)
	assert.False(t, cfg.DisableCache)
	assert.Empty(t, cfg.Cookies)
}

func TestLoad_ValidOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DNS_ENV", "dev")
	t.Setenv("DNS_LOG_LEVEL", "debug")
	t.Setenv("DNS_PORT", "9953")
	t.Setenv("DNS_ROOT_HINTS_DIR", "/tmp/roothints/")
	t.Setenv("DNS_MAX_PLAN_DEPTH", "10")
	t.Setenv("DNS_EDNS_PAYLOAD_SIZE", "1232")
	t.Setenv("DNS_CACHE_SIZE", "2000")
	t.Setenv("DNS_DISABLE_CACHE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9953, cfg.Port)
	assert.Equal(t, "/tmp/roothints/", cfg.RootHintsDir)
	assert.Equal(t, 10, cfg.MaxPlanDepth)
	assert.Equal(t, 1232, cfg.EDNSPayloadSize)
	assert.Equal(t, 2000, cfg.CacheSize)
	assert.True(t, cfg.DisableCache)
}

func TestLoad_WhenKoanfDefaultLoadFails(t *testing.T) {
	orig := defaultLoader
	defaultLoader = func(k *koanf.Koanf) error {
		return errors.New("mocked error")
	}
	defer func() { defaultLoader = orig }()

	_, err := Load()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "mocked error"))
}

func TestLoad_WhenKoanfEnvLoadFails(t *testing.T) {
	orig := envLoader
	envLoader = func(k *koanf.Koanf) error {
		return errors.New("mocked error")
	}
	defer func() { envLoader = orig }()

	_, err := Load()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "mocked error"))
}

func TestLoad_RegisterValidationFails(t *testing.T) {
	orig := registerValidation
	registerValidation = func(v *validator.Validate) error {
		return errors.New("mocked validation error")
	}
	defer func() { registerValidation = orig }()

	_, err := Load()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "mocked validation error"))
}

func TestLoad_InvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DNS_ENV", "staging")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv("DNS_LOG_LEVEL", "trace")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("DNS_PORT", "99999")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_PortNaN(t *testing.T) {
	clearEnv(t)
	t.Setenv("DNS_PORT", "not_a_number")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidCacheSize(t *testing.T) {
	clearEnv(t)
	t.Setenv("DNS_CACHE_SIZE", "-1")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidRootHintsDir(t *testing.T) {
	clearEnv(t)
	t.Setenv("DNS_ROOT_HINTS_DIR", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidMaxPlanDepth(t *testing.T) {
	clearEnv(t)
	t.Setenv("DNS_MAX_PLAN_DEPTH", "0")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidEDNSPayloadSizeTooSmall(t *testing.T) {
	clearEnv(t)
	t.Setenv("DNS_EDNS_PAYLOAD_SIZE", "100")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidEDNSPayloadSizeTooLarge(t *testing.T) {
	clearEnv(t)
	t.Setenv("DNS_EDNS_PAYLOAD_SIZE", "70000")

	_, err := Load()
	require.Error(t, err)
}

func TestDefaultLoader_LoadsDefaults(t *testing.T) {
	k := koanf.New(".")
	err := defaultLoader(k)
	require.NoError(t, err)

	var cfg IteratorConfig
	err = k.Unmarshal("", &cfg)
	require.NoError(t, err)

	assert.Equal(t, DEFAULT_ITERATOR_CONFIG.CacheSize, cfg.CacheSize)
	assert.Equal(t, DEFAULT_ITERATOR_CONFIG.DisableCache, cfg.DisableCache)
	assert.Equal(t, DEFAULT_ITERATOR_CONFIG.Env, cfg.Env)
	assert.Equal(t, DEFAULT_ITERATOR_CONFIG.LogLevel, cfg.LogLevel)
	assert.Equal(t, DEFAULT_ITERATOR_CONFIG.Port, cfg.Port)
	assert.Equal(t, DEFAULT_ITERATOR_CONFIG.RootHintsDir, cfg.RootHintsDir)
	assert.Equal(t, DEFAULT_ITERATOR_CONFIG.MaxPlanDepth, cfg.MaxPlanDepth)
	assert.Equal(t, DEFAULT_ITERATOR_CONFIG.EDNSPayloadSize, cfg.EDNSPayloadSize)
}

func TestDefaultLoader_ErrorPropagation(t *testing.T) {
	orig := DEFAULT_ITERATOR_CONFIG
	defer func() { DEFAULT_ITERATOR_CONFIG = orig }()

	DEFAULT_ITERATOR_CONFIG = IteratorConfig{
		Env:             "prod",
		LogLevel:        "info",
		Port:            53,
		RootHintsDir:    "/etc/rr-dns/roothints/",
		MaxPlanDepth:    0,
		EDNSPayloadSize: 4096,
		CacheSize:       1000,
	}

	k := koanf.New(".")
	err := defaultLoader(k)
	require.NoError(t, err)

	var cfg IteratorConfig
	err = k.Unmarshal("", &cfg)
	if err != nil {
		return
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	err = validate.Struct(&cfg)
	require.Error(t, err, "expected validation error for invalid default MaxPlanDepth")
}

func TestIteratorConfig_Cookies_PassedThroughUnvalidated(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Cookies = map[string]string{"198.41.0.4": "abcdef0123456789"}
	assert.Equal(t, "abcdef0123456789", cfg.Cookies["198.41.0.4"])
}

func TestNewLayerOptions_BuildsCollaborators(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)
	cfg.RootHintsDir = ""

	var opts iterator.LayerOptions
	opts, err = cfg.NewLayerOptions()
	require.NoError(t, err)
	require.NotNil(t, opts.RootHints)
	require.NotNil(t, opts.Random)
	require.NotNil(t, opts.Logger)

	cut := opts.RootHints.InitialZoneCut()
	assert.True(t, cut.Name.Equal(domain.Root))
}

func TestNewParams_CarriesConfiguredLimits(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)

	question := domain.Question{ID: 1, Name: domain.NewName("example.com."), Type: domain.RRTypeA, Class: domain.RRClassIN}
	params := cfg.NewParams(question, nil)

	assert.Equal(t, question, params.Question)
	assert.Equal(t, cfg.MaxPlanDepth, params.MaxPlanDepth)
	assert.EqualValues(t, cfg.EDNSPayloadSize, params.EDNSPayloadSize)
}
