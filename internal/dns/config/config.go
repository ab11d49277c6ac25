// Package config loads and validates the iterator's runtime configuration
// from environment variables, layered over compiled-in defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/student-dns/rr-iterator/internal/dns/common/log"
	"github.com/student-dns/rr-iterator/internal/dns/common/secrand"
	"github.com/student-dns/rr-iterator/internal/dns/domain"
	"github.com/student-dns/rr-iterator/internal/dns/iterator"
	"github.com/student-dns/rr-iterator/internal/dns/repos/roothints"
)

// IteratorConfig holds configuration values parsed from environment
// variables for constructing an iterator.Layer and its collaborators.
type IteratorConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel defines the logging level: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// Port is the network port an embedder's listener binds to. The
	// iterator itself never opens a socket; this is carried through for
	// whatever transport the embedder wires up around it.
	Port int `koanf:"port" validate:"required,gte=1,lte=65535"`

	// RootHintsDir is handed to roothints.New as the path of the root hints
	// YAML file that seeds the initial zone cut; NewLayerOptions fails if
	// that file cannot be loaded. An empty value selects the compiled-in
	// default root hints table, though the required tag makes Load reject
	// an empty value.
	RootHintsDir string `koanf:"root_hints_dir" validate:"required"`

	// MaxPlanDepth bounds the resolution plan's LIFO depth, guarding against
	// referral loops and pathological delegation chains.
	MaxPlanDepth int `koanf:"max_plan_depth" validate:"required,gte=1"`

	// EDNSPayloadSize is advertised via the OPT pseudo-RR on every outbound
	// query. DNS wire format allows up to 65535 bytes but the trailing
	// 8-byte UDP/IP header leaves 65527 as the true ceiling.
	EDNSPayloadSize int `koanf:"edns_payload_size" validate:"required,gte=512,lte=65527"`

	// CacheSize sizes the LRU that memoizes parsed root hints files across
	// Reload calls. A value of 0 falls back to 4 entries; it does not
	// disable the cache.
	CacheSize int `koanf:"cache_size" validate:"gte=0"`

	// DisableCache is loaded and validated with the rest of the config, but
	// nothing in this module reads it; there is no glue reuse to turn off.
	DisableCache bool `koanf:"disable_cache"`

	// Cookies is a passive DNS Cookie (RFC 7873) keyed bag: server address
	// text form to the last client/server cookie pair exchanged with it.
	// The iterator never reads or validates this bag itself — cookie
	// enforcement is out of scope — it exists only so an embedder can
	// persist cookies across resolutions and hand them back to its own
	// transport layer.
	Cookies map[string]string `koanf:"cookies"`
}

// DEFAULT_ITERATOR_CONFIG defines the default application configuration
// settings for the iterator.
var DEFAULT_ITERATOR_CONFIG = IteratorConfig{
	Env:             "prod",
	LogLevel:        "info",
	Port:            53,
	RootHintsDir:    "/etc/rr-dns/roothints/",
	MaxPlanDepth:    30,
	EDNSPayloadSize: 4096,
	CacheSize:       1000,
	DisableCache:    false,
}

// envLoader loads environment variables with the prefix "DNS_".
// It transforms keys to lowercase, strips the prefix, and splits
// comma/space-separated values into slices. Mockable in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "DNS_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "DNS_"))
			value = strings.TrimSpace(value)

			if value == "" {
				return key, value
			}

			if strings.Contains(value, " ") || strings.Contains(value, ",") {
				parts := strings.FieldsFunc(value, func(r rune) bool {
					return r == ' ' || r == ','
				})
				return key, parts
			}

			return key, value
		},
	}), nil)
}

// defaultLoader loads default configuration values into the provided Koanf
// instance using the structs provider and DEFAULT_ITERATOR_CONFIG.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_ITERATOR_CONFIG, "koanf"), nil)
}

// registerValidation registers custom validation tags with the provided
// validator. Mockable in tests.
var registerValidation = func(v *validator.Validate) error {
	return nil
}

// Load parses environment variables and returns an IteratorConfig instance.
// It applies default values and runs validation automatically.
func Load() (*IteratorConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg IteratorConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidation(validate); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

// NewLayerOptions builds the collaborators an iterator.Layer needs from a
// loaded config: it configures the global structured logger from
// Env/LogLevel and constructs root hints from RootHintsDir/CacheSize.
func (c *IteratorConfig) NewLayerOptions() (iterator.LayerOptions, error) {
	if err := log.Configure(c.Env, c.LogLevel); err != nil {
		return iterator.LayerOptions{}, fmt.Errorf("config: configure logger: %w", err)
	}

	hints, err := roothints.New(roothints.Options{
		Path:      c.RootHintsDir,
		CacheSize: c.CacheSize,
	})
	if err != nil {
		return iterator.LayerOptions{}, fmt.Errorf("config: build root hints: %w", err)
	}

	return iterator.LayerOptions{
		RootHints: hints,
		Random:    secrand.New(),
		Logger:    log.GetLogger(),
	}, nil
}

// NewParams builds the per-resolution Params an iterator.Layer's Begin
// needs, carrying the plan-depth and EDNS(0) payload-size limits this
// config loaded.
func (c *IteratorConfig) NewParams(question domain.Question, answer iterator.AnswerBuilder) iterator.Params {
	return iterator.Params{
		Question:        question,
		Answer:          answer,
		MaxPlanDepth:    c.MaxPlanDepth,
		EDNSPayloadSize: uint16(c.EDNSPayloadSize),
	}
}
