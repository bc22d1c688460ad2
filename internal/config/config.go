// Package config resolves probe settings from flags, environment and defaults.
//
// Resolution order is explicit value (flag or Set) → RITZONE_* environment
// variable → built-in default. No configuration file is read; workflow YAML
// files describe steps, not settings.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "RITZONE"

// Keys understood by the resolver. Each maps to RITZONE_<KEY>.
const (
	KeyAPIURL             = "api_url"
	KeyFrontendURL        = "frontend_url"
	KeyTestEmail          = "test_email"
	KeyTestPassword       = "test_password"
	KeyTimeout            = "timeout"
	KeyPassThreshold      = "pass_threshold"
	KeyExcellentThreshold = "excellent_threshold"
	KeyFancy              = "fancy"
	KeyRPS                = "rps"
	KeyVerbose            = "verbose"
	KeySuite              = "suite"
	KeyProductID          = "product_id"
	KeyCODExpect          = "cod_expect"
)

const (
	DefaultPassword           = "Probe@12345"
	DefaultTimeout            = 15 * time.Second
	DefaultPassThreshold      = 60.0
	DefaultExcellentThreshold = 80.0
	DefaultSuite              = "smoke"
	DefaultUserAgent          = "RitZone-Probe/1.0"
)

// COD order expectations.
const (
	ExpectPass = "pass"
	ExpectFail = "fail"
)

// Config is the resolved, immutable probe configuration.
type Config struct {
	BaseURL            string
	FrontendURL        string
	Email              string
	Password           string
	GeneratedUser      bool // Email was generated for this run
	Timeout            time.Duration
	PassThreshold      float64
	ExcellentThreshold float64
	Fancy              bool
	RPS                int
	Verbose            bool
	Suite              string
	ProductID          string
	CODExpect          string
	UserAgent          string
}

// Error reports missing or invalid configuration. It is fatal: no step runs.
type Error struct {
	Key    string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("config %s: %s", envName(e.Key), e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is (or wraps) a configuration error.
func IsConfigError(err error) bool {
	var cfgErr *Error
	return errors.As(err, &cfgErr)
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(key)
}

// NewViper returns a viper instance with defaults and env bindings in place.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault(KeyTestPassword, DefaultPassword)
	v.SetDefault(KeyTimeout, DefaultTimeout.String())
	v.SetDefault(KeyPassThreshold, strconv.FormatFloat(DefaultPassThreshold, 'f', -1, 64))
	v.SetDefault(KeyExcellentThreshold, strconv.FormatFloat(DefaultExcellentThreshold, 'f', -1, 64))
	v.SetDefault(KeyRPS, "0")
	v.SetDefault(KeySuite, DefaultSuite)
	v.SetDefault(KeyCODExpect, ExpectPass)

	for _, key := range []string{
		KeyAPIURL, KeyFrontendURL, KeyTestEmail, KeyTestPassword, KeyTimeout,
		KeyPassThreshold, KeyExcellentThreshold, KeyFancy, KeyRPS, KeyVerbose,
		KeySuite, KeyProductID, KeyCODExpect,
	} {
		_ = v.BindEnv(key) // only fails without a key
	}
	return v
}

// BindFlags binds each named flag to its config key. Flags only take effect
// when explicitly set on the command line.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet, flagToKey map[string]string) error {
	for flag, key := range flagToKey {
		f := fs.Lookup(flag)
		if f == nil {
			return fmt.Errorf("binding flag %q: not defined", flag)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag %q: %w", flag, err)
		}
	}
	return nil
}

// Resolve builds a Config from explicit overrides, environment and defaults.
func Resolve(overrides map[string]any) (Config, error) {
	v := NewViper()
	for k, val := range overrides {
		v.Set(k, val)
	}
	return FromViper(v, time.Now)
}

// FromViper validates the values held by v and returns the Config.
func FromViper(v *viper.Viper, now func() time.Time) (Config, error) {
	cfg := Config{
		BaseURL:     strings.TrimRight(strings.TrimSpace(v.GetString(KeyAPIURL)), "/"),
		FrontendURL: strings.TrimRight(strings.TrimSpace(v.GetString(KeyFrontendURL)), "/"),
		Email:       strings.TrimSpace(v.GetString(KeyTestEmail)),
		Password:    v.GetString(KeyTestPassword),
		Fancy:       v.GetBool(KeyFancy),
		Verbose:     v.GetBool(KeyVerbose),
		Suite:       strings.TrimSpace(v.GetString(KeySuite)),
		ProductID:   strings.TrimSpace(v.GetString(KeyProductID)),
		CODExpect:   strings.ToLower(strings.TrimSpace(v.GetString(KeyCODExpect))),
		UserAgent:   DefaultUserAgent,
	}

	if cfg.BaseURL == "" {
		return Config{}, &Error{Key: KeyAPIURL, Reason: "base URL is required"}
	}
	if err := validateURL(cfg.BaseURL); err != nil {
		return Config{}, &Error{Key: KeyAPIURL, Reason: "invalid base URL", Err: err}
	}
	if cfg.FrontendURL != "" {
		if err := validateURL(cfg.FrontendURL); err != nil {
			return Config{}, &Error{Key: KeyFrontendURL, Reason: "invalid frontend URL", Err: err}
		}
	}

	timeout, err := ParseTimeout(v.GetString(KeyTimeout))
	if err != nil {
		return Config{}, &Error{Key: KeyTimeout, Reason: "invalid timeout", Err: err}
	}
	cfg.Timeout = timeout

	if cfg.PassThreshold, err = parsePercent(v.GetString(KeyPassThreshold)); err != nil {
		return Config{}, &Error{Key: KeyPassThreshold, Reason: "invalid pass threshold", Err: err}
	}
	if cfg.ExcellentThreshold, err = parsePercent(v.GetString(KeyExcellentThreshold)); err != nil {
		return Config{}, &Error{Key: KeyExcellentThreshold, Reason: "invalid excellent threshold", Err: err}
	}

	rps, err := strconv.Atoi(strings.TrimSpace(v.GetString(KeyRPS)))
	if err != nil || rps < 0 {
		return Config{}, &Error{Key: KeyRPS, Reason: "must be a non-negative integer", Err: err}
	}
	cfg.RPS = rps

	if cfg.CODExpect != ExpectPass && cfg.CODExpect != ExpectFail {
		return Config{}, &Error{Key: KeyCODExpect, Reason: fmt.Sprintf("must be %q or %q, got %q", ExpectPass, ExpectFail, cfg.CODExpect)}
	}
	if cfg.Password == "" {
		return Config{}, &Error{Key: KeyTestPassword, Reason: "password must not be empty"}
	}

	if cfg.Email == "" {
		cfg.Email = GenerateEmail(now())
		cfg.GeneratedUser = true
	}

	return cfg, nil
}

// GenerateEmail returns a unique address for a per-run test user.
func GenerateEmail(t time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("probe.%d.%s@example.com", t.UnixMilli(), suffix)
}

// ParseTimeout accepts a Go duration ("15s") or a bare number of seconds ("15").
func ParseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultTimeout, nil
	}
	var d time.Duration
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		d = time.Duration(secs * float64(time.Second))
	} else {
		parsed, perr := time.ParseDuration(s)
		if perr != nil {
			return 0, perr
		}
		d = parsed
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %s", s)
	}
	return d, nil
}

func parsePercent(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	p, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if p < 0 || p > 100 {
		return 0, fmt.Errorf("percentage %v out of range [0,100]", p)
	}
	return p, nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}
