package lwp

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Environment variables consulted by Config.ApplyEnv.
const (
	EnvStackSize = "LWP_STACK_SIZE"
	EnvScheduler = "LWP_SCHEDULER"
	EnvLogLevel  = "LWP_LOG_LEVEL"
)

type (
	// Config is the file based configuration of a Runtime, e.g.
	//
	//	scheduler = "roundrobin"
	//	stack_size = 65536
	//	log_level = "debug"
	//
	//	[[trace_rate]]
	//	window = "1s"
	//	events = 10
	Config struct {
		// Scheduler names a registered scheduler, see RegisterScheduler.
		Scheduler string `toml:"scheduler"`
		// StackSize overrides StackSize, if non-zero.
		StackSize int `toml:"stack_size"`
		// LogLevel enables logging, see ParseLevel. Empty disables it.
		LogLevel  string      `toml:"log_level"`
		TraceRate []TraceRate `toml:"trace_rate"`
	}

	// TraceRate limits context switch trace logging, see WithTraceRate.
	TraceRate struct {
		Window time.Duration `toml:"window"`
		Events int           `toml:"events"`
	}
)

// LoadConfig reads and validates a TOML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("lwp: config load failed (%s): %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("lwp: config parse failed (%s): %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes and validates TOML config. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return Config{}, fmt.Errorf("%w: unknown keys: %s", ErrInvalidConfig, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables, using lookup, e.g.
// os.LookupEnv. Empty values are ignored.
func (x *Config) ApplyEnv(lookup func(key string) (string, bool)) error {
	if v, ok := lookupNonEmpty(lookup, EnvScheduler); ok {
		x.Scheduler = v
	}
	if v, ok := lookupNonEmpty(lookup, EnvStackSize); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, EnvStackSize, err)
		}
		x.StackSize = n
	}
	if v, ok := lookupNonEmpty(lookup, EnvLogLevel); ok {
		x.LogLevel = v
	}
	return x.Validate()
}

// Validate checks that the config can be applied.
func (x Config) Validate() error {
	var errs []error
	if x.StackSize < 0 {
		errs = append(errs, fmt.Errorf("%w: negative stack_size %d", ErrInvalidConfig, x.StackSize))
	}
	if x.Scheduler != `` {
		if _, err := LookupScheduler(x.Scheduler); err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
		}
	}
	if x.LogLevel != `` {
		if _, err := ParseLevel(x.LogLevel); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := newTraceLimiter(x.traceRates()); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Options converts the config to options for New. Log output is written to
// w, which may be nil to disable logging.
func (x Config) Options(w io.Writer) ([]Option, error) {
	if err := x.Validate(); err != nil {
		return nil, err
	}
	var opts []Option
	if x.Scheduler != `` {
		s, err := LookupScheduler(x.Scheduler)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithScheduler(s))
	}
	if x.StackSize != 0 {
		opts = append(opts, WithStackSize(x.StackSize))
	}
	if w != nil && x.LogLevel != `` {
		level, err := ParseLevel(x.LogLevel)
		if err != nil {
			return nil, err
		}
		if level.Enabled() {
			opts = append(opts, WithLogger(NewLogger(w, level)))
		}
	}
	if rates := x.traceRates(); len(rates) != 0 {
		opts = append(opts, WithTraceRate(rates))
	}
	return opts, nil
}

func (x Config) traceRates() map[time.Duration]int {
	if len(x.TraceRate) == 0 {
		return nil
	}
	rates := make(map[time.Duration]int, len(x.TraceRate))
	for _, rate := range x.TraceRate {
		rates[rate.Window] = rate.Events
	}
	return rates
}

func lookupNonEmpty(lookup func(key string) (string, bool), key string) (string, bool) {
	if lookup == nil {
		return ``, false
	}
	v, ok := lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ``
}
