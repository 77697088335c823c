package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"github.com/ynmsafety/ynmops/internal/dedupe"
	"go.uber.org/zap"
)

// DedupeConfigHolder serves the current duplicate-policy thresholds and
// swaps them in place when the backing file changes.
type DedupeConfigHolder struct {
	current atomic.Value // holds dedupe.Thresholds
}

// NewStaticDedupeConfig returns a holder that never reloads.
func NewStaticDedupeConfig(t dedupe.Thresholds) *DedupeConfigHolder {
	h := &DedupeConfigHolder{}
	h.current.Store(t.WithDefaults())
	return h
}

func NewDedupeConfigHolder(cfg Config, log *zap.Logger) (*DedupeConfigHolder, error) {
	log = log.Named("config.dedupe")
	v := viper.New()

	if cfg.Cache.DedupeFilePath != "" {
		v.SetConfigFile(cfg.Cache.DedupeFilePath)
	} else {
		v.SetConfigName("dedupe")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/ynmops")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("YNMOPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := dedupe.DefaultThresholds()
	v.SetDefault("dedupe.name", defaults.Name)
	v.SetDefault("dedupe.name_only", defaults.NameOnly)
	v.SetDefault("dedupe.item", defaults.Item)
	v.SetDefault("dedupe.order_field", defaults.OrderField)
	v.SetDefault("dedupe.quantity_tolerance", defaults.QuantityTolerance)

	fileLoaded := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		fileLoaded = false
	}

	current, err := readThresholds(v)
	if err != nil {
		return nil, err
	}

	holder := &DedupeConfigHolder{}
	holder.current.Store(current)

	if !fileLoaded {
		log.Info("no dedupe config file, using defaults")
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := readThresholds(v)
		if err != nil {
			log.Warn("invalid dedupe config ignored", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("dedupe config reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *DedupeConfigHolder) Get() dedupe.Thresholds {
	return h.current.Load().(dedupe.Thresholds)
}

func readThresholds(v *viper.Viper) (dedupe.Thresholds, error) {
	var t dedupe.Thresholds
	if err := v.UnmarshalKey("dedupe", &t); err != nil {
		return t, err
	}
	t = t.WithDefaults()
	return t, validateThresholds(t)
}

func validateThresholds(t dedupe.Thresholds) error {
	for name, value := range map[string]float64{
		"dedupe.name":        t.Name,
		"dedupe.name_only":   t.NameOnly,
		"dedupe.item":        t.Item,
		"dedupe.order_field": t.OrderField,
	} {
		if value <= 0 || value > 1 {
			return fmt.Errorf("%s must be in (0, 1], got %v", name, value)
		}
	}
	if t.NameOnly < t.Name {
		return errors.New("dedupe.name_only cannot be lower than dedupe.name")
	}
	if t.QuantityTolerance <= 0 {
		return errors.New("dedupe.quantity_tolerance must be positive")
	}
	return nil
}
