package configmanager

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/devantler-tech/gcping/pkg/apis/region/v1alpha1"
	"github.com/devantler-tech/gcping/pkg/utils/notify"
	"github.com/devantler-tech/gcping/pkg/utils/timer"
	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment variable read by gcping.
	EnvPrefix = "GCPING"
	// ConfigName is the config file name without extension.
	ConfigName = "gcping"
	// TokenEnvVar is the Hetzner Cloud token variable used when no token is configured.
	TokenEnvVar = "HCLOUD_TOKEN" //nolint:gosec // Variable name, not a credential
)

// ErrInvalidConfig is returned when the loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// Timer enables timing output in notifications when provided.
	Timer timer.Timer
	// Silent suppresses all loading notifications when true.
	Silent bool
	// IgnoreConfigFile skips reading on-disk config files when true (flags/defaults only).
	IgnoreConfigFile bool
	// SkipValidation skips config validation when true.
	SkipValidation bool
}

// ConfigManager loads the gcping configuration once and caches it.
type ConfigManager struct {
	Viper  *viper.Viper
	Config *v1alpha1.Config
	// Writer receives loading notifications.
	Writer io.Writer

	fieldSelectors  []FieldSelector[v1alpha1.Config]
	command         *cobra.Command
	configLoaded    bool
	configFileFound bool
}

// NewConfigManager creates a manager for the given field selectors.
func NewConfigManager(writer io.Writer, fieldSelectors ...FieldSelector[v1alpha1.Config]) *ConfigManager {
	return &ConfigManager{
		Viper:          InitializeViper(),
		Config:         v1alpha1.NewConfig(),
		Writer:         writer,
		fieldSelectors: fieldSelectors,
	}
}

// NewCommandConfigManager creates a manager bound to cmd and registers its flags.
func NewCommandConfigManager(cmd *cobra.Command, selectors []FieldSelector[v1alpha1.Config]) *ConfigManager {
	manager := NewConfigManager(cmd.OutOrStdout(), selectors...)
	manager.command = cmd
	manager.AddFlagsFromFields(cmd)

	return manager
}

// InitializeViper returns a viper instance searching for gcping.yaml and reading GCPING_* variables.
// Nested keys map to variables by replacing dots with underscores, e.g. GCPING_EMIT_BUCKET.
func InitializeViper() *viper.Viper {
	viperInstance := viper.New()

	viperInstance.SetConfigName(ConfigName)
	viperInstance.SetConfigType("yaml")
	viperInstance.AddConfigPath(".")
	viperInstance.AddConfigPath("$HOME/.config/gcping")

	viperInstance.SetEnvPrefix(EnvPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()

	for _, key := range configKeys(reflect.TypeFor[v1alpha1.Config](), "") {
		_ = viperInstance.BindEnv(key)
	}

	return viperInstance
}

// SetConfigFile reads the configuration from path instead of searching for gcping.yaml.
func (m *ConfigManager) SetConfigFile(path string) {
	if path != "" {
		m.Viper.SetConfigFile(path)
	}
}

// Load loads the configuration.
// Priority: defaults < config file < environment variables < flags.
func (m *ConfigManager) Load(opts LoadOptions) (*v1alpha1.Config, error) {
	if m.configLoaded {
		return m.Config, nil
	}

	if !opts.Silent {
		notify.Titlef(m.Writer, "⏳", "Load config...")
	}

	if !opts.IgnoreConfigFile {
		err := m.readConfig(opts.Silent)
		if err != nil {
			return nil, err
		}
	}

	err := m.unmarshal()
	if err != nil {
		return nil, err
	}

	err = m.applyFlagOverrides()
	if err != nil {
		return nil, err
	}

	if m.Config.Provider.Token == "" {
		m.Config.Provider.Token = os.Getenv(TokenEnvVar)
	}

	m.Config.Normalize()

	if !opts.SkipValidation {
		err = m.Config.Validate()
		if err != nil {
			if !opts.Silent {
				notify.Errorf(m.Writer, "%v", err)
			}

			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	if !opts.Silent {
		notify.SuccessWithTimerf(m.Writer, opts.Timer, "config loaded")
	}

	m.configLoaded = true

	return m.Config, nil
}

// ConfigFileFound reports whether a config file was read.
func (m *ConfigManager) ConfigFileFound() bool {
	return m.configFileFound
}

func (m *ConfigManager) readConfig(silent bool) error {
	err := m.Viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		if !silent {
			notify.Activityf(m.Writer, "no config file found, using defaults")
		}

		return nil
	}

	m.configFileFound = true

	if !silent {
		notify.Activityf(m.Writer, "'%s' found", m.Viper.ConfigFileUsed())
	}

	return nil
}

func (m *ConfigManager) unmarshal() error {
	decoderConfig := func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}

	err := m.Viper.Unmarshal(m.Config, decoderConfig)
	if err != nil {
		return fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	for _, selector := range m.fieldSelectors {
		fieldPtr := selector.Selector(m.Config)
		if fieldPtr != nil && selector.DefaultValue != nil && isFieldEmpty(fieldPtr) {
			setFieldValue(fieldPtr, selector.DefaultValue)
		}
	}

	return nil
}

func (m *ConfigManager) applyFlagOverrides() error {
	if m.command == nil {
		return nil
	}

	changed := make(map[string]pflag.Value)

	m.command.Flags().Visit(func(flag *pflag.Flag) {
		changed[flag.Name] = flag.Value
	})

	for _, selector := range m.fieldSelectors {
		fieldPtr := selector.Selector(m.Config)
		if fieldPtr == nil {
			continue
		}

		name := m.flagName(selector)

		value, ok := changed[name]
		if !ok {
			continue
		}

		err := setFieldValueFromFlag(fieldPtr, value)
		if err != nil {
			return fmt.Errorf("failed to apply flag override for %s: %w", name, err)
		}
	}

	return nil
}

// configKeys lists the dotted mapstructure keys of every leaf field of t.
func configKeys(t reflect.Type, prefix string) []string {
	var keys []string

	for index := range t.NumField() {
		field := t.Field(index)

		tag := strings.Split(field.Tag.Get("mapstructure"), ",")[0]
		if tag == "" || tag == "-" {
			continue
		}

		key := prefix + tag
		if field.Type.Kind() == reflect.Struct {
			keys = append(keys, configKeys(field.Type, key+".")...)

			continue
		}

		keys = append(keys, key)
	}

	return keys
}
