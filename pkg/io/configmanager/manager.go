// Package configmanager loads the argoboot configuration from defaults, an optional
// argoboot.yaml, ARGOBOOT_* environment variables and command-line flags, in that order
// of precedence.
package configmanager

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/devantler-tech/argoboot/pkg/apis/bootstrap/v1alpha1"
	"github.com/devantler-tech/argoboot/pkg/timer"
	"github.com/devantler-tech/argoboot/pkg/utils/envvar"
	"github.com/devantler-tech/argoboot/pkg/utils/notify"
	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// ConfigName is the config file base name searched for in the working directory.
	ConfigName = "argoboot"
	// EnvPrefix prefixes every environment variable override, e.g. ARGOBOOT_CLUSTER_NAME.
	EnvPrefix = "ARGOBOOT"
)

// ErrInvalidConfig is returned when the loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// Timer enables timing output in notifications when provided.
	Timer timer.Timer
	// Silent suppresses all loading notifications when true.
	Silent bool
}

// ConfigManager loads v1alpha1.Config through viper.
type ConfigManager struct {
	Viper  *viper.Viper
	Config *v1alpha1.Config
	Writer io.Writer

	configFileFound bool
	loaded          bool
}

// FlagBinding maps a command-line flag to a config key.
type FlagBinding struct {
	Flag string
	Key  string
}

// DefaultFlagBindings are the flags the root command exposes as config overrides.
func DefaultFlagBindings() []FlagBinding {
	return []FlagBinding{
		{Flag: "cluster-name", Key: "cluster.name"},
		{Flag: "distribution", Key: "cluster.distribution"},
		{Flag: "kubeconfig", Key: "cluster.kubeconfig"},
		{Flag: "base-port", Key: "tunnel.basePort"},
	}
}

// NewConfigManager returns a manager reading configFile when set, or argoboot.yaml from
// the working directory or ~/.config/argoboot otherwise.
func NewConfigManager(writer io.Writer, configFile string) *ConfigManager {
	return &ConfigManager{
		Viper:  InitializeViper(configFile),
		Config: v1alpha1.NewConfig(),
		Writer: writer,
	}
}

// InitializeViper builds a viper instance with argoboot's file and env conventions.
func InitializeViper(configFile string) *viper.Viper {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", ConfigName))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, v1alpha1.NewConfig())

	return v
}

// BindFlags binds each flag present in flags to its config key.
func (m *ConfigManager) BindFlags(flags *pflag.FlagSet, bindings ...FlagBinding) error {
	for _, binding := range bindings {
		flag := flags.Lookup(binding.Flag)
		if flag == nil {
			continue
		}

		err := m.Viper.BindPFlag(binding.Key, flag)
		if err != nil {
			return fmt.Errorf("bind flag %q to %q: %w", binding.Flag, binding.Key, err)
		}
	}

	return nil
}

// Load reads, decodes and validates the configuration. A previously loaded config is reused.
func (m *ConfigManager) Load(opts LoadOptions) (*v1alpha1.Config, error) {
	if m.loaded {
		return m.Config, nil
	}

	if !opts.Silent {
		m.notify(notify.ActivityType, "loading argoboot config")
	}

	err := m.readConfig(opts.Silent)
	if err != nil {
		return nil, err
	}

	err = m.Viper.Unmarshal(m.Config, func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			distributionDecodeHook(),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	expandEnv(m.Config)

	err = m.Config.Validate()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if !opts.Silent {
		notify.WriteMessage(notify.Message{
			Type:    notify.SuccessType,
			Content: "config loaded",
			Timer:   opts.Timer,
			Writer:  m.Writer,
		})
	}

	m.loaded = true

	return m.Config, nil
}

func (m *ConfigManager) readConfig(silent bool) error {
	err := m.Viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		m.configFileFound = false
		if !silent {
			m.notify(notify.ActivityType, "using default config")
		}

		return nil
	}

	m.configFileFound = true
	if !silent {
		m.notify(notify.ActivityType, "'%s' found", m.Viper.ConfigFileUsed())
	}

	return nil
}

// ConfigFileFound reports whether Load read a config file.
func (m *ConfigManager) ConfigFileFound() bool {
	return m.configFileFound
}

func (m *ConfigManager) notify(msgType notify.MessageType, content string, args ...any) {
	notify.WriteMessage(notify.Message{
		Type:    msgType,
		Content: content,
		Args:    args,
		Writer:  m.Writer,
	})
}

// distributionDecodeHook normalizes distribution strings so "K3D" decodes to "k3d".
func distributionDecodeHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != reflect.TypeFor[v1alpha1.Distribution]() {
			return data, nil
		}

		var dist v1alpha1.Distribution

		err := dist.Set(data.(string))
		if err != nil {
			return nil, err //nolint:wrapcheck // surfaced through viper's decode error
		}

		return dist, nil
	}
}

// expandEnv resolves ${VAR} placeholders in path and URL fields.
func expandEnv(cfg *v1alpha1.Config) {
	for _, field := range []*string{
		&cfg.Cluster.Kubeconfig,
		&cfg.ArgoCD.InstallManifest,
		&cfg.ArgoCD.ConfigDir,
		&cfg.Application.RepoURL,
		&cfg.Files.PasswordFile,
		&cfg.Files.ConnectionFile,
	} {
		*field = envvar.Expand(*field)
	}
}
