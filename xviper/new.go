package xviper

import (
	"errors"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultNameFlag = "name"
	DefaultFileFlag = "file"
)

// Option configures a Viper instance created by New
type Option func(*viper.Viper) error

func AddConfigPaths(paths ...string) Option {
	return func(v *viper.Viper) error {
		for _, p := range paths {
			v.AddConfigPath(p)
		}

		return nil
	}
}

// SetEnvPrefix sets the environment prefix and maps nested keys onto environment variable
// names, so that log.filter is read from PREFIX_LOG_FILTER.
func SetEnvPrefix(prefix string) Option {
	return func(v *viper.Viper) error {
		v.SetEnvPrefix(EnvPrefix(prefix))
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
		return nil
	}
}

// EnvPrefix converts an application name into its environment variable prefix,
// e.g. otlp-debug becomes OTLP_DEBUG.
func EnvPrefix(applicationName string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(applicationName))
}

func AutomaticEnv(v *viper.Viper) error {
	v.AutomaticEnv()
	return nil
}

// BindEnv binds a configuration key to explicitly named environment variables, in addition
// to whatever AutomaticEnv derives.
func BindEnv(key string, envs ...string) Option {
	return func(v *viper.Viper) error {
		return v.BindEnv(append([]string{key}, envs...)...)
	}
}

// BindPFlag binds a configuration key to a single flag.  Flags that are missing from the
// set are skipped.  A bound flag only overrides the configuration when set on the command line.
func BindPFlag(key string, fs *pflag.FlagSet, flag string) Option {
	return func(v *viper.Viper) error {
		if f := fs.Lookup(flag); f != nil {
			return v.BindPFlag(key, f)
		}

		return nil
	}
}

// WithDefaults applies the given defaults
func WithDefaults(d Defaults) Option {
	return func(v *viper.Viper) error {
		ApplyDefaults(v, d)
		return nil
	}
}

// BindConfigFlags sets the configuration file or name from the file and name flags
func BindConfigFlags(fs *pflag.FlagSet, fileFlag, nameFlag string) Option {
	return func(v *viper.Viper) error {
		BindConfig(v, fs, fileFlag, nameFlag)
		return nil
	}
}

// StdOptions produces the conventional setup for an application: the standard configuration
// paths and name, the environment prefix with automatic environment lookup, and the
// file and name flags from fs.
func StdOptions(applicationName string, fs *pflag.FlagSet) Option {
	return func(v *viper.Viper) error {
		AddStandardConfigPaths(v, applicationName)
		v.SetConfigName(applicationName)

		for _, o := range []Option{
			SetEnvPrefix(applicationName),
			AutomaticEnv,
			BindConfigFlags(fs, DefaultFileFlag, DefaultNameFlag),
		} {
			if err := o(v); err != nil {
				return err
			}
		}

		return nil
	}
}

// New creates a Viper instance, applies each option in order, and then reads the
// configuration.  A configuration file that cannot be found by name is not an error, since
// every setting has a default.  An explicitly named file that is missing or invalid is.
func New(options ...Option) (*viper.Viper, error) {
	v := viper.New()
	for _, o := range options {
		if err := o(v); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return v, nil
}
