package xviper

import (
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

type defaulter interface {
	SetDefault(string, interface{})
}

// Defaults maps configuration keys, in dotted form, onto default values
type Defaults map[string]interface{}

func ApplyDefaults(d defaulter, v Defaults) {
	for key, value := range v {
		d.SetDefault(key, value)
	}
}

// Sub returns a standalone Viper holding the settings under key.  Unlike viper's own Sub,
// the settings are resolved first, so environment variables and bound flags that override
// nested keys are carried into the child.  If v is nil or has nothing under key, this
// function returns nil.
func Sub(v *viper.Viper, key string) *viper.Viper {
	if v == nil {
		return nil
	}

	raw, ok := v.AllSettings()[key]
	if !ok {
		return nil
	}

	settings, err := cast.ToStringMapE(raw)
	if err != nil {
		return nil
	}

	child := viper.New()
	if err := child.MergeConfigMap(settings); err != nil {
		return nil
	}

	return child
}
