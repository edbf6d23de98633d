package xviper

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Configer is the subset of Viper behavior dealing with configuration paths and locations
type Configer interface {
	AddConfigPath(string)
	SetConfigName(string)
	SetConfigFile(string)
}

// AddStandardConfigPaths adds the standard *nix-style configuration paths
func AddStandardConfigPaths(c Configer, applicationName string) {
	c.AddConfigPath(fmt.Sprintf("/etc/%s", applicationName))
	c.AddConfigPath(fmt.Sprintf("$HOME/.%s", applicationName))
	c.AddConfigPath(".")
}

// FlagLookup is the behavior expected of a pflag.FlagSet to lookup individual flags by longhand name.
type FlagLookup interface {
	Lookup(string) *pflag.Flag
}

func flagValue(fl FlagLookup, flag string) string {
	if f := fl.Lookup(flag); f != nil {
		return f.Value.String()
	}

	return ""
}

// BindConfigName extracts the name of the Viper configuration file from a flagset.  If the given flag
// is set, its value is passed to c.SetConfigName and this function returns true.  If the flag was missing,
// this method returns false and the supplied Configer is not changed.
func BindConfigName(c Configer, fl FlagLookup, flag string) bool {
	if configName := flagValue(fl, flag); len(configName) > 0 {
		c.SetConfigName(configName)
		return true
	}

	return false
}

// BindConfigFile extracts the path of the Viper configuration file from a flagset.  If the given flag
// is set, its value is passed to c.SetConfigFile and this function returns true.  If the flag was missing,
// this method returns false and the supplied Configer is not changed.
func BindConfigFile(c Configer, fl FlagLookup, flag string) bool {
	if configFile := flagValue(fl, flag); len(configFile) > 0 {
		c.SetConfigFile(configFile)
		return true
	}

	return false
}

// BindConfig attempts first to bind the configuration file via BindConfigFile.  Failing that, it
// attempts to bind the configuration name via BindConfigName.  If either succeeds, this function
// returns true.
func BindConfig(c Configer, fl FlagLookup, fileFlag, nameFlag string) bool {
	return BindConfigFile(c, fl, fileFlag) || BindConfigName(c, fl, nameFlag)
}
