// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package xviper provides customizations on use of viper for configuration loading:
standard configuration paths, environment variable mapping, command line flag binding
and defaults, applied as options to a new Viper instance.
*/
package xviper
