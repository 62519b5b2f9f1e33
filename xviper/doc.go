// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package xviper provides customizations on use of viper for configuration loading.

A Viper instance is assembled from Options, which are applied in order.  StdOptions bundles the
conventions shared by our command line tools: standard search paths, an environment prefix derived
from the application name, and command line flags bound as configuration keys.
*/
package xviper
