// Package constants holds names and defaults shared by the logbridge
// packages.
package constants

import "time"

// EnvPrefix prefixes every environment variable the config loader reads,
// e.g. LOGBRIDGE_LEVEL.
const EnvPrefix = "LOGBRIDGE"

// NonProductionEnvironment selects the development defaults in pkg/log.
const NonProductionEnvironment = "development"

// DefaultTimeout bounds how long Sync waits for asynchronous output to drain.
const DefaultTimeout = 5 * time.Second
