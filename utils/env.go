package utils

import (
	"os"
	"strconv"

	"go.viam.com/ikopt/logging"
)

// GetenvInt returns the integer value of the environment variable name, or defaultVal when it is unset or does not
// parse. Parse failures are logged.
func GetenvInt(name string, defaultVal int, logger logging.Logger) int {
	x := os.Getenv(name)
	if x == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(x)
	if err != nil {
		logger.Warnf("failed to parse %s env var, falling back to default %d", name, defaultVal)
		return defaultVal
	}
	return i
}
