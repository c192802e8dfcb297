// Package env reads process configuration from environment variables.
// Getters fall back to the first default when a variable is unset or does
// not parse.
package env

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

func get[T any](name string, parse func(string) (T, error), defaultValue []T) T {
	value, err := parse(os.Getenv(name))
	if err != nil && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetString(name string, defaultValue ...string) string {
	return get(name, func(raw string) (string, error) {
		if raw == "" {
			return "", fmt.Errorf("%s is empty", name)
		}
		return raw, nil
	}, defaultValue)
}

// MustGetString panics when the variable is unset.
func MustGetString(name string) string {
	value := os.Getenv(name)
	if value == "" {
		panic(fmt.Sprintf("%s can't be empty", name))
	}
	return value
}

func GetInt(name string, defaultValue ...int) int {
	return get(name, strconv.Atoi, defaultValue)
}

func GetBool(name string, defaultValue ...bool) bool {
	return get(name, strconv.ParseBool, defaultValue)
}

// GetSeconds reads a whole number of seconds.
func GetSeconds(name string, defaultValue ...time.Duration) time.Duration {
	return get(name, func(raw string) (time.Duration, error) {
		seconds, err := strconv.Atoi(raw)
		return time.Duration(seconds) * time.Second, err
	}, defaultValue)
}
