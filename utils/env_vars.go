package utils

import (
	"log"
	"os"
	"strconv"
)

type EnvVarType interface {
	~string | ~int | ~bool
}

// GetEnv reads an environment variable and converts it to T, falling back to
// defaultValue when the variable is unset or empty.
func GetEnv[T EnvVarType](envVar string, defaultValue T) T {
	envValue, ok := os.LookupEnv(envVar)
	if !ok || envValue == "" {
		return defaultValue
	}
	parsed, err := parseEnvValue[T](envVar, envValue)
	if err != nil {
		log.Fatalf("environment variable %s is not valid: %v", envVar, err)
	}
	return parsed
}

// GetRequiredEnv is like GetEnv but exits when the variable is missing.
func GetRequiredEnv[T EnvVarType](envVar string) T {
	envValue, ok := os.LookupEnv(envVar)
	if !ok || envValue == "" {
		log.Fatalf("%s environment variable is required", envVar)
	}
	parsed, err := parseEnvValue[T](envVar, envValue)
	if err != nil {
		log.Fatalf("environment variable %s is not valid: %v", envVar, err)
	}
	return parsed
}

func parseEnvValue[T EnvVarType](envVar, envValue string) (T, error) {
	var zero T
	switch any(zero).(type) {
	case string:
		return any(envValue).(T), nil
	case int:
		intValue, err := strconv.Atoi(envValue)
		if err != nil {
			return zero, err
		}
		return any(intValue).(T), nil
	case bool:
		boolValue, err := strconv.ParseBool(envValue)
		if err != nil {
			return zero, err
		}
		return any(boolValue).(T), nil
	}
	return zero, nil
}
