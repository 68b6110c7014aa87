// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads the model-endpoint settings required by the naming
// client. All five settings are mandatory; Load fails before any file
// processing begins, naming every missing key at once.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/aromeo/smart-renamer/internal/secrets"
	"github.com/aromeo/smart-renamer/pkg/types"
)

// Environment variable names for the five required settings.
const (
	EnvAPIKey     = "AZURE_OPENAI_API_KEY"
	EnvEndpoint   = "AZURE_OPENAI_ENDPOINT"
	EnvDeployment = "AZURE_OPENAI_DEPLOYMENT"
	EnvAPIVersion = "AZURE_OPENAI_API_VERSION"
	EnvModel      = "AZURE_OPENAI_MODEL"
)

// requiredVars lists the settings in reporting order.
var requiredVars = []string{EnvAPIKey, EnvEndpoint, EnvDeployment, EnvAPIVersion, EnvModel}

// MissingError reports which required settings were absent or empty.
type MissingError struct {
	Keys []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Keys, ", "))
}

// Load reads the five required settings from the environment, falling back to
// files in secretsDir for any variable that is unset. The returned Settings
// value is immutable for the process lifetime; callers pass it explicitly to
// the naming client rather than re-reading the environment.
//
// If any setting is missing or empty, Load returns a *MissingError listing
// every absent key.
func Load(secretsDir string) (types.Settings, error) {
	fromFiles, err := secrets.Load(secretsDir)
	if err != nil {
		return types.Settings{}, err
	}

	v := viper.New()
	for _, name := range requiredVars {
		v.BindEnv(name)
		if fallback, ok := fromFiles[secrets.KeyFor(name)]; ok {
			v.SetDefault(name, fallback)
		}
	}

	var missing []string
	get := func(name string) string {
		value := strings.TrimSpace(v.GetString(name))
		if value == "" {
			missing = append(missing, name)
		}
		return value
	}

	s := types.Settings{
		APIKey:     get(EnvAPIKey),
		Endpoint:   strings.TrimRight(get(EnvEndpoint), "/"),
		Deployment: get(EnvDeployment),
		APIVersion: get(EnvAPIVersion),
		Model:      get(EnvModel),
	}

	if len(missing) > 0 {
		return types.Settings{}, &MissingError{Keys: missing}
	}

	return s, nil
}
