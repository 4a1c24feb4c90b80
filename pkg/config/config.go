/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const envPrefix = "HEAN"

// defaultAdminPassword is hashed at load time when no hash is configured,
// mirroring a first-run developer setup. Production deployments must set
// admin.passwordHash (HEAN_ADMIN_PASSWORDHASH).
const defaultAdminPassword = "rxprime"

type AppConfig struct {
	App       AppInfo         `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Session   SessionConfig   `mapstructure:"session"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Search    SearchConfig    `mapstructure:"search"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type AppInfo struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host string     `mapstructure:"host"`
	Port int        `mapstructure:"port"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
	AllowedMethods []string `mapstructure:"allowedMethods"`
	AllowedHeaders []string `mapstructure:"allowedHeaders"`
}

type StorageConfig struct {
	DataDir      string `mapstructure:"dataDir"`
	UsersFile    string `mapstructure:"usersFile"`
	SearchedFile string `mapstructure:"searchedFile"`
}

// UsersPath returns the full path of the user registry document.
func (s StorageConfig) UsersPath() string {
	return filepath.Join(s.DataDir, s.UsersFile)
}

// SearchedPath returns the full path of the search-log document.
func (s StorageConfig) SearchedPath() string {
	return filepath.Join(s.DataDir, s.SearchedFile)
}

type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type AdminConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"passwordHash"`
}

type SearchConfig struct {
	// Delay is the simulated lookup latency applied before responding to
	// a search request.
	Delay time.Duration `mapstructure:"delay"`
}

type TelemetryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	OTLPEndpoint string `mapstructure:"otlpEndpoint"`
	Insecure     bool   `mapstructure:"insecure"`
}

// Load reads configuration from the given yaml file (optional) with
// environment overrides under the HEAN_ prefix.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Admin.PasswordHash == "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash default admin password: %w", err)
		}
		cfg.Admin.PasswordHash = string(hash)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "username-search")
	v.SetDefault("app.version", "2.0")
	v.SetDefault("app.environment", "local")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowedOrigins", []string{"*"})
	v.SetDefault("server.cors.allowedMethods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("server.cors.allowedHeaders", []string{"Origin", "Content-Type"})

	v.SetDefault("storage.dataDir", ".")
	v.SetDefault("storage.usersFile", "admin_database.json")
	v.SetDefault("storage.searchedFile", "searched_usernames.json")

	v.SetDefault("session.ttl", 30*time.Minute)

	v.SetDefault("admin.username", "rxprime")
	v.SetDefault("admin.passwordHash", "")

	v.SetDefault("search.delay", 2*time.Second)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.otlpEndpoint", "")
	v.SetDefault("telemetry.insecure", false)
}
