package infra

import (
	"fmt"
)

const DEFAULT_MAX_CONNECTIONS = 20

type PgConfig struct {
	ConnectionString    string
	Database            string
	DbConnectWithSocket bool
	Hostname            string
	Password            string
	Port                string
	User                string
	MaxPoolConnections  int
	SslMode             string
}

func (config PgConfig) GetConnectionString() string {
	if config.ConnectionString != "" {
		return config.ConnectionString
	}

	if config.SslMode == "" {
		config.SslMode = "prefer"
	}

	connectionString := fmt.Sprintf("host=%s user=%s password=%s database=%s sslmode=%s",
		config.Hostname, config.User, config.Password, config.Database, config.SslMode)
	if !config.DbConnectWithSocket {
		connectionString = fmt.Sprintf("%s port=%s", connectionString, config.Port)
	}
	return connectionString
}

// GithubConfig configures the code host client used by fact ingestion.
type GithubConfig struct {
	// ApiUrl defaults to the public GitHub API; overridable for GHES or tests.
	ApiUrl string
	// Token is a personal access token or an installation token.
	Token string
}

const DefaultGithubApiUrl = "https://api.github.com"

func (c GithubConfig) BaseUrl() string {
	if c.ApiUrl == "" {
		return DefaultGithubApiUrl
	}
	return c.ApiUrl
}
