package config

const (
	defaultStorageDriver = "memory"
	defaultSQLitePath    = ""
	defaultAPIListen     = ":8090"

	defaultProviderBaseURL     = "https://api.openai.com/v1"
	defaultProviderModel       = "gpt-4o-mini"
	defaultProviderTemperature = 0.7
	defaultProviderMaxTokens   = 512
	defaultCallTimeoutSec      = 30
	defaultSystemPrompt        = "You are a helpful assistant. Answer using the conversation history for context."

	defaultContextWindow  = 10
	defaultRecentSessions = 5

	defaultEventsProvider = "none"
	defaultEventsTopic    = "switchboard.turns"

	defaultClientAPITarget = "http://localhost:8090"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Storage: StorageConfig{
			Driver:     defaultStorageDriver,
			SQLitePath: defaultSQLitePath,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Provider: ProviderConfig{
			BaseURL:        defaultProviderBaseURL,
			Model:          defaultProviderModel,
			Temperature:    defaultProviderTemperature,
			MaxTokens:      defaultProviderMaxTokens,
			CallTimeoutSec: defaultCallTimeoutSec,
			SystemPrompt:   defaultSystemPrompt,
		},
		Engine: EngineConfig{
			ContextWindow:  defaultContextWindow,
			RecentSessions: defaultRecentSessions,
		},
		Events: EventsConfig{
			Provider: defaultEventsProvider,
			Topic:    defaultEventsTopic,
		},
		Client: ClientConfig{
			APITarget: defaultClientAPITarget,
		},
	}
}
