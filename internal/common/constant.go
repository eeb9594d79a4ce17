package common

const (
	// MinSceneCount and MaxSceneCount bound the requested script length.
	MinSceneCount = 1
	MaxSceneCount = 50

	// APIKeyEnv is the primary environment variable holding the model API key.
	// LegacyAPIKeyEnv is consulted when APIKeyEnv is empty.
	APIKeyEnv       = "GEMINI_API_KEY"
	LegacyAPIKeyEnv = "API_KEY"
)
