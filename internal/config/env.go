// Package config defines environment variable keys for configuration.
package config

//nolint:gosec,revive // Environment variable keys are not credentials and do not need per-const comments.
const (
	// Server
	EnvPort            = "CASMATE_PORT"
	EnvLogLevel        = "CASMATE_LOG_LEVEL"
	EnvShutdownTimeout = "CASMATE_SHUTDOWN_TIMEOUT"
	EnvRequestTimeout  = "CASMATE_REQUEST_TIMEOUT"

	// Catalog
	EnvDataDir       = "CASMATE_DATA_DIR"
	EnvAliasesPath   = "CASMATE_ALIASES_PATH"
	EnvCatalogSource = "CASMATE_CATALOG_SOURCE"
	EnvSQLitePath    = "CASMATE_SQLITE_PATH"

	// Dialogue
	EnvSessionTTL             = "CASMATE_SESSION_TTL"
	EnvSessionCleanupInterval = "CASMATE_SESSION_CLEANUP_INTERVAL"
	EnvFinanceOfficeURL       = "CASMATE_FINANCE_OFFICE_URL"

	// Chat rate limit
	EnvChatRatePerMinute = "CASMATE_CHAT_RATE_PER_MINUTE"
	EnvChatBurst         = "CASMATE_CHAT_BURST"

	// Matcher thresholds
	EnvFuzzyHighCutoff     = "CASMATE_FUZZY_HIGH_CUTOFF"
	EnvFuzzyCodeCutoff     = "CASMATE_FUZZY_CODE_CUTOFF"
	EnvSuggestCutoff       = "CASMATE_SUGGEST_CUTOFF"
	EnvAmbiguityMargin     = "CASMATE_AMBIGUITY_MARGIN"
	EnvSubsetTitleCoverage = "CASMATE_SUBSET_TITLE_COVERAGE"
	EnvSuggestionLimit     = "CASMATE_SUGGESTION_LIMIT"
	EnvSingularizeMinLen   = "CASMATE_SINGULARIZE_MIN_LEN"

	// Sentry Feature
	EnvSentryToken       = "CASMATE_SENTRY_TOKEN"
	EnvSentryHost        = "CASMATE_SENTRY_HOST"
	EnvSentryEnvironment = "CASMATE_SENTRY_ENVIRONMENT"
	EnvSentrySampleRate  = "CASMATE_SENTRY_SAMPLE_RATE"

	// Better Stack Feature
	EnvBetterStackToken    = "CASMATE_BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "CASMATE_BETTERSTACK_ENDPOINT"

	// Metrics Auth Feature
	EnvMetricsUsername = "CASMATE_METRICS_USERNAME"
	EnvMetricsPassword = "CASMATE_METRICS_PASSWORD"

	// Admin
	EnvAdminToken = "CASMATE_ADMIN_TOKEN"
)
