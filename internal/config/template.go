package config

import "fmt"

// Defaults used by the CLI and the config template.
const (
	DefaultMode        = "time"
	DefaultTime        = 30
	DefaultWords       = 25
	DefaultDifficulty  = "medium"
	DefaultSource      = "words"
	DefaultQuotesCount = 3
	DefaultQuotesRate  = 2.0
	DefaultTimeout     = 10
)

// Text sources accepted by [practice].source.
const (
	SourceWords  = "words"
	SourceQuotes = "quotes"
)

// Template returns the commented config file written by `speedforce config`.
func Template() string {
	return fmt.Sprintf(`# speedforce configuration
# Uncomment a value to enable it. CLI flags override config values.
# The quotes API key is read from QUOTES_API_KEY (a .env file works too).

[practice]
# mode = %q             # time, words or custom
# time = %d                 # Seconds per timed test
# words = %d                # Words per words-mode test
# difficulty = %q     # simple, medium or advanced
# source = %q          # words (local lists) or quotes (online)
# wordlist = ""             # Optional word list file, one word per line
# custom-text-file = ""     # Text used in custom mode

[quotes]
# url = "https://api.api-ninjas.com/v1/quotes"
# count = %d                 # Quotes fetched per text
# rate = %.1f               # Requests per second
# timeout = %d              # Request timeout in seconds
`,
		DefaultMode,
		DefaultTime,
		DefaultWords,
		DefaultDifficulty,
		DefaultSource,
		DefaultQuotesCount,
		DefaultQuotesRate,
		DefaultTimeout,
	)
}
