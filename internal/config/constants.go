package config

import "time"

// Node connection.
const (
	DefaultNodeAddr      = "127.0.0.1:9944"
	DefaultReadTimeout   = 2 * time.Second
	WebSocketPath        = "/"
	WebSocketHost        = "localhost:9944"
	WebSocketOrigin      = "http://localhost:9944"
)

// Reconnect policy (internal/provider).
const (
	DefaultReconnectRPS          = 1
	DefaultReconnectFailThresh   = 3
	DefaultReconnectCooldown     = 5 * time.Second
)

// Logging.
const (
	LogDir         = "./logs"
	LogFilePattern = "leger-%s-%s.log" // %s, %s = date, level
	LogMaxAgeDays  = 30
)
