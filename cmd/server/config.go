package main

import (
	"fmt"
	"time"
)

type Config struct {
	Host                      string        `env:"HOST,default=localhost"`
	Port                      int           `env:"PORT,default=8080"`
	LogLevel                  string        `env:"LOG_LEVEL,required=true"`
	BadgerFilepath            string        `env:"BADGER_FILEPATH,required=true"`
	JwtSecret                 string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration         time.Duration `env:"AUTH_TOKEN_DURATION,required=true"`
	AuthTimeout               time.Duration `env:"AUTH_TIMEOUT,required=true"`
	SendBufferSize            int           `env:"SEND_BUFFER_SIZE,required=true"`
	MaxMessageSize            int64         `env:"MAX_MESSAGE_SIZE,required=true"`
	RateLimitBurst            int           `env:"RATE_LIMIT_BURST,required=true"`
	RateLimitInterval         time.Duration `env:"RATE_LIMIT_INTERVAL,required=true"`
	ModerationCharReplacement string        `env:"MODERATION_CHARACTER_REPLACEMENT,required=true"`
	GCInterval                time.Duration `env:"GC_INTERVAL,required=true"`
	MonitorInterval           time.Duration `env:"MONITOR_INTERVAL,required=true"`
	RestartInterval           time.Duration `env:"RESTART_INTERVAL,required=true"`
	ShutdownTimeout           time.Duration `env:"SHUTDOWN_TIMEOUT,required=true"`
	AllowedOrigins            []string      `env:"ALLOWED_ORIGINS"`
}

// CharacterRune ensures the replacement is exactly one character.
func (c Config) CharacterRune() (rune, error) {
	r := []rune(c.ModerationCharReplacement)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"MODERATION_CHARACTER_REPLACEMENT must be a single character, got %q",
			c.ModerationCharReplacement)
	}
	return r[0], nil
}
