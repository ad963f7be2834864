package domain

import "time"

// Config is assembled once at startup and passed explicitly into every
// constructor; nothing reads configuration after that.
type Config struct {
	ListenAddr string
	PublicURL  string

	DefaultSize   int
	MaxSize       int
	MaxInputBytes int64
	FetchTimeout  time.Duration

	GraphAPIURL      string
	ImageURLTemplate string

	OAuthTokenURL     string
	OAuthClientID     string
	OAuthClientSecret string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}
