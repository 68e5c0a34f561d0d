package config

import (
	"github.com/kelseyhightower/envconfig"
)

type App struct {
	// DB
	PGDSN string `envconfig:"PG_DSN" required:"true"`
	// JWT
	JWTSecret    string `envconfig:"JWT_SECRET" required:"true"`
	JWTExpireMin int    `envconfig:"JWT_EXPIRE_MIN" default:"60"`
	// RabbitMQ
	RabbitURL      string `envconfig:"RABBIT_URL" required:"true"`
	MarketExchange string `envconfig:"MARKET_EXCHANGE" default:"market.exchange"`
	// Network
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
