// Package config loads environment-driven configuration structs.
//
// It combines github.com/joho/godotenv for .env files with
// github.com/caarlos0/env/v11 for struct parsing, and caches each
// configuration type after its first successful parse:
//
//	var cfg mongo.Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// LoadEnv reads explicit .env files, later ones taking precedence. Reload and
// ResetCache are meant for tests and for processes that change their
// environment after start-up.
package config
