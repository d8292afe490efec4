package main

import "strings"

type Settings struct {
	Port           int    `env:"PORT,default=8000"`
	BasePath       string `env:"BASE_PATH"`
	LogEncoding    string `env:"LOG_ENCODING,default=console"`
	MenuEngine     string `env:"MENU_ENGINE,default=memory"`
	SendBufferSize int    `env:"SEND_BUFFER_SIZE,default=16"`
	MaxMenuBytes   int64  `env:"MAX_MENU_BYTES,default=1048576"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`
}

func (s Settings) allowedOrigins() []string {
	if strings.TrimSpace(s.AllowedOrigins) == "" {
		return nil
	}

	return strings.Split(s.AllowedOrigins, ",")
}
