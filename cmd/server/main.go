package main

import (
	"blogs/internal/config"
	"blogs/internal/db"
	clog "blogs/internal/log"
	"blogs/internal/server"

	"github.com/rs/zerolog/log"
)

func main() {
	// main 函数负责加载配置、初始化日志、连接数据库并启动 Gin 服务。
	envFile := config.LoadDotenv()
	cfg := config.Load()
	clog.Init(cfg.Env, cfg.LogLevel)
	if envFile != "" {
		log.Info().Str("file", envFile).Msg("loaded env file")
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	gdb, err := db.Connect(cfg.DatabaseDriver, cfg.DatabaseDSN, cfg.Env == "dev")
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DatabaseDriver).Msg("db connect")
	}
	defer db.Close(gdb)
	if err := db.Migrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	r := server.SetupRouter(cfg, gdb)
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("blog server listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server run")
	}
}
