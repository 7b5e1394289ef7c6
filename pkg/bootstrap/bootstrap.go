package bootstrap

import (
	"BobaLink/internal/ledger"
	"BobaLink/internal/user"
	"BobaLink/pkg/config"
	"BobaLink/pkg/db/mysql"
	rdb "BobaLink/pkg/db/redis"
	"BobaLink/pkg/logger"
	"BobaLink/pkg/monitor"
	"BobaLink/pkg/snowflake"
	"BobaLink/pkg/utils"
	"context"
	"fmt"
)

// InitAll initializes config/logger/mysql/redis/snowflake/monitor and
// ensures the schema exists. configPath is a path to a YAML config file;
// if empty, the default config.Init() search is used. Returns a cleanup func.
func InitAll(configPath string) (cleanup func(), err error) {
	if configPath != "" {
		if err = config.InitFromFile(configPath); err != nil {
			return nil, err
		}
	} else {
		if err = config.Init(); err != nil {
			return nil, err
		}
	}

	if err = logger.Init(config.Conf.LogConfig); err != nil {
		return nil, fmt.Errorf("init logger failed: %w", err)
	}

	monitor.InitMonitor()

	if err = mysql.Init(config.Conf.MySQLConfig); err != nil {
		return nil, fmt.Errorf("init mysql failed: %w", err)
	}

	if err = rdb.Init(config.Conf.RedisConfig); err != nil {
		mysql.Close()
		return nil, fmt.Errorf("init redis failed: %w", err)
	}

	if err = snowflake.Init(config.Conf.StartTime, config.Conf.MachineID); err != nil {
		mysql.Close()
		rdb.Close()
		return nil, fmt.Errorf("init snowflake failed: %w", err)
	}

	ctx := context.Background()
	if err = user.EnsureSchema(ctx); err != nil {
		mysql.Close()
		rdb.Close()
		return nil, fmt.Errorf("ensure users schema failed: %w", err)
	}
	if err = ledger.EnsureSchema(ctx); err != nil {
		mysql.Close()
		rdb.Close()
		return nil, fmt.Errorf("ensure connections schema failed: %w", err)
	}

	utils.SetJWTConfig(config.Conf.JWTConfig)

	cleanup = func() {
		mysql.Close()
		rdb.Close()
		_ = logger.L().Sync()
	}
	return cleanup, nil
}
