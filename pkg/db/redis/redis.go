package redis

import (
	"context"
	"fmt"

	"BobaLink/pkg/config"
	"BobaLink/pkg/monitor"

	"github.com/redis/go-redis/v9"
)

var Rdb *redis.Client
var Monitor *monitor.Monitor

func Init(cfg *config.RedisConfig) (err error) {
	Monitor = monitor.NewMonitor("redis", 100, 10000, 60000)
	Monitor.Run()
	Rdb = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
	Rdb.AddHook(&redisMonitorHook{mon: Monitor})
	_, err = Rdb.Ping(context.Background()).Result()
	return
}

func Close() {
	_ = Rdb.Close()
}
