package main

import (
	"BobaLink/internal/server"
	"BobaLink/pkg/bootstrap"
	"BobaLink/pkg/config"
	"BobaLink/pkg/push"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

func main() {
	cleanup, err := bootstrap.InitAll("")
	if err != nil {
		fmt.Printf("bootstrap failed, err:%v\n", err)
		return
	}
	defer cleanup()

	reg := push.NewRegistry(config.Conf.DispatcherConfig)
	disp := push.NewDispatcher(reg, config.Conf.DispatcherConfig)
	defer disp.Stop()

	r := server.NewRouter(reg, disp)
	addr := fmt.Sprintf(":%d", config.Conf.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}
	zap.L().Info("server run", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zap.L().Fatal("listen: %s\n", zap.Error(err))
	}
}
