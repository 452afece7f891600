package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"netarena/logging"
	"netarena/server"
)

// NetArena 入口：启动 HTTP + WebSocket 服务与权威 Tick 循环
func main() {
	cfg, err := server.LoadConfig()
	if err != nil {
		panic(err)
	}
	var addr string
	flag.StringVar(&addr, "addr", cfg.Addr, "server listen address, e.g. :3000")
	flag.Parse()
	cfg.Addr = addr

	// 使用第三方 zap 日志库写入滚动文件，同步输出到控制台
	if err := logging.Init(cfg.LogFile); err != nil {
		panic(err)
	}
	defer logging.Sync()
	log := logging.Log

	world := server.NewWorld(cfg, log)

	// Ctrl+C / SIGTERM 触发优雅退出
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go world.RunTicker(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", world.HandleWS)
	// 管理与监控接口
	mux.HandleFunc("/admin/config", world.HandleAdminConfig)
	mux.HandleFunc("/metrics", world.HandleMetrics)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	go func() {
		log.Infof("NetArena listening on %s (tick rate %d Hz)", cfg.Addr, cfg.TickRate)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	world.Shutdown()
}
