package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"netarena/logging"
	"netarena/netsim"
)

// newCommand 组装 netsim 命令：在客户端与真实服务器之间插入一层可配置的弱网仿真
func newCommand() *cobra.Command {
	cfg := netsim.Config{}

	cmd := &cobra.Command{
		Use:   "netsim",
		Short: "Simulate network latency, jitter and packet loss",
		Long: `netsim is a transparent TCP proxy that sits between a game client and
the real server, adding configurable latency, jitter and packet loss to
both directions. Point your client at the listen port to test how it
tolerates adverse network conditions.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// 配置校验走在最前面：非法参数直接退出，
			// 不产生任何副作用（日志文件、socket）
			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := logging.Init("netsim.log"); err != nil {
				return err
			}
			defer logging.Sync()
			log := logging.Log

			sim, err := netsim.New(cfg, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := sim.Run(ctx); err != nil {
				return err
			}

			// 退出时汇报运行统计（与数据协议无关，仅诊断）
			snap := sim.Stats().Snapshot()
			log.Infof("simulator statistics: forwarded=%v dropped=%v loss=%.2f%% avg_delay=%.1fms",
				snap["chunks_forwarded"], snap["chunks_dropped"],
				snap["actual_loss_pct"], snap["avg_delay_ms"])
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.TargetHost, "target-host", "localhost", "target server host")
	cmd.Flags().IntVar(&cfg.TargetPort, "target-port", 3000, "target server port")
	cmd.Flags().IntVar(&cfg.ListenPort, "listen-port", 3001, "port to listen on")
	cmd.Flags().IntVar(&cfg.LatencyMs, "latency", 100, "base latency in milliseconds")
	cmd.Flags().IntVar(&cfg.JitterMs, "jitter", 0, "latency jitter in milliseconds")
	cmd.Flags().Float64Var(&cfg.LossRate, "packet-loss", 0.0, "packet loss rate from 0.0 to 1.0")

	return cmd
}

func main() {
	// cobra 已向 stderr 打印错误详情，这里只负责非零退出码
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
