package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mergebench/logutil"
)

func newRootCmd() *cobra.Command {
	var (
		flags cliFlags
		cfg   *Config
	)

	root := &cobra.Command{
		Use:           "sortbench",
		Short:         "상향식 머지소트 벤치마크",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := LoadConfig(flags.configFile)
			if err != nil {
				return err
			}
			flags.apply(cmd.Flags(), loaded)
			if err := loaded.Validate(); err != nil {
				return err
			}
			if _, err := logutil.SetupLogger(&loaded.Log); err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}
	flags.registerPersistent(root.PersistentFlags())

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "크기/알고리즘별 정렬 벤치마크를 실행하고 결과를 저장",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBench(cmd.Context(), cfg)
		},
	}
	flags.registerRun(runCmd.Flags())

	var runID string
	resultsCmd := &cobra.Command{
		Use:   "results",
		Short: "저장소에 기록된 벤치마크 결과 출력",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listResults(cmd.OutOrStdout(), cfg, runID)
		},
	}
	resultsCmd.Flags().StringVar(&runID, "run-id", "", "특정 실행 ID만 출력")

	var size, probes int
	storeBenchCmd := &cobra.Command{
		Use:   "storebench",
		Short: "bbolt/BadgerDB/PebbleDB 데이터셋 저장·로드 비교",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if size < 0 {
				return errors.Newf("--size must be >= 0, got %d", size)
			}
			if probes < 0 {
				return errors.Newf("--probes must be >= 0, got %d", probes)
			}
			return runStoreBench(cmd.OutOrStdout(), cfg, size, probes)
		},
	}
	storeBenchCmd.Flags().IntVar(&size, "size", 100000, "데이터셋 크기")
	storeBenchCmd.Flags().IntVar(&probes, "probes", 10000, "임의 조회 횟수")

	root.AddCommand(runCmd, resultsCmd, storeBenchCmd)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logutil.Error("sortbench 실패", zap.Error(err))
		logutil.Sync()
		fmt.Fprintln(os.Stderr, "오류:", err)
		stop()
		os.Exit(1)
	}
	logutil.Sync()
}
