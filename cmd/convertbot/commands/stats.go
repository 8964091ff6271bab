package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rapidfileconvert/convertbot/internal/config"
	"github.com/rapidfileconvert/convertbot/internal/usage"
)

var statsUserID int64

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print usage counts from the usage log",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		repo, closeRepo, err := usage.Open(cfg.Usage.SQLitePath)
		if err != nil {
			return err
		}
		defer closeRepo()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		count, err := repo.CountByUser(ctx, statsUserID)
		if err != nil {
			return err
		}
		fmt.Printf("user %d: %d uploads\n", statsUserID, count)
		return nil
	},
}

func init() {
	statsCmd.Flags().Int64Var(&statsUserID, "user", 0, "user id to count uploads for")
	statsCmd.MarkFlagRequired("user")
}
