package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"dot-wallet/internal/handler"
	"dot-wallet/internal/server"
	"dot-wallet/internal/service/mq"
	"dot-wallet/internal/service/wallet"
	"dot-wallet/pkg/cache"
	"dot-wallet/pkg/chain"
	"dot-wallet/pkg/config"
	"dot-wallet/pkg/database"
	"dot-wallet/pkg/explorer"
	"dot-wallet/pkg/logger"
	"dot-wallet/pkg/ss58"
	"dot-wallet/pkg/txbuilder"
	"dot-wallet/pkg/utils/lock"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "dot-wallet/docs/swagger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "wallet-server",
	Short: "Polkadot 钱包 HTTP 服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "配置文件路径 (默认在 . 和 ./config 下查找 config.yaml)")
}

// @title DOT Wallet API
// @version 1.0
// @description Polkadot / Substrate wallet helper: addresses, multisig, signed transfers
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /
func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// 0. 初始化 Config
	config.Init(configPath)
	cfg := config.Global

	// 1. 初始化 Logger
	logger.Init(cfg.App.Env)
	defer logger.Sync()

	// 2. 加载根密钥
	root, err := wallet.LoadRoot(cfg.Wallet)
	if err != nil {
		return fmt.Errorf("load root key: %w", err)
	}
	rootAddr, err := root.Address(ss58.Format(cfg.Chain.Format))
	if err != nil {
		return fmt.Errorf("encode root address: %w", err)
	}
	logger.Info("根密钥加载成功 (内存中)", zap.String("scheme", string(root.Scheme())), zap.String("address", rootAddr))

	// 3. 连接 Redis (仅发送方锁或 Redis Stream 需要)
	var rdb *redis.Client
	if cfg.Wallet.SenderLock || cfg.Redis.MQType == mq.TypeRedis {
		if rdb, err = database.ConnectRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
			return err
		}
		defer rdb.Close()
	}

	// 4. 运行时参数缓存: 有 Redis 时多实例共享
	var runtimeCache cache.Cache = cache.NewMemoryCache(cfg.Chain.RuntimeCacheTTL, time.Minute)
	if rdb != nil {
		runtimeCache = cache.NewMultiLevelCache(runtimeCache, cache.NewRedisCache(rdb, "dot-wallet:"))
	}

	// 5. 连接节点
	client, err := chain.Dial(ctx, cfg.Chain.RpcUrl,
		chain.WithTimeout(cfg.Chain.Timeout),
		chain.WithCache(runtimeCache, cfg.Chain.RuntimeCacheTTL),
	)
	if err != nil {
		return err
	}
	defer client.Close()
	logger.Info("节点连接成功", zap.String("url", cfg.Chain.RpcUrl))

	// 6. 消息队列
	var producer mq.Producer = mq.NopProducer{}
	switch cfg.Redis.MQType {
	case mq.TypeKafka:
		logger.Info("使用 Kafka 发布交易事件...")
		producer = mq.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	case mq.TypeRedis:
		logger.Info("使用 Redis Streams 发布交易事件...")
		producer = mq.NewRedisProducer(rdb)
	}
	defer producer.Close()

	// 7. 发送方锁
	var locker lock.Locker
	if cfg.Wallet.SenderLock {
		locker = lock.NewRedisLock(rdb)
	}

	// 8. 区块浏览器 (可选)
	var exp wallet.Explorer
	if cfg.Explorer.BaseUrl != "" {
		exp = explorer.NewClient(explorer.Config{
			BaseURL:    cfg.Explorer.BaseUrl,
			APIKey:     cfg.Explorer.ApiKey,
			Timeout:    cfg.Explorer.Timeout,
			RetryCount: cfg.Explorer.RetryCount,
		})
	}

	// 9. 业务服务
	svc := wallet.NewService(wallet.Config{
		Format:   ss58.Format(cfg.Chain.Format),
		Decimals: cfg.Chain.Decimals,
		Symbol:   cfg.Chain.Symbol,
		Tx: txbuilder.Config{
			Format:       ss58.Format(cfg.Chain.Format),
			PalletIndex:  cfg.Chain.BalancesPallet,
			CallIndex:    cfg.Chain.TransferCall,
			MetadataHash: cfg.Chain.MetadataHash,
		},
		CheckBalance: cfg.Wallet.CheckBalance,
		PendingTTL:   cfg.Wallet.PendingTTL,
		LockTTL:      cfg.Wallet.SenderLockTTL,
		Topic:        cfg.Kafka.Topic,
	}, wallet.Deps{
		Root:     root,
		Client:   client,
		Explorer: exp,
		Locker:   locker,
		Producer: producer,
	})

	// 10. HTTP Server
	r := server.NewHTTPRouter(handler.NewWalletHandler(svc))
	app := server.New(server.Config{HttpPort: cfg.App.HttpPort}, r)

	// 运行 (阻塞)
	if err := app.Run(ctx); err != nil {
		return err
	}
	logger.Info("系统已退出")
	return nil
}
