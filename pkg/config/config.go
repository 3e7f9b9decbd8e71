package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Chain    ChainConfig    `mapstructure:"chain"`
	Explorer ExplorerConfig `mapstructure:"explorer"`
	Wallet   WalletConfig   `mapstructure:"wallet"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	HttpPort string `mapstructure:"http_port"`
}

// ChainConfig 节点与交易编码参数
type ChainConfig struct {
	RpcUrl          string        `mapstructure:"rpc_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	Format          uint16        `mapstructure:"format"`   // SS58 地址格式: 0 Polkadot, 2 Kusama, 42 Substrate
	Decimals        int32         `mapstructure:"decimals"` // DOT = 10
	Symbol          string        `mapstructure:"symbol"`
	BalancesPallet  uint8         `mapstructure:"balances_pallet"`
	TransferCall    uint8         `mapstructure:"transfer_call"` // transfer_keep_alive = 3
	MetadataHash    bool          `mapstructure:"metadata_hash"` // 运行时是否启用 CheckMetadataHash 扩展
	RuntimeCacheTTL time.Duration `mapstructure:"runtime_cache_ttl"`
}

type ExplorerConfig struct {
	BaseUrl    string        `mapstructure:"base_url"`
	ApiKey     string        `mapstructure:"api_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RetryCount int           `mapstructure:"retry_count"`
}

type WalletConfig struct {
	Mnemonic         string        `mapstructure:"mnemonic"`
	Keystore         string        `mapstructure:"keystore"` // 加密的助记词文件, 设置后优先于 mnemonic
	KeystorePassword string        `mapstructure:"keystore_password"`
	Password         string        `mapstructure:"password"` // 助记词密码 (///password), 通常通过 WALLET_PASSWORD 传入
	Scheme           string        `mapstructure:"scheme"`   // ed25519 / ecdsa
	CheckBalance     bool          `mapstructure:"check_balance"`
	PendingTTL       time.Duration `mapstructure:"pending_ttl"` // 未广播交易在内存中的保留时间
	SenderLock       bool          `mapstructure:"sender_lock"` // 同一发送方串行化 nonce->广播 (需要 Redis)
	SenderLockTTL    time.Duration `mapstructure:"sender_lock_ttl"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	MQType   string `mapstructure:"mq_type"` // "redis" / "kafka" / "" (不发布事件)
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

var Global Config

// Init 加载配置到 Global，失败直接退出
func Init(path string) {
	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("Fatal error config file: %s \n", err)
	}
	Global = *cfg
	log.Printf("Configuration loaded successfully. Env: %s", Global.App.Env)
}

// Load 读取配置文件 + 环境变量
// path 为空时在 "." 和 "./config" 下查找 config.yaml
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config") // name of config file (without extension)
		v.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name
		v.AddConfigPath(".")      // optionally look for config in the working directory
		v.AddConfigPath("./config")
	}

	// 环境变量设置: CHAIN_RPC_URL -> chain.rpc_url
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 设置默认值
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Printf("Warning: Config file not found, using defaults and environment variables")
		} else {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.http_port", "8080")

	v.SetDefault("chain.rpc_url", "wss://rpc.polkadot.io")
	v.SetDefault("chain.timeout", 15*time.Second)
	v.SetDefault("chain.format", 0)
	v.SetDefault("chain.decimals", 10)
	v.SetDefault("chain.symbol", "DOT")
	v.SetDefault("chain.balances_pallet", 5)
	v.SetDefault("chain.transfer_call", 3)
	v.SetDefault("chain.metadata_hash", false)
	v.SetDefault("chain.runtime_cache_ttl", 10*time.Minute)

	v.SetDefault("explorer.base_url", "https://polkadot.api.subscan.io")
	v.SetDefault("explorer.api_key", "")
	v.SetDefault("explorer.timeout", 10*time.Second)
	v.SetDefault("explorer.retry_count", 2)

	// 敏感项没有默认值, 仍需注册 key 才能从 WALLET_MNEMONIC 等环境变量读取
	v.SetDefault("wallet.mnemonic", "")
	v.SetDefault("wallet.keystore", "")
	v.SetDefault("wallet.keystore_password", "")
	v.SetDefault("wallet.password", "")
	v.SetDefault("wallet.scheme", "ed25519")
	v.SetDefault("wallet.check_balance", true)
	v.SetDefault("wallet.pending_ttl", 10*time.Minute)
	v.SetDefault("wallet.sender_lock", false)
	v.SetDefault("wallet.sender_lock_ttl", 30*time.Second)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.mq_type", "")

	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "wallet_events_transfer")
}
