package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/chro-network/chro-marketplace/internal/core/application"
	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

const (
	// ListeningPortKey is the port where the HTTP interface will listen on
	ListeningPortKey = "LISTENING_PORT"
	// DatadirKey is the local data directory to store the internal state of daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// JobScheduleKey is the cron expression driving the settlement of expired auctions
	JobScheduleKey = "JOB_SCHEDULE"
	// FeeScaleKey is the denominator of fee collectors' and royalties' percentages
	FeeScaleKey = "FEE_SCALE"
	// AuthSecretKey is the HS256 secret used to verify the bearer tokens
	AuthSecretKey = "AUTH_SECRET"
	// EscrowAccountKey is the token account of the marketplace holding escrowed bids
	EscrowAccountKey = "ESCROW_ACCOUNT"
	// LedgerGenesisFileKey is the path of the JSON file seeding the reference ledgers
	LedgerGenesisFileKey = "LEDGER_GENESIS_FILE"
	// WebhookTimeoutKey is the timeout in seconds of every webhook delivery
	WebhookTimeoutKey = "WEBHOOK_TIMEOUT"
	// WebhookRateLimitKey is the max number of webhook deliveries per second, 0 means unlimited
	WebhookRateLimitKey = "WEBHOOK_RATE_LIMIT"
	// StatsIntervalKey defines interval in seconds for logging memory statistics, 0 disables them
	StatsIntervalKey = "STATS_INTERVAL"
	// EnableMetricsKey exposes prometheus metrics on the /metrics route
	EnableMetricsKey = "ENABLE_METRICS"

	DbLocation = "db"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("marketd", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("MARKET")
	vip.AutomaticEnv()

	vip.SetDefault(ListeningPortKey, 9000)
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DBTypeKey, application.DBBadger)
	vip.SetDefault(JobScheduleKey, "@midnight")
	vip.SetDefault(FeeScaleKey, domain.DefaultFeeScale)
	vip.SetDefault(EscrowAccountKey, "marketplace")
	vip.SetDefault(WebhookTimeoutKey, 15)
	vip.SetDefault(WebhookRateLimitKey, 0)
	vip.SetDefault(StatsIntervalKey, 600)
	vip.SetDefault(EnableMetricsKey, true)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetUint32(key string) uint32 {
	return vip.GetUint32(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

// GetDuration returns the value of a key expressed in seconds.
func GetDuration(key string) time.Duration {
	return time.Duration(vip.GetInt(key)) * time.Second
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func GetDbDir() string {
	return filepath.Join(GetDatadir(), DbLocation)
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	port := GetInt(ListeningPortKey)
	if port <= 0 || port > 65535 {
		return fmt.Errorf("%s must be a valid port number", ListeningPortKey)
	}

	if _, ok := application.SupportedDBType[GetString(DBTypeKey)]; !ok {
		return fmt.Errorf("unsupported %s %s", DBTypeKey, GetString(DBTypeKey))
	}

	if _, err := cron.ParseStandard(GetString(JobScheduleKey)); err != nil {
		return fmt.Errorf("invalid %s: %s", JobScheduleKey, err)
	}

	if vip.GetInt64(FeeScaleKey) <= 0 {
		return fmt.Errorf("%s must be greater than zero", FeeScaleKey)
	}

	if len(GetString(AuthSecretKey)) <= 0 {
		return fmt.Errorf("missing %s", AuthSecretKey)
	}

	if len(GetString(EscrowAccountKey)) <= 0 {
		return fmt.Errorf("missing %s", EscrowAccountKey)
	}

	if genesis := GetString(LedgerGenesisFileKey); len(genesis) > 0 {
		if _, err := os.Stat(genesis); err != nil {
			return fmt.Errorf("invalid %s: %s", LedgerGenesisFileKey, err)
		}
	}

	if GetInt(WebhookTimeoutKey) <= 0 {
		return fmt.Errorf("%s must be greater than zero", WebhookTimeoutKey)
	}
	if GetInt(WebhookRateLimitKey) < 0 {
		return fmt.Errorf("%s must not be negative", WebhookRateLimitKey)
	}
	if GetInt(StatsIntervalKey) < 0 {
		return fmt.Errorf("%s must not be negative", StatsIntervalKey)
	}

	return nil
}

func initDatadir() error {
	if GetString(DBTypeKey) != application.DBBadger {
		return makeDirectoryIfNotExists(GetDatadir())
	}
	return makeDirectoryIfNotExists(GetDbDir())
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
