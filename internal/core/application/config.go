package application

import (
	"fmt"

	"github.com/chro-network/chro-marketplace/internal/core/ports"
	dbbadger "github.com/chro-network/chro-marketplace/internal/infrastructure/storage/db/badger"
	"github.com/chro-network/chro-marketplace/internal/infrastructure/storage/db/inmemory"
	log "github.com/sirupsen/logrus"
)

const (
	DBBadger   = "badger"
	DBInMemory = "inmemory"
)

var (
	SupportedDBType = map[string]struct{}{
		DBBadger:   {},
		DBInMemory: {},
	}
)

type Config struct {
	DBType   string
	DBConfig interface{}

	AssetLedger  ports.AssetLedger
	TokenLedger  ports.TokenLedger
	SecurePubSub ports.SecurePubSub
	FeeScale     uint32
	// Clock returns the current unix time, defaults to the system clock.
	Clock func() int64

	repo        ports.RepoManager
	pubsub      PubSubService
	marketplace MarketplaceService
	operator    OperatorService
}

func (c *Config) Validate() error {
	if _, ok := SupportedDBType[c.DBType]; !ok {
		return fmt.Errorf("unsupported db type %s", c.DBType)
	}
	if c.AssetLedger == nil {
		return fmt.Errorf("missing asset ledger")
	}
	if c.TokenLedger == nil {
		return fmt.Errorf("missing token ledger")
	}
	if c.FeeScale == 0 {
		return fmt.Errorf("fee scale must be greater than zero")
	}
	if _, err := c.repoManager(); err != nil {
		return err
	}
	if _, err := c.marketplaceService(); err != nil {
		return err
	}
	if _, err := c.operatorService(); err != nil {
		return err
	}
	return nil
}

func (c *Config) RepoManager() ports.RepoManager {
	svc, _ := c.repoManager()
	return svc
}

func (c *Config) PubSubService() PubSubService {
	svc, _ := c.pubsubService()
	return svc
}

func (c *Config) MarketplaceService() MarketplaceService {
	svc, _ := c.marketplaceService()
	return svc
}

func (c *Config) OperatorService() OperatorService {
	svc, _ := c.operatorService()
	return svc
}

func (c *Config) repoManager() (ports.RepoManager, error) {
	if c.repo == nil {
		switch c.DBType {
		case DBBadger:
			datadir, _ := c.DBConfig.(string)
			repoManager, err := dbbadger.NewRepoManager(datadir, log.New())
			if err != nil {
				return nil, err
			}
			c.repo = repoManager
		case DBInMemory:
			c.repo = inmemory.NewRepoManager()
		default:
			return nil, fmt.Errorf("unsupported db type %s", c.DBType)
		}
	}
	return c.repo, nil
}

func (c *Config) pubsubService() (PubSubService, error) {
	if c.pubsub == nil {
		c.pubsub = NewPubSubService(c.SecurePubSub)
	}
	return c.pubsub, nil
}

func (c *Config) marketplaceService() (MarketplaceService, error) {
	if c.marketplace == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		pubsub, _ := c.pubsubService()
		marketplace, err := NewMarketplaceService(
			repo, c.AssetLedger, c.TokenLedger, pubsub, c.FeeScale, c.Clock,
		)
		if err != nil {
			return nil, err
		}
		c.marketplace = marketplace
	}
	return c.marketplace, nil
}

func (c *Config) operatorService() (OperatorService, error) {
	if c.operator == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		pubsub, _ := c.pubsubService()
		marketplace, err := c.marketplaceService()
		if err != nil {
			return nil, err
		}
		operator, err := NewOperatorService(
			repo, pubsub, marketplace, c.FeeScale, c.Clock,
		)
		if err != nil {
			return nil, err
		}
		c.operator = operator
	}
	return c.operator, nil
}
