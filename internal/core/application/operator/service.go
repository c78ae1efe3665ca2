package operator

import (
	"context"
	"fmt"
	"time"

	"github.com/chro-network/chro-marketplace/internal/core/application/marketplace"
	"github.com/chro-network/chro-marketplace/internal/core/application/pubsub"
	"github.com/chro-network/chro-marketplace/internal/core/ports"
	"github.com/chro-network/chro-marketplace/pkg/stats"
	log "github.com/sirupsen/logrus"
)

// Settler runs the settlement of expired auctions.
type Settler interface {
	ExecuteJob(ctx context.Context) (*marketplace.JobReport, error)
}

type service struct {
	repoManager ports.RepoManager
	pubsub      *pubsub.Service
	settler     Settler
	feeScale    uint32
	now         func() int64
}

func NewService(
	repoManager ports.RepoManager, pubsubSvc *pubsub.Service,
	settler Settler, feeScale uint32, clock func() int64,
) (*service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if pubsubSvc == nil {
		return nil, fmt.Errorf("missing pubsub service")
	}
	if settler == nil {
		return nil, fmt.Errorf("missing settlement service")
	}
	if feeScale == 0 {
		return nil, fmt.Errorf("fee scale must be greater than zero")
	}
	if clock == nil {
		clock = func() int64 { return time.Now().Unix() }
	}

	return &service{repoManager, pubsubSvc, settler, feeScale, clock}, nil
}

// ExecuteJob forces a run of the settlement job out of its schedule.
func (s *service) ExecuteJob(ctx context.Context) (*marketplace.JobReport, error) {
	log.Info("job: forced dispatch by operator")
	report, err := s.settler.ExecuteJob(ctx)
	stats.RecordOperation("execute_job", err)
	return report, err
}
