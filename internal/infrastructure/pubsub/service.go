package pubsub

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/chro-network/chro-marketplace/internal/core/ports"
	"github.com/chro-network/chro-marketplace/pkg/circuitbreaker"
	"github.com/dgraph-io/badger/v3"
	"github.com/golang-jwt/jwt"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultRequestTimeout = 15 * time.Second
)

type service struct {
	store      *store
	httpClient *client
	limiter    ratelimit.Limiter

	lock     *sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewService returns a SecurePubSub notifying every subscriber with an HTTP
// POST request. Subscriptions are persisted in the given dir, or kept in
// memory if empty. Deliveries are throttled to rateLimit requests per second,
// a non positive value disables throttling.
func NewService(
	datadir string, requestTimeout time.Duration, rateLimit int,
	logger badger.Logger,
) (ports.SecurePubSub, error) {
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}
	store, err := newStore(datadir, logger)
	if err != nil {
		return nil, err
	}

	limiter := ratelimit.NewUnlimited()
	if rateLimit > 0 {
		limiter = ratelimit.New(rateLimit)
	}

	return &service{
		store:      store,
		httpClient: newHTTPClient(requestTimeout),
		limiter:    limiter,
		lock:       &sync.Mutex{},
		breakers:   make(map[string]*gobreaker.CircuitBreaker),
	}, nil
}

func (ws *service) Subscribe(topic, endpoint, secret string) (string, error) {
	sub, err := NewSubscription(topic, endpoint, secret)
	if err != nil {
		return "", err
	}
	if err := ws.store.add(*sub); err != nil {
		return "", err
	}
	return sub.ID, nil
}

func (ws *service) Unsubscribe(_, id string) error {
	return ws.store.remove(id)
}

func (ws *service) ListSubscriptionsForTopic(topic string) []ports.Subscription {
	return ws.listSubscriptionsForTopic(topic).toPortable()
}

// Publish notifies all subscribers of the topic, and those of any topic, in
// parallel. The first delivery error is returned once all requests are done.
func (ws *service) Publish(topic string, message string) error {
	subs := ws.listSubscriptionsForTopic(topic)

	eg := &errgroup.Group{}
	for i := range subs {
		sub := subs[i]
		eg.Go(func() error {
			if err := ws.doRequest(sub, topic, message); err != nil {
				return fmt.Errorf("webhook %s: %w", sub.ID, err)
			}
			return nil
		})
	}
	return eg.Wait()
}

func (ws *service) Close() error {
	return ws.store.close()
}

func (ws *service) listSubscriptionsForTopic(topic string) subscriptions {
	subs, err := ws.store.list(topic)
	if err != nil {
		log.WithError(err).Warnf("pubsub: failed to list subscriptions for %s", topic)
		return nil
	}
	if topic != ports.AnyTopic && topic != ports.UnspecifiedTopic {
		subsForAnyTopic, err := ws.store.list(ports.AnyTopic)
		if err != nil {
			log.WithError(err).Warn("pubsub: failed to list subscriptions for any topic")
		}
		subs = append(subs, subsForAnyTopic...)
	}
	return subs
}

// breakerFor returns the circuit breaker of the endpoint, so that an
// unreachable endpoint doesn't stop deliveries to the others.
func (ws *service) breakerFor(endpoint string) *gobreaker.CircuitBreaker {
	ws.lock.Lock()
	defer ws.lock.Unlock()

	cb, ok := ws.breakers[endpoint]
	if !ok {
		cb = circuitbreaker.NewCircuitBreaker(endpoint)
		ws.breakers[endpoint] = cb
	}
	return cb
}

func (ws *service) doRequest(sub Subscription, topic, payload string) error {
	ws.limiter.Take()

	_, err := ws.breakerFor(sub.Endpoint).Execute(func() (interface{}, error) {
		headers := map[string]string{
			"Content-Type": "application/json",
		}
		if sub.IsSecured() {
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
				"iat":   time.Now().Unix(),
				"topic": topic,
			})
			tokenString, err := token.SignedString([]byte(sub.Secret))
			if err != nil {
				return nil, err
			}
			headers["Authorization"] = fmt.Sprintf("Bearer %s", tokenString)
		}

		status, resp, err := ws.httpClient.post(sub.Endpoint, payload, headers)
		if err != nil {
			return nil, err
		}
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return nil, fmt.Errorf("endpoint replied with status %d: %s", status, resp)
		}
		return nil, nil
	})

	return err
}
