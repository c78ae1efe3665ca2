package pubsub_test

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/chro-network/chro-marketplace/internal/core/ports"
	pubsub "github.com/chro-network/chro-marketplace/internal/infrastructure/pubsub"
	"github.com/chro-network/chro-marketplace/pkg/circuitbreaker"
	"github.com/golang-jwt/jwt"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"
)

const testMessage = `{"event":"ITEM_SOLD","item":{"id":1,"seller":"seller","buyer":"buyer","sale_price":300}}`

type request struct {
	path    string
	payload string
	topic   string
}

// testWebServer records every notification received and verifies the
// bearer token of the secured endpoints.
type testWebServer struct {
	*httptest.Server
	lock     sync.Mutex
	secrets  map[string]string
	requests []request
}

func newTestWebServer(t *testing.T) *testWebServer {
	srv := &testWebServer{secrets: make(map[string]string)}
	srv.Server = httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				http.Error(w, "Bad method", http.StatusMethodNotAllowed)
				return
			}
			if r.Header.Get("Content-Type") != "application/json" {
				http.Error(w, "Missing Content-Type header", http.StatusUnsupportedMediaType)
				return
			}
			if strings.HasPrefix(r.URL.Path, "/failing") {
				http.Error(w, "Unavailable", http.StatusServiceUnavailable)
				return
			}

			srv.lock.Lock()
			secret, secured := srv.secrets[r.URL.Path]
			srv.lock.Unlock()

			var topic string
			if secured {
				auth := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
				token, err := jwt.Parse(auth, func(token *jwt.Token) (interface{}, error) {
					if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
						return nil, fmt.Errorf("unexpected signing method")
					}
					return []byte(secret), nil
				})
				if err != nil || !token.Valid {
					http.Error(w, "Unauthorized", http.StatusUnauthorized)
					return
				}
				topic, _ = token.Claims.(jwt.MapClaims)["topic"].(string)
			}

			defer r.Body.Close()
			payload, _ := io.ReadAll(r.Body)

			srv.lock.Lock()
			srv.requests = append(srv.requests, request{r.URL.Path, string(payload), topic})
			srv.lock.Unlock()
			fmt.Fprintf(w, "Done")
		},
	))
	t.Cleanup(srv.Close)
	return srv
}

func (s *testWebServer) endpoint(path string) string {
	return s.URL + path
}

func (s *testWebServer) secure(path, secret string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.secrets[path] = secret
}

func (s *testWebServer) received(path string) []request {
	s.lock.Lock()
	defer s.lock.Unlock()
	list := make([]request, 0)
	for _, r := range s.requests {
		if r.path == path {
			list = append(list, r)
		}
	}
	return list
}

func newTestService(t *testing.T, datadir string) ports.SecurePubSub {
	svc, err := pubsub.NewService(datadir, time.Second, 0, log.New())
	require.NoError(t, err)
	return svc
}

func TestPubSubService(t *testing.T) {
	server := newTestWebServer(t)
	pubsubSvc := newTestService(t, "")
	t.Cleanup(func() {
		//nolint
		pubsubSvc.Close()
	})

	secret := randomSecret()
	server.secure("/secured", secret)

	testSubs := []struct {
		topic    string
		endpoint string
		secret   string
	}{
		{"ITEM_SOLD", server.endpoint("/sold"), ""},
		{"ITEM_SOLD", server.endpoint("/secured"), secret},
		{"ITEM_CREATED", server.endpoint("/created"), ""},
		{ports.AnyTopic, server.endpoint("/allevents"), ""},
	}
	ids := make([]string, 0, len(testSubs))
	for _, sub := range testSubs {
		id, err := pubsubSvc.Subscribe(sub.topic, sub.endpoint, sub.secret)
		require.NoError(t, err)
		require.NotEmpty(t, id)
		ids = append(ids, id)
	}

	subs := pubsubSvc.ListSubscriptionsForTopic("ITEM_SOLD")
	require.Len(t, subs, 3)
	secured := 0
	for _, sub := range subs {
		require.NotEmpty(t, sub.Id())
		if sub.IsSecured() {
			secured++
		}
	}
	require.Equal(t, 1, secured)
	require.Len(t, pubsubSvc.ListSubscriptionsForTopic(ports.AnyTopic), 1)
	require.Len(t, pubsubSvc.ListSubscriptionsForTopic(ports.UnspecifiedTopic), 4)

	// Should invoke hooks for the topic and those for any topic.
	require.NoError(t, pubsubSvc.Publish("ITEM_SOLD", testMessage))
	require.Len(t, server.received("/sold"), 1)
	require.Len(t, server.received("/allevents"), 1)
	require.Empty(t, server.received("/created"))

	securedRequests := server.received("/secured")
	require.Len(t, securedRequests, 1)
	require.Equal(t, testMessage, securedRequests[0].payload)
	require.Equal(t, "ITEM_SOLD", securedRequests[0].topic)

	for i, id := range ids {
		require.NoError(t, pubsubSvc.Unsubscribe(ports.UnspecifiedTopic, id))
		subs := pubsubSvc.ListSubscriptionsForTopic(ports.UnspecifiedTopic)
		require.Len(t, subs, len(ids)-1-i)
	}
	err := pubsubSvc.Unsubscribe(ports.UnspecifiedTopic, ids[0])
	require.ErrorIs(t, err, domain.ErrNotFound)

	// Checks that it's all ok if there are no hooks to invoke.
	require.NoError(t, pubsubSvc.Publish("ITEM_SOLD", testMessage))
	require.Len(t, server.received("/sold"), 1)
}

func TestPersistedSubscriptions(t *testing.T) {
	datadir := t.TempDir()

	pubsubSvc := newTestService(t, datadir)
	id, err := pubsubSvc.Subscribe("ITEM_SOLD", "http://localhost:8080/hook", "")
	require.NoError(t, err)
	require.NoError(t, pubsubSvc.Close())

	pubsubSvc = newTestService(t, datadir)
	defer pubsubSvc.Close()

	subs := pubsubSvc.ListSubscriptionsForTopic("ITEM_SOLD")
	require.Len(t, subs, 1)
	require.Equal(t, id, subs[0].Id())
	require.Equal(t, "http://localhost:8080/hook", subs[0].NotifyAt())
}

func TestFailingPubSubService(t *testing.T) {
	server := newTestWebServer(t)
	pubsubSvc := newTestService(t, "")
	defer pubsubSvc.Close()

	t.Run("invalid_subscription", func(t *testing.T) {
		_, err := pubsubSvc.Subscribe("", server.endpoint("/sold"), "")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = pubsubSvc.Subscribe("ITEM_SOLD", "not an url", "")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = pubsubSvc.Subscribe("ITEM_SOLD", "ftp://localhost/hook", "")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("failing_endpoint", func(t *testing.T) {
		_, err := pubsubSvc.Subscribe("ITEM_SOLD", server.endpoint("/sold"), "")
		require.NoError(t, err)
		_, err = pubsubSvc.Subscribe("ITEM_SOLD", server.endpoint("/failing"), "")
		require.NoError(t, err)

		err = pubsubSvc.Publish("ITEM_SOLD", testMessage)
		require.Error(t, err)
		require.Contains(t, err.Error(), "503")

		// Healthy subscribers are notified anyway.
		require.Len(t, server.received("/sold"), 1)
	})
}

func TestCircuitBreakerPerEndpoint(t *testing.T) {
	server := newTestWebServer(t)
	pubsubSvc := newTestService(t, "")
	defer pubsubSvc.Close()

	for _, path := range []string{"/cancelled", "/failing", "/failing-too"} {
		_, err := pubsubSvc.Subscribe("ITEM_CANCELLED", server.endpoint(path), "")
		require.NoError(t, err)
	}

	for i := 0; i <= circuitbreaker.MaxNumOfFailingRequests; i++ {
		err := pubsubSvc.Publish("ITEM_CANCELLED", testMessage)
		require.Error(t, err)
	}

	// Both failing endpoints are cut off, the healthy one is still notified.
	err := pubsubSvc.Publish("ITEM_CANCELLED", testMessage)
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	require.Len(t, server.received("/cancelled"), circuitbreaker.MaxNumOfFailingRequests+2)
}

func randomSecret() string {
	b := make([]byte, 32)
	//nolint
	rand.Read(b)
	return hex.EncodeToString(b)
}
