//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/brave-warrior/routecache/internal/application"
	"github.com/brave-warrior/routecache/internal/client"
	"github.com/brave-warrior/routecache/internal/database"
	"github.com/brave-warrior/routecache/internal/events"
	"github.com/brave-warrior/routecache/internal/kafka"
	"github.com/brave-warrior/routecache/internal/parser"
	"github.com/brave-warrior/routecache/internal/repository"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// routeStack holds wired-up route cache components.
type routeStack struct {
	Service         *application.RouteService
	Consumer        *events.RefreshRequestConsumer
	CleanupProducer func()
}

const directionsFixture = `{
  "status": "OK",
  "routes": [{
    "summary": "M01",
    "copyrights": "Map data",
    "bounds": {"northeast": {"lat": 50.52, "lng": 30.81}, "southwest": {"lat": 50.44, "lng": 30.52}},
    "overview_polyline": {"points": "_p~iF~ps|U_ulLnnqC_mqNvxq` + "`" + `@"},
    "legs": [{
      "distance": {"value": 24300},
      "duration": {"value": 1860},
      "start_address": "Kyiv, Ukraine",
      "end_address": "Brovary, Ukraine",
      "start_location": {"lat": 50.45, "lng": 30.52},
      "end_location": {"lat": 50.51, "lng": 30.80},
      "steps": [
        {"distance": {"value": 12000}, "duration": {"value": 900}, "travel_mode": "DRIVING",
         "html_instructions": "Head east", "polyline": {"points": "_p~iF~ps|U"},
         "start_location": {"lat": 50.45, "lng": 30.52}, "end_location": {"lat": 50.47, "lng": 30.66}},
        {"distance": {"value": 12300}, "duration": {"value": 960}, "travel_mode": "DRIVING",
         "html_instructions": "Continue onto M01", "polyline": {"points": "_ulLnnqC"},
         "start_location": {"lat": 50.47, "lng": 30.66}, "end_location": {"lat": 50.51, "lng": 30.80}}
      ]
    }]
  }]
}`

// setupContainers starts PostgreSQL and Kafka testcontainers and returns a
// database with the cache schema in place.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_routecache",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := database.Config{
		Driver:   database.DriverPostgres,
		Host:     pgHost,
		Port:     pgPort.Port(),
		User:     "test",
		Password: "test",
		DBName:   "test_routecache",
		SSLMode:  "disable",
	}

	// Poll until the database accepts connections.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = database.Open(cfg, zap.NewNop())
		return err == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, repository.EnsureSchema(db, repository.SchemaVersion, zap.NewNop()))

	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, events.TopicRouteEvents, events.TopicRefreshRequests)

	cleanup := func() {
		_ = database.Close(db)
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// startDirectionsServer serves body for every directions request.
func startDirectionsServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("origin") == "" {
			http.Error(w, "missing origin", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// setupRouteStack wires the route service to the database, the stub
// directions server and Kafka.
func setupRouteStack(t *testing.T, db *gorm.DB, brokers []string, directionsURL string) *routeStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	producer := kafka.NewProducer(brokers, logger)
	publisher := events.NewRouteEventPublisher(producer, logger)

	c := client.New(client.Config{
		DirectionsURL:   directionsURL,
		AutocompleteURL: directionsURL,
		Timeout:         5 * time.Second,
	}, logger)
	svc := application.NewRouteService(repository.NewGormRouteRepository(db), c, parser.New(logger), publisher, logger)

	groupID := fmt.Sprintf("test-routecache-%s", uuid.New().String()[:8])
	consumer := events.NewRefreshRequestConsumer(brokers, groupID, svc, logger)

	return &routeStack{
		Service:         svc,
		Consumer:        consumer,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// publishTestEvent publishes a CloudEvent to Kafka.
func publishTestEvent(t *testing.T, brokers []string, topic, key, eventType string, data any) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	producer := kafka.NewProducer(brokers, logger)
	defer func() { _ = producer.Close() }()

	ce, err := kafka.NewCloudEvent("integration-test", eventType, data)
	require.NoError(t, err, "failed to create cloud event")

	err = producer.PublishEvent(context.Background(), topic, key, ce)
	require.NoError(t, err, "failed to publish event")
}

// waitForRouteCount polls the routes table until it holds want rows.
func waitForRouteCount(t *testing.T, db *gorm.DB, want int64, timeout time.Duration) {
	t.Helper()
	require.Eventually(t, func() bool {
		var n int64
		if err := db.Model(&repository.RouteModel{}).Count(&n).Error; err != nil {
			return false
		}
		return n == want
	}, timeout, 200*time.Millisecond, "route cache never reached %d rows", want)
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	require.NoError(t, controllerConn.CreateTopics(topicConfigs...), "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
