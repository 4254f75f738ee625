//go:build integration

package rabbitmq

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_RoutesByKind(t *testing.T) {
	pool, err := dockertest.NewPool("")
	require.NoError(t, err)
	pool.MaxWait = 2 * time.Minute

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "rabbitmq",
		Tag:        "3-alpine",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })

	url := fmt.Sprintf("amqp://guest:guest@%s/", resource.GetHostPort("5672/tcp"))

	var publisher *Publisher
	err = pool.Retry(func() error {
		var err error
		publisher, err = NewPublisher(url, "")
		return err
	})
	require.NoError(t, err)
	t.Cleanup(publisher.Close)

	conn, err := amqp.Dial(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	ch, err := conn.Channel()
	require.NoError(t, err)

	queue, err := ch.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(queue.Name, "ledger.*", DefaultExchange, false, nil))
	deliveries, err := ch.Consume(queue.Name, "", true, true, false, false, nil)
	require.NoError(t, err)

	require.NoError(t, publisher.Publish("participant.joined", map[string]string{"kind": "participant.joined"}))
	require.NoError(t, publisher.Publish("ledger.payment", map[string]string{"kind": "ledger.payment"}))

	select {
	case d := <-deliveries:
		assert.Equal(t, "ledger.payment", d.RoutingKey)
		assert.Equal(t, "application/json", d.ContentType)
		var body map[string]string
		require.NoError(t, json.Unmarshal(d.Body, &body))
		assert.Equal(t, "ledger.payment", body["kind"])
	case <-time.After(10 * time.Second):
		t.Fatal("no message delivered")
	}
}
