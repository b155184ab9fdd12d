package events

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-stats/internal"
	"github.com/antonio-alexander/go-employee-stats/internal/data"
	"github.com/antonio-alexander/go-employee-stats/internal/utilities"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

const (
	headerEventType     string = "event-type"
	headerSource        string = "source"
	headerContentType   string = "content-type"
	headerCorrelationId string = "correlation-id"
)

type kafka struct {
	sync.RWMutex
	utilities.Logger
	producer sarama.SyncProducer
	config   struct {
		brokers  []string
		topic    string
		clientId string
		source   string
	}
}

// NewKafka creates a publisher backed by a sarama sync producer, when no
// brokers are configured (and no producer is provided) events are
// dropped
func NewKafka(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	Publisher
} {
	k := &kafka{Logger: utilities.NewLogger()}
	k.config.topic = "hr.empleados"
	k.config.clientId = "go-employee-stats"
	k.config.source = "go-employee-stats"
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case utilities.Logger:
			k.Logger = p
		case sarama.SyncProducer:
			k.producer = p
		}
	}
	return k
}

func (k *kafka) Configure(envs map[string]string) error {
	k.Lock()
	defer k.Unlock()

	if brokers := envs["KAFKA_BROKERS"]; brokers != "" {
		k.config.brokers = nil
		for _, broker := range strings.Split(brokers, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				k.config.brokers = append(k.config.brokers, broker)
			}
		}
	}
	if topic := envs["KAFKA_TOPIC"]; topic != "" {
		k.config.topic = topic
	}
	if clientId := envs["KAFKA_CLIENT_ID"]; clientId != "" {
		k.config.clientId = clientId
	}
	if source := envs["KAFKA_SOURCE"]; source != "" {
		k.config.source = source
	}
	return nil
}

func (k *kafka) Open(ctx context.Context) error {
	k.Lock()
	defer k.Unlock()

	if k.producer != nil {
		return nil
	}
	if len(k.config.brokers) == 0 {
		k.Info(ctx, "no kafka brokers configured, employee events disabled")
		return nil
	}
	config := sarama.NewConfig()
	config.ClientID = k.config.clientId
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Retry.Backoff = 200 * time.Millisecond
	producer, err := sarama.NewSyncProducer(k.config.brokers, config)
	if err != nil {
		return errors.Wrap(err, "unable to create kafka producer")
	}
	k.producer = producer
	return nil
}

func (k *kafka) Close(ctx context.Context) error {
	k.Lock()
	defer k.Unlock()

	if k.producer == nil {
		return nil
	}
	if err := k.producer.Close(); err != nil {
		k.Error(ctx, "error while closing kafka producer: %s", err)
	}
	k.producer = nil
	return nil
}

func (k *kafka) Publish(ctx context.Context, event *data.EmployeeEvent) error {
	k.RLock()
	defer k.RUnlock()

	if k.producer == nil {
		return nil
	}
	bytes, err := event.MarshalBinary()
	if err != nil {
		return err
	}
	headers := []sarama.RecordHeader{
		{Key: []byte(headerEventType), Value: []byte(event.Type)},
		{Key: []byte(headerSource), Value: []byte(k.config.source)},
		{Key: []byte(headerContentType), Value: []byte("application/json")},
	}
	if event.CorrelationId != "" {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte(headerCorrelationId),
			Value: []byte(event.CorrelationId),
		})
	}
	partition, offset, err := k.producer.SendMessage(&sarama.ProducerMessage{
		Topic:   k.config.topic,
		Key:     sarama.StringEncoder(strconv.FormatInt(event.EmployeeId, 10)),
		Value:   sarama.ByteEncoder(bytes),
		Headers: headers,
	})
	if err != nil {
		return errors.Wrapf(err, "unable to publish %s for employee %d",
			event.Type, event.EmployeeId)
	}
	k.Trace(ctx, "published %s for employee %d (partition: %d, offset: %d)",
		event.Type, event.EmployeeId, partition, offset)
	return nil
}
