package kafka

import (
	"context"

	"github.com/go-slark/baton/pkg/routine"
	tracing "github.com/go-slark/baton/pkg/trace"
)

// KafkaClient bundles a producer and a consumer group behind one handle.
type KafkaClient struct {
	*KafkaProducer
	*KafkaConsumerGroup
}

func NewKafkaClient(conf *KafkaConf, opts ...tracing.Option) (*KafkaClient, error) {
	producer, err := NewKafkaProducer(conf.Producer, opts...)
	if err != nil {
		return nil, err
	}
	consumer, err := NewKafkaConsumer(conf.ConsumerGroup, opts...)
	if err != nil {
		producer.Close()
		return nil, err
	}
	return &KafkaClient{
		KafkaProducer:      producer,
		KafkaConsumerGroup: consumer,
	}, nil
}

func (k *KafkaClient) AsyncProduce(ctx context.Context, topic, key string, msg []byte) error {
	return k.AsyncSend(ctx, topic, key, msg)
}

func (k *KafkaClient) SyncProduce(ctx context.Context, topic, key string, msg []byte) error {
	return k.SyncSend(ctx, topic, key, msg)
}

func (k *KafkaClient) Consume() error {
	routine.GoSafe(context.TODO(), k.KafkaConsumerGroup.Consume)
	return nil
}

type queue interface {
	Produce(ctx context.Context, topic, key string, msg []byte) error
	Consume() error
}

func (k *KafkaClient) Produce(ctx context.Context, topic, key string, msg []byte) error {
	return k.AsyncSend(ctx, topic, key, msg)
}

var _ queue = &KafkaClient{}
