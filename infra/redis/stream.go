package redis

import (
	"context"
	"strings"
	"time"

	"github.com/go-slark/baton/header"
	"github.com/go-slark/baton/logger"
	utils "github.com/go-slark/baton/pkg"
	"github.com/go-slark/baton/pkg/retry"
	"github.com/go-slark/baton/pkg/routine"
	tracing "github.com/go-slark/baton/pkg/trace"
	"github.com/go-slark/baton/propagation"
	"github.com/go-slark/baton/transport"
	stream "github.com/go-slark/baton/transport/redis"
	"github.com/redis/go-redis/v9"
	"github.com/rs/xid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const payloadField = "payload"

type StreamProducerConf struct {
	Stream      string `mapstructure:"stream"`
	MaxLen      int64  `mapstructure:"max_len"`
	Retry       int    `mapstructure:"retry"`
	TraceEnable bool   `mapstructure:"trace_enable"`
}

type StreamProducer struct {
	client *Client
	conf   *StreamProducerConf
	logger.Logger
	*tracing.Tracer
	headers *propagation.Propagation
	retry   *retry.Option
}

func NewStreamProducer(client *Client, conf *StreamProducerConf, opts ...tracing.Option) *StreamProducer {
	attempts := conf.Retry
	if attempts <= 0 {
		attempts = 1
	}
	sp := &StreamProducer{
		client:  client,
		conf:    conf,
		Logger:  logger.GetLogger(),
		headers: propagation.New(),
		retry:   retry.NewOption(retry.Retry(attempts), retry.Function(retry.Fixed), retry.Delay(100*time.Millisecond)),
	}
	if conf.TraceEnable {
		sp.Tracer = tracing.NewTracer(trace.SpanKindProducer, opts...)
	}
	return sp
}

// requestID keeps a correlation id on every entry even when tracing is off.
func (sp *StreamProducer) requestID(ctx context.Context) string {
	id, ok := ctx.Value(utils.TraceID).(string)
	if ok && id != "" {
		return id
	}
	return utils.BuildRequestID()
}

func (sp *StreamProducer) Produce(ctx context.Context, msg []byte) (string, error) {
	carrier := stream.NewCarrier(map[string]interface{}{payloadField: string(msg)})
	sp.headers.Set(carrier, utils.TraceID, sp.requestID(ctx))
	if sp.Tracer != nil {
		opt := []trace.SpanStartOption{
			trace.WithSpanKind(sp.Kind()),
			trace.WithAttributes(attribute.String("mq_stream", sp.conf.Stream)),
		}
		var span trace.Span
		ctx, span = sp.Start(ctx, "redis stream produce", carrier, opt...)
		defer span.End()
	}
	args := &redis.XAddArgs{
		Stream: sp.conf.Stream,
		Values: carrier.Values(),
	}
	if sp.conf.MaxLen > 0 {
		args.MaxLen = sp.conf.MaxLen
		args.Approx = true
	}
	var id string
	err := sp.retry.Retry(func() error {
		var xe error
		id, xe = sp.client.XAdd(ctx, args).Result()
		return xe
	})
	return id, err
}

type Consume interface {
	Handler(context.Context, *redis.XMessage) error
}

type StreamConsumerConf struct {
	Stream      string        `mapstructure:"stream"`
	Group       string        `mapstructure:"group"`
	Consumer    string        `mapstructure:"consumer"`
	Count       int64         `mapstructure:"count"`
	Block       time.Duration `mapstructure:"block"`
	Worker      int           `mapstructure:"worker"`
	DeadLetter  string        `mapstructure:"dead_letter"`
	TraceEnable bool          `mapstructure:"trace_enable"`
}

type StreamConsumer struct {
	client *Client
	conf   *StreamConsumerConf
	context.Context
	context.CancelFunc
	logger.Logger
	*tracing.Tracer
	headers *propagation.Propagation
	handler Consume
	worker  chan struct{}
	retry   *retry.Option
}

func NewStreamConsumer(client *Client, conf *StreamConsumerConf, handler Consume, opts ...tracing.Option) (*StreamConsumer, error) {
	if conf.Consumer == "" {
		conf.Consumer = xid.New().String()
	}
	if conf.Worker <= 0 {
		conf.Worker = 1
	}
	sc := &StreamConsumer{
		client:  client,
		conf:    conf,
		Logger:  logger.GetLogger(),
		headers: propagation.New(),
		handler: handler,
		worker:  make(chan struct{}, conf.Worker),
		retry:   retry.NewOption(retry.Retry(3), retry.Function(retry.Fixed), retry.Delay(100*time.Millisecond)),
	}
	if conf.TraceEnable {
		sc.Tracer = tracing.NewTracer(trace.SpanKindConsumer, opts...)
	}
	sc.Context, sc.CancelFunc = context.WithCancel(context.TODO())
	err := client.XGroupCreateMkStream(sc.Context, conf.Stream, conf.Group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return nil, err
	}
	return sc, nil
}

func (sc *StreamConsumer) consume() {
	for {
		if sc.Context.Err() != nil {
			sc.Log(sc.Context, logger.ErrorLevel, map[string]interface{}{"error": sc.Context.Err()}, "stream consumer exit")
			return
		}
		streams, err := sc.client.XReadGroup(sc.Context, &redis.XReadGroupArgs{
			Group:    sc.conf.Group,
			Consumer: sc.conf.Consumer,
			Streams:  []string{sc.conf.Stream, ">"},
			Count:    sc.conf.Count,
			Block:    sc.conf.Block * time.Millisecond,
		}).Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			sc.Log(sc.Context, logger.WarnLevel, map[string]interface{}{"error": err}, "stream consumer read fail")
			time.Sleep(time.Second)
			continue
		}
		for _, s := range streams {
			for _, msg := range s.Messages {
				sc.worker <- struct{}{}
				m := msg
				routine.GoSafe(sc.Context, func() {
					defer func() {
						<-sc.worker
					}()
					sc.dispatch(&m)
				})
			}
		}
	}
}

func (sc *StreamConsumer) dispatch(m *redis.XMessage) {
	ctx := context.Background()
	carrier := stream.FromMessage(m)
	// lift the correlation id the producer stamped
	rid := sc.headers.Get(carrier, utils.TraceID)
	if len(rid) == 0 {
		rid = utils.BuildRequestID()
	}
	ctx = context.WithValue(ctx, utils.TraceID, rid)
	var span trace.Span
	if sc.Tracer != nil {
		opt := []trace.SpanStartOption{
			trace.WithSpanKind(sc.Kind()),
			trace.WithAttributes(attribute.String("mq_stream", sc.conf.Stream), attribute.String("mq_msg_id", m.ID)),
		}
		ctx, span = sc.Tracer.Start(ctx, "redis stream consume", carrier, opt...)
		defer span.End()
	}
	ctx = header.NewContext(ctx, carrier)
	ctx = transport.NewServerContext(ctx, stream.NewTransport(sc.conf.Stream, carrier))
	err := sc.handler.Handler(ctx, m)
	if err != nil {
		if span != nil {
			span.RecordError(err)
		}
		sc.Log(ctx, logger.ErrorLevel, map[string]interface{}{"error": err, "stream": sc.conf.Stream, "id": m.ID}, "stream consume msg fail")
		sc.deadLetter(ctx, m)
	}
	err = sc.client.XAck(ctx, sc.conf.Stream, sc.conf.Group, m.ID).Err()
	if err != nil {
		sc.Log(ctx, logger.ErrorLevel, map[string]interface{}{"error": err, "id": m.ID}, "stream ack fail")
	}
}

// deadLetter forwards the failed entry with its trace headers so the
// failure stays on the original trace.
func (sc *StreamConsumer) deadLetter(ctx context.Context, m *redis.XMessage) {
	if sc.conf.DeadLetter == "" {
		return
	}
	keys := append(sc.headers.Keys(), utils.TraceID)
	values := propagation.PropagationHeaders(m.Values, keys)
	if payload, ok := m.Values[payloadField]; ok {
		values[payloadField] = payload
	}
	values["origin"] = sc.conf.Stream
	values["origin_id"] = m.ID
	err := sc.retry.Retry(func() error {
		return sc.client.XAdd(ctx, &redis.XAddArgs{
			Stream: sc.conf.DeadLetter,
			Values: values,
		}).Err()
	})
	if err != nil {
		sc.Log(ctx, logger.ErrorLevel, map[string]interface{}{"error": err, "id": m.ID}, "stream dead letter fail")
	}
}

func (sc *StreamConsumer) Start() error {
	sc.consume()
	return nil
}

func (sc *StreamConsumer) Stop(_ context.Context) error {
	sc.CancelFunc()
	return nil
}
