package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"resume-extract-go/internal/config"
	"resume-extract-go/internal/logger"
	"resume-extract-go/internal/tracing"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var rabbitTracer = otel.Tracer("resume-extract-go/storage/rabbitmq")

// MessageQueue 消息队列接口
type MessageQueue interface {
	// PublishMessage 发布消息
	PublishMessage(ctx context.Context, exchangeName, routingKey string, message []byte, persistent bool) error

	// PublishJSON 发布JSON格式消息
	PublishJSON(ctx context.Context, exchangeName, routingKey string, data interface{}, persistent bool) error

	// EnsureExchange 确保交换机存在
	EnsureExchange(exchangeName, exchangeType string, durable bool) error

	// Close 关闭连接
	Close() error
}

// 确保RabbitMQ实现了MessageQueue接口
var _ MessageQueue = (*RabbitMQ)(nil)

// RabbitMQ 候选人事件的消息队列客户端
type RabbitMQ struct {
	conn         *amqp.Connection
	channelPool  sync.Pool
	confirmCh    *amqp.Channel   // 确认模式专用通道，惰性创建
	exchangeMap  map[string]bool // 记录已声明的exchange
	publishMutex sync.Mutex      // 保护发布操作
	cfg          *config.RabbitMQConfig
}

// NewRabbitMQ 创建RabbitMQ客户端并声明候选人事件交换机
func NewRabbitMQ(cfg *config.RabbitMQConfig) (*RabbitMQ, error) {
	if cfg == nil {
		return nil, fmt.Errorf("RabbitMQ配置不能为空")
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("RabbitMQ URL配置不能为空")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("无法连接到RabbitMQ服务器 (%s): %w", cfg.URL, err)
	}

	mq := &RabbitMQ{
		conn:        conn,
		exchangeMap: make(map[string]bool),
		cfg:         cfg,
	}

	mq.channelPool = sync.Pool{
		New: func() interface{} {
			ch, errPool := conn.Channel()
			if errPool != nil {
				logger.Error().Err(errPool).Msg("创建RabbitMQ通道失败")
				return nil
			}
			return ch
		},
	}

	// 测试连接和通道
	testCh := mq.getChannel()
	if testCh == nil {
		conn.Close()
		return nil, fmt.Errorf("无法创建RabbitMQ通道")
	}
	mq.putChannel(testCh)

	if err := mq.EnsureExchange(cfg.CandidateExchange, "topic", true); err != nil {
		conn.Close()
		return nil, err
	}

	return mq, nil
}

// getChannel 获取可用通道
func (r *RabbitMQ) getChannel() *amqp.Channel {
	ch := r.channelPool.Get()
	if ch == nil {
		newCh, err := r.conn.Channel()
		if err != nil {
			logger.Error().Err(err).Msg("创建新RabbitMQ通道失败")
			return nil
		}
		return newCh
	}
	return ch.(*amqp.Channel)
}

// putChannel 归还通道到池
func (r *RabbitMQ) putChannel(ch *amqp.Channel) {
	if ch != nil {
		r.channelPool.Put(ch)
	}
}

// Close 关闭连接
func (r *RabbitMQ) Close() error {
	return r.conn.Close()
}

// EnsureExchange 确保exchange存在
func (r *RabbitMQ) EnsureExchange(exchangeName, exchangeType string, durable bool) error {
	if exchangeName == "" {
		return fmt.Errorf("exchange名称不能为空")
	}
	if _, exists := r.exchangeMap[exchangeName]; exists {
		return nil
	}

	ch := r.getChannel()
	if ch == nil {
		return fmt.Errorf("无法获取RabbitMQ通道")
	}
	defer r.putChannel(ch)

	err := ch.ExchangeDeclare(
		exchangeName, // exchange名称
		exchangeType, // exchange类型
		durable,      // 持久化
		false,        // 自动删除
		false,        // 内部专用
		false,        // 非阻塞
		nil,          // 参数
	)
	if err != nil {
		return fmt.Errorf("声明exchange失败: %w", err)
	}

	r.exchangeMap[exchangeName] = true
	return nil
}

// PublishMessage 发布消息到exchange
func (r *RabbitMQ) PublishMessage(ctx context.Context, exchangeName, routingKey string, message []byte, persistent bool) error {
	r.publishMutex.Lock()
	defer r.publishMutex.Unlock()

	ch := r.getChannel()
	if ch == nil {
		return fmt.Errorf("无法获取RabbitMQ通道")
	}
	defer r.putChannel(ch)

	deliveryMode := amqp.Transient
	if persistent {
		deliveryMode = amqp.Persistent
	}

	err := ch.PublishWithContext(ctx,
		exchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: deliveryMode,
			Body:         message,
		},
	)
	if err != nil {
		return fmt.Errorf("发布消息到exchange %s 失败: %w", exchangeName, err)
	}
	return nil
}

// PublishJSON 序列化数据并发布
func (r *RabbitMQ) PublishJSON(ctx context.Context, exchangeName, routingKey string, data interface{}, persistent bool) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("序列化消息失败: %w", err)
	}
	return r.PublishMessage(ctx, exchangeName, routingKey, body, persistent)
}

// confirmChannel 返回开启了发布确认模式的专用通道
// 池中的普通通道不在确认模式，确认通道惰性创建并复用
// 调用方必须持有publishMutex
func (r *RabbitMQ) confirmChannel() (*amqp.Channel, error) {
	if r.confirmCh != nil && !r.confirmCh.IsClosed() {
		return r.confirmCh, nil
	}

	ch, err := r.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("创建确认通道失败: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		ch.Close()
		return nil, fmt.Errorf("开启发布确认模式失败: %w", err)
	}

	r.confirmCh = ch
	return ch, nil
}

// PublishCandidateParsed 发布解析完成事件（持久化消息，等待Broker确认）
// 确认超时由配置publish_timeout_seconds控制
func (r *RabbitMQ) PublishCandidateParsed(ctx context.Context, msg *CandidateParsedMessage) error {
	ctx, span := rabbitTracer.Start(ctx, "publish candidate.parsed",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "rabbitmq"),
			attribute.String("messaging.destination", r.cfg.CandidateExchange),
			attribute.String("messaging.routing_key", r.cfg.CandidateParsedKey),
			attribute.String("candidate.id", msg.JobSeekerID),
			attribute.String("candidate.email", tracing.SafeAttributeValue("email", msg.Email, tracing.DefaultMaxLength)),
		),
	)
	defer span.End()

	body, err := json.Marshal(msg)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeInternal)
		return fmt.Errorf("序列化候选人事件失败: %w", err)
	}

	timeout := time.Duration(r.cfg.PublishTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	r.publishMutex.Lock()
	defer r.publishMutex.Unlock()

	ch, err := r.confirmChannel()
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRabbitMQ)
		return err
	}

	confirmCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	confirmation, err := ch.PublishWithDeferredConfirmWithContext(confirmCtx,
		r.cfg.CandidateExchange,
		r.cfg.CandidateParsedKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.JobSeekerID,
			Body:         body,
		},
	)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRabbitMQ)
		return fmt.Errorf("发布候选人事件失败: %w", err)
	}

	acked, err := confirmation.WaitContext(confirmCtx)
	if err != nil {
		tracing.RecordPublishTimeout(span, msg.JobSeekerID, timeout.String())
		return fmt.Errorf("等待Broker确认候选人事件超时: %w", err)
	}
	if !acked {
		nackErr := fmt.Errorf("Broker拒绝了候选人事件")
		tracing.RecordErrorWithInfo(span, nackErr, tracing.ErrorTypeRabbitMQ,
			attribute.String("messaging.message_id", msg.JobSeekerID),
			attribute.Bool("messaging.rabbitmq.confirmed", false),
		)
		return nackErr
	}

	return nil
}
