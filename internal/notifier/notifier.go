package notifier

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

const QueueName = "notify_queue"

// AMQPNotifier 把通知消息发到消息队列里，由 notifier worker 消费后发送邮件
type AMQPNotifier struct {
	cfg     *config.Config
	channel *amqp.Channel
}

func NewAMQPNotifier(cfg *config.Config, channel *amqp.Channel) *AMQPNotifier {
	return &AMQPNotifier{
		cfg:     cfg,
		channel: channel,
	}
}

func (n *AMQPNotifier) NotifyPublished(msg *domain.NotifyMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(n.cfg.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return n.channel.PublishWithContext(
		ctx,
		"",
		QueueName,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        payload,
		},
	)
}
