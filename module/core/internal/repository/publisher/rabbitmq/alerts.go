package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/rfakeeh/sheap-app/module/core/domain"
	"github.com/rfakeeh/sheap-app/module/core/internal/repository/publisher"
)

var _ publisher.AlertNotifier = (*AlertPublisher)(nil)

const (
	exchangeName = "sheap.events"
	queueName    = "geofence_alerts"
)

type AlertPublisher struct {
	ch *amqp.Channel
}

func NewAlertPublisher(conn *amqp.Connection) (*AlertPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchangeName, "fanout", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(queueName, "", exchangeName, false, nil); err != nil {
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	return &AlertPublisher{ch: ch}, nil
}

type alertMessage struct {
	GroupID        string  `json:"group_id"`
	MemberID       string  `json:"member_id"`
	DistanceMeters float64 `json:"distance_meters"`
	Timestamp      int64   `json:"timestamp"`
}

func (p *AlertPublisher) NotifyOutsideGeofence(ctx context.Context, alert *domain.GeofenceAlert) error {
	msg := alertMessage{
		GroupID:        alert.GroupID,
		MemberID:       alert.MemberID,
		DistanceMeters: alert.DistanceMeters,
		Timestamp:      alert.Timestamp,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	return p.ch.PublishWithContext(ctx, exchangeName, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}
