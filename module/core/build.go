package core

import (
	"database/sql"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"

	handler "github.com/rfakeeh/sheap-app/module/core/internal/handler/http"
	"github.com/rfakeeh/sheap-app/module/core/internal/handler/subscriber"
	"github.com/rfakeeh/sheap-app/module/core/internal/repository/database/postgres"
	"github.com/rfakeeh/sheap-app/module/core/internal/repository/publisher"
	"github.com/rfakeeh/sheap-app/module/core/internal/repository/publisher/lognotifier"
	"github.com/rfakeeh/sheap-app/module/core/internal/repository/publisher/rabbitmq"
	"github.com/rfakeeh/sheap-app/module/core/service"
)

type Module struct {
	MemberSvc   *service.MemberService
	GeofenceSvc *service.GeofenceService
	handler     *handler.GroupHandler
	subscriber  *subscriber.LocationSubscriber
}

// Build wires the core. A nil amqpConn downgrades alert delivery to the
// log-sink notifier, the stand-in for the real push channel.
func Build(db *sql.DB, amqpConn *amqp.Connection, mqttClient mqtt.Client) (*Module, error) {
	directory := postgres.NewDirectory(db)
	statuses := postgres.NewStatusStore(db)

	var notifier publisher.AlertNotifier = lognotifier.New()
	if amqpConn != nil {
		pub, err := rabbitmq.NewAlertPublisher(amqpConn)
		if err != nil {
			return nil, fmt.Errorf("alert publisher: %w", err)
		}
		notifier = pub
	}

	memberSvc := service.NewMemberService(directory, statuses)
	geofenceSvc := service.NewGeofenceService(directory, statuses, notifier)

	h := handler.NewGroupHandler(memberSvc)
	sub := subscriber.NewLocationSubscriber(mqttClient, memberSvc, geofenceSvc)

	return &Module{
		MemberSvc:   memberSvc,
		GeofenceSvc: geofenceSvc,
		handler:     h,
		subscriber:  sub,
	}, nil
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	m.handler.Register(r)
}

func (m *Module) StartSubscribers() error {
	return m.subscriber.Start()
}
