package subscriber

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/rfakeeh/sheap-app/module/core/domain"
	"github.com/rfakeeh/sheap-app/module/core/service"
)

const topicPattern = "/sheap/member/+/location"

type memberService interface {
	SaveLocation(ctx context.Context, phoneNumber string, loc domain.Location) error
}

type geofenceService interface {
	EvaluateMember(ctx context.Context, member *domain.Member) (*service.EvaluationSummary, error)
}

type locationMessage struct {
	PhoneNumber string   `json:"phone_number"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Timestamp   int64    `json:"timestamp"`
}

// LocationSubscriber consumes member location updates, one message per
// device report, and feeds each through the geofence evaluator. Messages
// are safe to redeliver.
type LocationSubscriber struct {
	client      mqtt.Client
	memberSvc   memberService
	geofenceSvc geofenceService
}

func NewLocationSubscriber(client mqtt.Client, memberSvc memberService, geofenceSvc geofenceService) *LocationSubscriber {
	return &LocationSubscriber{
		client:      client,
		memberSvc:   memberSvc,
		geofenceSvc: geofenceSvc,
	}
}

func (s *LocationSubscriber) Start() error {
	token := s.client.Subscribe(topicPattern, 1, s.handleMessage)
	token.Wait()
	return token.Error()
}

func (s *LocationSubscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var raw locationMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		log.Printf("invalid location message: %v", err)
		return
	}

	if err := validateLocationMessage(&raw); err != nil {
		log.Printf("validation error: %v", err)
		return
	}

	loc := domain.Location{
		Lat:       *raw.Latitude,
		Lon:       *raw.Longitude,
		UpdatedAt: time.Unix(raw.Timestamp, 0),
	}

	ctx := context.Background()

	if err := s.memberSvc.SaveLocation(ctx, raw.PhoneNumber, loc); err != nil {
		log.Printf("save location error: %v", err)
		return
	}

	member := &domain.Member{PhoneNumber: raw.PhoneNumber, LastKnown: &loc}
	summary, err := s.geofenceSvc.EvaluateMember(ctx, member)
	if err != nil {
		log.Printf("geofence evaluation error: %v", err)
		return
	}

	log.Printf("[GEOFENCE] member=%s evaluated=%d alerts=%d skipped=%d",
		raw.PhoneNumber, summary.Evaluated, summary.Alerts, len(summary.Skipped))
}

func validateLocationMessage(msg *locationMessage) error {
	if msg.PhoneNumber == "" {
		return fmt.Errorf("phone_number: required")
	}
	if msg.Latitude == nil || msg.Longitude == nil {
		return fmt.Errorf("latitude/longitude: required")
	}
	if *msg.Latitude < -90 || *msg.Latitude > 90 {
		return fmt.Errorf("latitude: must be between -90 and 90")
	}
	if *msg.Longitude < -180 || *msg.Longitude > 180 {
		return fmt.Errorf("longitude: must be between -180 and 180")
	}
	if msg.Timestamp <= 0 {
		return fmt.Errorf("timestamp: must be positive")
	}
	return nil
}
