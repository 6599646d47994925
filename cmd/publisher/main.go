package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type locationMessage struct {
	PhoneNumber string  `json:"phone_number"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Timestamp   int64   `json:"timestamp"`
}

// Mock center matching the default seed group, Riyadh.
const (
	centerLat = 24.7136
	centerLon = 46.6753
)

func randomPhoneNumber() string {
	return fmt.Sprintf("+9665%08d", rand.Intn(100000000))
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <interval_seconds>\n", os.Args[0])
		os.Exit(1)
	}

	intervalSec, err := strconv.Atoi(os.Args[1])
	if err != nil || intervalSec <= 0 {
		fmt.Fprintf(os.Stderr, "error: interval must be a positive integer\n")
		os.Exit(1)
	}

	broker := "tcp://localhost:1883"
	if v := os.Getenv("MQTT_BROKER"); v != "" {
		broker = v
	}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("sheap-mock-device")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("mqtt connect: %v", token.Error())
	}
	defer client.Disconnect(250)

	memberPool := make([]string, 5)
	for i := range memberPool {
		memberPool[i] = randomPhoneNumber()
	}

	log.Printf("connected to %s, publishing every %ds...", broker, intervalSec)
	log.Printf("member pool: %v", memberPool)

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		phone := memberPool[rand.Intn(len(memberPool))]

		// 60% chance near the center, otherwise well outside the fence so
		// both sides of a crossing show up over time.
		var lat, lon float64
		if rand.Float64() < 0.6 {
			lat = centerLat + (rand.Float64()-0.5)*0.0005 // ~50m drift
			lon = centerLon + (rand.Float64()-0.5)*0.0005
		} else {
			lat = centerLat + 0.05 + rand.Float64()*0.01 // several km out
			lon = centerLon + 0.05 + rand.Float64()*0.01
		}

		msg := locationMessage{
			PhoneNumber: phone,
			Latitude:    lat,
			Longitude:   lon,
			Timestamp:   time.Now().Unix(),
		}

		payload, _ := json.Marshal(msg)
		topic := fmt.Sprintf("/sheap/member/%s/location", phone)

		token := client.Publish(topic, 1, false, payload)
		token.Wait()

		log.Printf("published to %s: %s", topic, payload)
	}
}
