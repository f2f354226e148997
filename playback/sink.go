package playback

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const writeWait = 5 * time.Second

// Sink receives the frames of a playback
type Sink interface {
	Send(Frame) error
}

type SinkFunc func(Frame) error

func (f SinkFunc) Send(frame Frame) error {
	return f(frame)
}

// Sinks sends each frame to every sink, even when one of them fails
type Sinks []Sink

func (s Sinks) Send(frame Frame) error {
	var errs []error
	for _, sink := range s {
		if err := sink.Send(frame); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WebSocket writes frames as JSON messages on a websocket connection
type WebSocket struct {
	lock sync.Mutex
	Conn *websocket.Conn
}

func (w *WebSocket) Send(frame Frame) error {
	return w.WriteJSON(frame)
}

// WriteJSON writes any message, serialized with the frames
func (w *WebSocket) WriteJSON(v interface{}) error {
	w.lock.Lock()
	defer w.lock.Unlock()

	if err := w.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return w.Conn.WriteJSON(v)
}

// MQTT publishes frames as retained JSON messages on a topic
type MQTT struct {
	Client mqtt.Client
	Topic  string
}

func NewMQTT(broker, clientID, topic string) (*MQTT, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetConnectTimeout(writeWait)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("playback: connecting to %s: %w", broker, token.Error())
	}
	log.Infof("Connected to MQTT broker at %s", broker)

	return &MQTT{Client: client, Topic: topic}, nil
}

func (m *MQTT) Send(frame Frame) error {
	payload, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	token := m.Client.Publish(m.Topic, 0, true, payload)
	if !token.WaitTimeout(writeWait) {
		return fmt.Errorf("playback: publish on %s timed out", m.Topic)
	}
	return token.Error()
}

func (m *MQTT) Close() {
	m.Client.Disconnect(250)
}
