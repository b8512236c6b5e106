package service

import (
	"encoding/json"
	"log"

	"cineconnect/internal/util"
	"cineconnect/internal/websocket"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ActivityWorker consumes activity events from RabbitMQ and pushes them to
// the WebSocket hub for realtime delivery.
type ActivityWorker struct {
	rabbitMQ *util.RabbitMQClient
	wsHub    *websocket.Hub
	stopChan chan bool
}

func NewActivityWorker(rabbitMQ *util.RabbitMQClient, wsHub *websocket.Hub) *ActivityWorker {
	return &ActivityWorker{
		rabbitMQ: rabbitMQ,
		wsHub:    wsHub,
		stopChan: make(chan bool),
	}
}

// Start declares the activity queue, binds it and starts consuming.
func (w *ActivityWorker) Start() error {
	if w.rabbitMQ == nil {
		return nil // broker not available, worker will not start
	}

	channel := w.rabbitMQ.GetChannel()
	if channel == nil {
		return nil
	}

	queue, err := channel.QueueDeclare(
		util.ActivityQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	if err := channel.QueueBind(
		queue.Name,
		util.ActivityRoutingKey,
		util.ActivityExchange,
		false,
		nil,
	); err != nil {
		return err
	}

	msgs, err := channel.Consume(
		queue.Name,
		"activity_worker",
		false, // auto-ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	go func() {
		log.Println("Activity worker started, consuming events...")
		for {
			select {
			case <-w.stopChan:
				log.Println("Activity worker stopped")
				return
			case msg, ok := <-msgs:
				if !ok {
					log.Println("Activity queue closed")
					return
				}
				if err := w.processEvent(msg); err != nil {
					log.Printf("Error processing activity event: %v", err)
					msg.Nack(false, true)
				} else {
					msg.Ack(false)
				}
			}
		}
	}()

	return nil
}

func (w *ActivityWorker) processEvent(msg amqp.Delivery) error {
	var event ActivityEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return err
	}

	if w.wsHub != nil {
		w.wsHub.BroadcastToUser(event.UserID, event.Type, map[string]interface{}{
			"actor":         event.Actor,
			"friendship_id": event.FriendshipID,
			"created_at":    event.CreatedAt,
		})
	}

	return nil
}

// Stop stops the activity worker
func (w *ActivityWorker) Stop() {
	close(w.stopChan)
}
