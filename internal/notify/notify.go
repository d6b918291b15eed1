// Package notify publishes notifications about changed listings to a message broker
package notify

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/derWhity/fyyur/internal/log"
)

// EventType names the kind of change a ListingEvent reports
type EventType string

const (
	// VenueListed is sent when a new venue has been created
	VenueListed EventType = "venue.listed"
	// VenueUpdated is sent when the data of a venue has been changed
	VenueUpdated EventType = "venue.updated"
	// VenueRemoved is sent when a venue has been deleted together with its shows
	VenueRemoved EventType = "venue.removed"
	// ArtistListed is sent when a new artist has been created
	ArtistListed EventType = "artist.listed"
	// ArtistUpdated is sent when the data of an artist has been changed
	ArtistUpdated EventType = "artist.updated"
	// ShowListed is sent when a new show has been created
	ShowListed EventType = "show.listed"
)

// ListingEvent is the message body published for every committed change
type ListingEvent struct {
	Type EventType `json:"type"`
	// ID of the venue, artist or show that has been changed
	ID   uint   `json:"id"`
	Name string `json:"name,omitempty"`
	// Only set for shows
	ArtistID uint `json:"artist_id,omitempty"`
	VenueID  uint `json:"venue_id,omitempty"`
	// Point in time the change has been committed
	At time.Time `json:"at"`
}

// Publisher sends listing events to interested parties
type Publisher interface {
	Publish(ctx context.Context, ev ListingEvent) error
	Close() error
}

// -- No-op publisher --------------------------------------------------------------------------------------------------

type nopPublisher struct{}

// Nop returns a publisher that silently drops every event
func Nop() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, ListingEvent) error { return nil }
func (nopPublisher) Close() error                                 { return nil }

// -- AMQP publisher ---------------------------------------------------------------------------------------------------

// AMQPPublisher publishes listing events as persistent JSON messages into a durable queue
type AMQPPublisher struct {
	mtx    sync.Mutex
	conn   *amqp.Connection
	ch     *amqp.Channel
	queue  string
	logger *logrus.Entry
}

// NewAMQP connects to the broker at the given URL and declares the queue events are published to
func NewAMQP(url, queue string, logger *logrus.Entry) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "NewAMQP: Failed to connect to broker")
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "NewAMQP: Failed to open channel")
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, errors.Wrapf(err, "NewAMQP: Failed to declare queue '%s'", queue)
	}
	return &AMQPPublisher{
		conn:   conn,
		ch:     ch,
		queue:  queue,
		logger: logger.WithField(log.FldQueue, queue),
	}, nil
}

// Publish sends the event to the queue using the default exchange
func (p *AMQPPublisher) Publish(ctx context.Context, ev ListingEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "Publish: Failed to serialize listing event")
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ev.At,
		Type:         string(ev.Type),
		Body:         body,
	}
	p.mtx.Lock()
	defer p.mtx.Unlock()
	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		return errors.Wrapf(err, "Publish: Failed to publish %s event", ev.Type)
	}
	p.logger.WithFields(logrus.Fields{
		log.FldEvent: ev.Type,
		log.FldID:    ev.ID,
	}).Debug("Listing event published")
	return nil
}

// Close shuts down the channel and the broker connection
func (p *AMQPPublisher) Close() error {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return errors.Wrap(err, "Close: Failed to close channel")
	}
	return p.conn.Close()
}
