package service

import (
	"context"
	"encoding/json"

	"design-team-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IPublisherService interface {
	// PublishSessionEvent fans an appended event out on the bus. Failures
	// are the caller's to log; publication is auxiliary and must never
	// fail the append it follows.
	PublishSessionEvent(ctx context.Context, evt events.SessionEvent) error
}

type publisherService struct {
	pubSub *gochannel.GoChannel
	topic  string
}

func NewPublisherService(pubSub *gochannel.GoChannel, topic string) IPublisherService {
	return &publisherService{
		pubSub: pubSub,
		topic:  topic,
	}
}

func (p *publisherService) PublishSessionEvent(ctx context.Context, evt events.SessionEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return p.pubSub.Publish(p.topic, msg)
}
