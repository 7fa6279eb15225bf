package service

import (
	"context"
	"testing"
	"time"
	"totaro-checkout/internal/event"
	"totaro-checkout/internal/model"
)

type deadlinePublisher struct {
	deadline time.Time
	bounded  bool
}

func (p *deadlinePublisher) Publish(ctx context.Context, _ event.OrderEvent) error {
	p.deadline, p.bounded = ctx.Deadline()
	return nil
}

func TestAnnouncePublishesWithDeadline(t *testing.T) {
	t.Parallel()

	pub := &deadlinePublisher{}
	s := newOrderSyncer(nil, nil, nil, pub, nil)

	start := time.Now()
	s.announce(context.Background(), model.OrderPaid, &syncResult{
		Order:   &model.Order{OrderID: "ORDER_1", Status: model.OrderCancelled},
		Changed: true,
	})

	if !pub.bounded {
		t.Fatal("Expected publish context to carry a deadline")
	}
	if pub.deadline.After(start.Add(publishTimeout + time.Second)) {
		t.Errorf("Expected deadline within %s, got %s", publishTimeout, pub.deadline.Sub(start))
	}
}
