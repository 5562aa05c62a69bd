package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/credit-case-service/internal/config"
	"github.com/spec-kit/credit-case-service/internal/domain"
	"github.com/spec-kit/credit-case-service/internal/events"
)

type capturedPublish struct {
	channel string
	payload []byte
}

type fakePublisher struct {
	published []capturedPublish
}

func (f *fakePublisher) Publish(_ context.Context, channel string, payload []byte) error {
	f.published = append(f.published, capturedPublish{channel: channel, payload: payload})
	return nil
}

func TestNotificationServicePublishesStatusChanges(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	publisher := &fakePublisher{}
	svc := NewNotificationService(dispatcher, publisher, zap.NewNop(), config.NotificationConfig{
		EmailFrom:    "noreply@cras.com",
		RedisChannel: "case-events",
	})
	svc.RegisterHandlers()

	event := events.Event{
		Type:      events.EventCaseStatusChanged,
		CaseID:    "case-1",
		Timestamp: time.Now().UTC(),
		Payload: events.CaseStatusChangedPayload{
			OldStage: domain.StagePending,
			NewStage: domain.StageDocumentsVerified,
			Notes:    "verified",
		},
	}
	if err := dispatcher.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(publisher.published) != 1 {
		t.Fatalf("expected 1 published message, got %d", len(publisher.published))
	}
	got := publisher.published[0]
	if got.channel != "case-events" {
		t.Fatalf("channel %s, want case-events", got.channel)
	}
	var decoded events.Event
	if err := json.Unmarshal(got.payload, &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded.CaseID != "case-1" {
		t.Fatalf("case id %s, want case-1", decoded.CaseID)
	}
	if decoded.Type != events.EventCaseStatusChanged {
		t.Fatalf("event type %s, want %s", decoded.Type, events.EventCaseStatusChanged)
	}
}

func TestNotificationServiceSkipsPublishWithoutChannel(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	publisher := &fakePublisher{}
	svc := NewNotificationService(dispatcher, publisher, zap.NewNop(), config.NotificationConfig{})
	svc.RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:   events.EventCaseSubmitted,
		CaseID: "case-2",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(publisher.published) != 0 {
		t.Fatalf("expected no published messages, got %d", len(publisher.published))
	}
}
