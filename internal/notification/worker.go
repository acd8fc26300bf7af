package notification

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	log "github.com/sirupsen/logrus"

	"repairshop-backend/internal/metrics"
	"repairshop-backend/internal/model"
	"repairshop-backend/internal/store"
)

// queueSlack is how many jobs may wait per worker before Dispatch drops.
const queueSlack = 32

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Job is a status change to announce to the followers of a repair.
type Job struct {
	RepairID int64
	Status   model.RepairStatus
}

// WorkerPool manages a pool of workers for sending notifications.
type WorkerPool struct {
	size    int
	jobs    chan Job
	store   store.Store
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, s store.Store, webpushOptions *webpush.Options) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Job, size*queueSlack),
		store:   s,
		webpush: webpushOptions,
		sender:  &WebPushSender{}, // Use the real sender by default
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.WithField("worker", id).Debug("notification worker started")
	for {
		select {
		case job := <-wp.jobs:
			wp.sendNotificationsForRepair(ctx, job)
		case <-ctx.Done():
			log.WithField("worker", id).Debug("notification worker shutting down")
			return
		}
	}
}

// Dispatch queues a status change. It never blocks the caller: when the
// queue is full the notification is dropped and logged.
func (wp *WorkerPool) Dispatch(repairID int64, status model.RepairStatus) {
	select {
	case wp.jobs <- Job{RepairID: repairID, Status: status}:
	default:
		log.WithField("repair_id", repairID).Warn("notification queue full; dropping status notification")
	}
}

// Message is the push payload announcing a status change.
func Message(repairID int64, status model.RepairStatus) string {
	return fmt.Sprintf("Réparation #%d : %s", repairID, status)
}

// sendNotificationsForRepair fetches subscriptions and notifies each of them.
func (wp *WorkerPool) sendNotificationsForRepair(ctx context.Context, job Job) {
	subscriptions, err := wp.store.SubscriptionsForRepair(ctx, job.RepairID)
	if err != nil {
		log.WithError(err).WithField("repair_id", job.RepairID).Error("failed to fetch subscriptions")
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	log.WithFields(log.Fields{
		"repair_id":     job.RepairID,
		"subscriptions": len(subscriptions),
	}).Info("sending status notifications")

	payload := []byte(Message(job.RepairID, job.Status))
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		metrics.RecordPush("failed")
		log.WithError(err).WithField("endpoint", sub.Endpoint).Warn("failed to send notification")
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		metrics.RecordPush("expired")
		log.WithField("endpoint", sub.Endpoint).Info("subscription expired; deleting")
		if err := wp.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			log.WithError(err).WithField("endpoint", sub.Endpoint).Error("failed to delete expired subscription")
		}
		return
	}
	metrics.RecordPush("sent")
}
