package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	cart "github.com/Manubolla/Dummyshop/internal/cart/domain"
	"github.com/Manubolla/Dummyshop/internal/notification/domain"
	"github.com/Manubolla/Dummyshop/internal/platform/logger"
	"github.com/Manubolla/Dummyshop/internal/platform/metrics"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// maxDelivered bounds the inbox; older deliveries are dropped first.
const maxDelivered = 100

// Scheduler holds local notifications until they are due and then moves them
// to an in-memory inbox. Nothing here survives a restart.
type Scheduler struct {
	mu            sync.Mutex
	pending       []domain.Notification
	delivered     []domain.Notification
	checkoutDelay time.Duration
	dispatchSpec  string
	cron          *cron.Cron
	metrics       *metrics.Metrics
	onDeliver     func(domain.Notification)
	now           func() time.Time
}

func NewScheduler(checkoutDelay time.Duration, dispatchSpec string, m *metrics.Metrics) *Scheduler {
	return &Scheduler{
		checkoutDelay: checkoutDelay,
		dispatchSpec:  dispatchSpec,
		cron:          cron.New(cron.WithSeconds()),
		metrics:       m,
		now:           time.Now,
	}
}

// OnDeliver registers fn to be called for every delivered notification.
func (s *Scheduler) OnDeliver(fn func(domain.Notification)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDeliver = fn
}

func (s *Scheduler) Schedule(title, body string, delay time.Duration) domain.Notification {
	n := domain.Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Body:      body,
		DeliverAt: s.now().Add(delay),
	}
	s.mu.Lock()
	s.pending = append(s.pending, n)
	s.mu.Unlock()

	logger.Debug("notification: scheduled", "id", n.ID, "deliver_at", n.DeliverAt)
	return n
}

// OnCheckout queues the order-confirmation notice.
func (s *Scheduler) OnCheckout(_ context.Context, receipt cart.Receipt) {
	n := s.Schedule(domain.CheckoutTitle, domain.CheckoutBody, s.checkoutDelay)
	logger.Info("notification: checkout notice queued", "receipt_id", receipt.ID, "notification_id", n.ID)
}

// DispatchDue delivers every pending notification whose time has come and
// returns them in delivery order.
func (s *Scheduler) DispatchDue(now time.Time) []domain.Notification {
	s.mu.Lock()
	var due []domain.Notification
	remaining := s.pending[:0]
	for _, n := range s.pending {
		if n.Due(now) {
			at := now
			n.DeliveredAt = &at
			due = append(due, n)
			continue
		}
		remaining = append(remaining, n)
	}
	s.pending = remaining
	s.delivered = append(s.delivered, due...)
	if over := len(s.delivered) - maxDelivered; over > 0 {
		s.delivered = slices.Clone(s.delivered[over:])
	}
	onDeliver := s.onDeliver
	s.mu.Unlock()

	for _, n := range due {
		logger.Info("notification: delivered", "id", n.ID, "title", n.Title)
		if s.metrics != nil {
			s.metrics.NotificationsDelivered.Inc()
		}
		if onDeliver != nil {
			onDeliver(n)
		}
	}
	return due
}

func (s *Scheduler) Pending() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.pending)
}

func (s *Scheduler) Delivered() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.delivered)
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.dispatchSpec, func() {
		s.DispatchDue(s.now())
	}); err != nil {
		return fmt.Errorf("notification dispatch spec %q: %w", s.dispatchSpec, err)
	}
	s.cron.Start()
	logger.Info(fmt.Sprintf("Notification dispatcher started with spec '%s' and checkout delay %v", s.dispatchSpec, s.checkoutDelay))
	return nil
}

// Stop waits for a running dispatch to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
