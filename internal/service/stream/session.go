package stream

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"pitchvault/internal/domain"
	"pitchvault/internal/service/notification"
)

// Factory builds per-actor stream sessions sharing one Redis client and
// notification service.
type Factory struct {
	rdb          *redis.Client
	notifSvc     notification.Service
	pollInterval time.Duration
}

func NewFactory(rdb *redis.Client, notifSvc notification.Service, pollInterval time.Duration) *Factory {
	return &Factory{rdb: rdb, notifSvc: notifSvc, pollInterval: pollInterval}
}

func (f *Factory) Open(parent context.Context, actorID uuid.UUID) *Session {
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		actorID:  actorID,
		rdb:      f.rdb,
		notifSvc: f.notifSvc,
		dedup:    notification.NewDeduplicator(),
		out:      make(chan domain.Notification, 64),
		cancel:   cancel,
	}

	s.wg.Add(2)
	go s.consume(ctx)
	go s.poll(ctx, f.pollInterval)

	return s
}

// Session is one viewing actor's subscription to the real-time stream: one
// Pub/Sub subscription, one fallback polling ticker, both stopped by Close.
// The dedup set and unread accounting live here, scoped to the session;
// there is no process-wide notification state.
type Session struct {
	actorID  uuid.UUID
	rdb      *redis.Client
	notifSvc notification.Service
	dedup    *notification.Deduplicator
	out      chan domain.Notification
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	once     sync.Once

	mu             sync.Mutex
	serverUnread   int64
	streamedUnread int64
}

// Notifications is the delivery channel; closed after Close.
func (s *Session) Notifications() <-chan domain.Notification {
	return s.out
}

// UnreadCount reconciles the two inputs additively: the last polled
// server-known count plus stream deliveries seen since that poll. The session
// never owns an authoritative counter.
func (s *Session) UnreadCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serverUnread + s.streamedUnread
}

// Close unsubscribes and stops all state writes. Safe to call more than once.
func (s *Session) Close() {
	s.once.Do(func() {
		s.cancel()
		s.wg.Wait()
		close(s.out)
	})
}

func (s *Session) consume(ctx context.Context) {
	defer s.wg.Done()

	// go-redis re-establishes the Pub/Sub connection itself with backoff;
	// transport errors are not surfaced to the caller as fatal.
	sub := s.rdb.Subscribe(ctx, ChannelFor(s.actorID))
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			s.handle(ctx, msg.Payload)
		}
	}
}

// handle runs the synchronous pipeline for one inbound event: translate,
// dedup, annotate, deliver. Events are processed in arrival order with no
// reordering.
func (s *Session) handle(ctx context.Context, payload string) {
	var env domain.Envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		log.Printf("stream: malformed envelope for %s: %v", s.actorID, err)
		return
	}

	n := notification.Translate(env, s.actorID, time.Now())
	if n == nil {
		return
	}

	key := env.DedupKey()
	if key == "" {
		key = n.ID.String()
	}
	if !s.dedup.ShouldDeliver(key) {
		return
	}

	deliver, err := s.notifSvc.Annotate(ctx, s.actorID, n)
	if err != nil {
		log.Printf("stream: annotate for %s: %v", s.actorID, err)
		deliver = true
	}
	if !deliver {
		return
	}

	if !n.IsRead {
		s.mu.Lock()
		s.streamedUnread++
		s.mu.Unlock()
	}

	select {
	case s.out <- *n:
	case <-ctx.Done():
	default:
		// Consumer stalled; dropping beats blocking the receive path. The
		// polling fallback re-derives anything missed.
	}
}

// poll is the fallback input: it refreshes the server-known unread count and
// resets the stream-side delta, since the server projection now covers those
// deliveries.
func (s *Session) poll(ctx context.Context, interval time.Duration) {
	defer s.wg.Done()

	if interval <= 0 {
		interval = 30 * time.Second
	}

	s.refresh(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *Session) refresh(ctx context.Context) {
	count, err := s.notifSvc.UnreadCount(ctx, s.actorID)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.serverUnread = count
	s.streamedUnread = 0
	s.mu.Unlock()
}
