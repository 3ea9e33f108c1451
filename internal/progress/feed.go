package progress

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Feed decorates a Store with live per-book queries. Every write that goes
// through the Feed re-reads the affected book and pushes the fresh record set
// to its subscribers. Writes made to the underlying Store directly are not seen.
type Feed struct {
	store  Store
	logger *slog.Logger

	mu     sync.Mutex
	subs   map[string]map[*Subscription]struct{}
	locks  map[string]*bookLock
	closed bool
}

// bookLock orders the reads and deliveries of one book, so a snapshot
// delivered later is never older than one delivered before it.
type bookLock struct {
	mu   sync.Mutex
	refs int
}

// NewFeed wraps store. A nil logger uses slog.Default().
func NewFeed(store Store, logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{
		store:  store,
		logger: logger,
		subs:   make(map[string]map[*Subscription]struct{}),
		locks:  make(map[string]*bookLock),
	}
}

// Subscription is a live view of one book's sessions. C receives the full
// record set on subscribe and after every change. A slow reader only ever
// gets the latest set. C is closed by Cancel.
type Subscription struct {
	C <-chan []Progress

	bookID string
	feed   *Feed
	ch     chan []Progress
	mu     sync.Mutex
	done   bool
	stop   func() bool
}

// Subscribe opens a live query for bookID. The subscription ends when ctx
// is done or Cancel is called.
func (f *Feed) Subscribe(ctx context.Context, bookID string) (*Subscription, error) {
	ch := make(chan []Progress, 1)
	sub := &Subscription{C: ch, bookID: bookID, feed: f, ch: ch}

	// Register before reading so a write landing in between still reaches sub.
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, ErrSubscriptionClosed
	}
	if f.subs[bookID] == nil {
		f.subs[bookID] = make(map[*Subscription]struct{})
	}
	f.subs[bookID][sub] = struct{}{}
	f.mu.Unlock()

	unlock := f.lockBook(bookID)
	records, err := f.store.ListByBook(ctx, bookID)
	if err == nil {
		sub.deliver(records)
	}
	unlock()
	if err != nil {
		f.remove(sub)
		return nil, err
	}

	stop := context.AfterFunc(ctx, sub.Cancel)
	sub.mu.Lock()
	sub.stop = stop
	sub.mu.Unlock()
	return sub, nil
}

// Cancel ends the subscription and closes C. It is safe to call more than once.
func (s *Subscription) Cancel() {
	s.feed.remove(s)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	s.done = true
	close(s.ch)
	if s.stop != nil {
		s.stop()
	}
}

func (s *Subscription) deliver(records []Progress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	// Replace a snapshot the reader has not picked up yet.
	select {
	case <-s.ch:
	default:
	}
	s.ch <- records
}

func (f *Feed) remove(s *Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if set, ok := f.subs[s.bookID]; ok {
		delete(set, s)
		if len(set) == 0 {
			delete(f.subs, s.bookID)
		}
	}
}

func (f *Feed) subscribers(bookID string) []*Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	set := f.subs[bookID]
	out := make([]*Subscription, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	return out
}

func (f *Feed) lockBook(bookID string) (unlock func()) {
	f.mu.Lock()
	l := f.locks[bookID]
	if l == nil {
		l = &bookLock{}
		f.locks[bookID] = l
	}
	l.refs++
	f.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		f.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(f.locks, bookID)
		}
		f.mu.Unlock()
	}
}

// publish re-reads bookID and pushes the result. A failed read is logged and
// subscribers keep their previous snapshot.
func (f *Feed) publish(ctx context.Context, bookID string) {
	if len(f.subscribers(bookID)) == 0 {
		return
	}
	unlock := f.lockBook(bookID)
	defer unlock()

	records, err := f.store.ListByBook(context.WithoutCancel(ctx), bookID)
	if err != nil {
		f.logger.WarnContext(ctx, "refresh live progress query failed", "book_id", bookID, "error", err)
		return
	}
	for _, s := range f.subscribers(bookID) {
		s.deliver(records)
	}
}

// Close cancels every subscription. Later Subscribe calls fail.
func (f *Feed) Close() {
	f.mu.Lock()
	f.closed = true
	var all []*Subscription
	for _, set := range f.subs {
		for s := range set {
			all = append(all, s)
		}
	}
	f.mu.Unlock()

	for _, s := range all {
		s.Cancel()
	}
}

func (f *Feed) Insert(ctx context.Context, p *Progress) error {
	if err := f.store.Insert(ctx, p); err != nil {
		return err
	}
	f.publish(ctx, p.BookID)
	return nil
}

func (f *Feed) ListByBook(ctx context.Context, bookID string) ([]Progress, error) {
	return f.store.ListByBook(ctx, bookID)
}

func (f *Feed) SumMinutesSince(ctx context.Context, since time.Time) (*int, error) {
	return f.store.SumMinutesSince(ctx, since)
}

func (f *Feed) SumPagesSince(ctx context.Context, since time.Time) (*int, error) {
	return f.store.SumPagesSince(ctx, since)
}

func (f *Feed) DeleteByBook(ctx context.Context, bookID string) error {
	if err := f.store.DeleteByBook(ctx, bookID); err != nil {
		return err
	}
	f.publish(ctx, bookID)
	return nil
}
