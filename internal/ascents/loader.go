package ascents

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/bekirdag/cragbook/internal/auth"
)

// Source fetches the signed-in climber's ascents for a crag.
type Source interface {
	CragSummary(ctx context.Context, cragID string) ([]Record, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, cragID string) ([]Record, error)

func (f SourceFunc) CragSummary(ctx context.Context, cragID string) ([]Record, error) {
	return f(ctx, cragID)
}

// Request identifies one fetch. Results are only applied while their request
// is the latest one.
type Request struct {
	CragID string
	Seq    uint64

	ctx context.Context
}

type Result struct {
	CragID  string
	Seq     uint64
	Records []Record
	Err     error
}

// Loader gates the summary fetch on a signed-in climber and a known crag and
// keeps the overlay built from the latest result.
type Loader struct {
	src Source
	log *slog.Logger

	mu      sync.Mutex
	armed   bool
	cragID  string
	seq     uint64
	cancel  context.CancelFunc
	loading bool
	overlay Overlay
	err     error
}

func NewLoader(src Source, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{
		src:     src,
		log:     log.With(slog.String("component", "ascents")),
		overlay: Empty(),
	}
}

// Arm enables fetching once the climber is signed in. Signing out later does
// not disarm. It reports whether this call armed the loader.
func (l *Loader) Arm(st auth.Status) bool {
	if !st.LoggedIn {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.armed {
		return false
	}
	l.armed = true
	return true
}

func (l *Loader) Armed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.armed
}

// SetCrag switches the crag. An in-flight fetch for the previous crag is
// cancelled and its result will be ignored; the overlay is cleared since it
// belongs to another crag.
func (l *Loader) SetCrag(cragID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cragID == l.cragID {
		return
	}
	l.cragID = cragID
	l.seq++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.loading = false
	l.overlay = Empty()
	l.err = nil
}

// Begin starts a fetch when the loader is armed and a crag is set. A fetch
// still in flight is cancelled.
func (l *Loader) Begin(ctx context.Context) (Request, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.armed || l.cragID == "" || l.src == nil {
		return Request{}, false
	}
	if l.cancel != nil {
		l.cancel()
	}
	l.seq++
	reqCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.loading = true
	return Request{CragID: l.cragID, Seq: l.seq, ctx: reqCtx}, true
}

// Fetch runs the request against the source. It blocks and does not touch
// the loader state; pass the result to Resolve.
func (l *Loader) Fetch(req Request) Result {
	ctx := req.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	records, err := l.src.CragSummary(ctx, req.CragID)
	return Result{CragID: req.CragID, Seq: req.Seq, Records: records, Err: err}
}

// Resolve applies a result if it answers the latest request. A failed fetch
// leaves an empty overlay. It reports whether the result was applied.
func (l *Loader) Resolve(res Result) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if res.Seq != l.seq || res.CragID != l.cragID {
		l.log.Debug("dropping stale ascent summary", slog.String("crag", res.CragID), slog.Uint64("seq", res.Seq))
		return false
	}
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.loading = false
	if res.Err != nil {
		if !errors.Is(res.Err, context.Canceled) {
			l.log.Warn("ascent summary fetch failed", slog.String("crag", res.CragID), slog.Any("error", res.Err))
		}
		l.overlay = Empty()
		l.err = res.Err
		return true
	}
	l.overlay = Build(res.Records)
	l.err = nil
	l.log.Debug("ascent summary loaded", slog.String("crag", res.CragID), slog.Int("routes", l.overlay.Len()))
	return true
}

// Load runs Begin, Fetch and Resolve synchronously. It returns the current
// overlay, unchanged when the loader is not ready to fetch.
func (l *Loader) Load(ctx context.Context) (Overlay, error) {
	req, ok := l.Begin(ctx)
	if !ok {
		return l.Overlay(), nil
	}
	res := l.Fetch(req)
	l.Resolve(res)
	return l.Overlay(), res.Err
}

func (l *Loader) Overlay() Overlay {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.overlay
}

func (l *Loader) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// Err is the error of the last applied result.
func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close cancels any fetch in flight.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.seq++
	l.loading = false
}
