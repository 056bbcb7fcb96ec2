package compare

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/execdiff/internal/execlog"
)

// Source is one execution log awaiting parsing: a display name (typically
// the file path or base name) and the log's full byte content.
type Source struct {
	Name string
	Data []byte
}

// ProgressFunc observes parse progress for one log: the byte offset reached
// so far out of total bytes.
type ProgressFunc func(log string, offset, total int)

// Session holds two or more loaded execution logs and answers artifact
// queries across them. All fields are read-only after Load returns, so a
// Session is safe for concurrent use.
type Session struct {
	token  string
	logs   []*execlog.Log
	logger *zap.Logger
}

// Option configures a Session load.
type Option func(*loadOptions)

type loadOptions struct {
	logger   *zap.Logger
	progress ProgressFunc
	workers  int
}

// WithLogger attaches a logger for load-time diagnostics (ambiguous-output
// warnings, per-log timing at debug level).
func WithLogger(l *zap.Logger) Option {
	return func(o *loadOptions) { o.logger = l }
}

// WithProgress installs a parse-progress observer.
func WithProgress(fn ProgressFunc) Option {
	return func(o *loadOptions) { o.progress = fn }
}

// WithWorkers caps how many logs parse concurrently. Zero or negative means
// one goroutine per log.
func WithWorkers(n int) Option {
	return func(o *loadOptions) { o.workers = n }
}

// Load parses all sources in parallel and builds one index per log. A parse
// failure in any log fails the whole load with that log's *execlog.ParseError:
// a comparison session cannot proceed without every log.
//
// At least two logs are required; comparing a log against itself is legal
// but comparing fewer than two is a usage error.
func Load(ctx context.Context, sources []Source, opts ...Option) (*Session, error) {
	if len(sources) < 2 {
		return nil, fmt.Errorf("at least 2 execution logs are required, got %d", len(sources))
	}

	o := loadOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Session{
		token: uuid.Must(uuid.NewV7()).String(),
		logs:  make([]*execlog.Log, len(sources)),
	}
	s.logger = o.logger.With(zap.String("session", s.token))

	g, _ := errgroup.WithContext(ctx)
	if o.workers > 0 {
		g.SetLimit(o.workers)
	}
	for i, src := range sources {
		g.Go(func() error {
			var progress func(offset int)
			if o.progress != nil {
				progress = func(offset int) { o.progress(src.Name, offset, len(src.Data)) }
			}
			start := time.Now()
			log, err := execlog.ParseLog(src.Name, src.Data, progress)
			if err != nil {
				return err
			}
			s.logger.Debug("log parsed",
				zap.String("log", src.Name),
				zap.Int("actions", len(log.Records)),
				zap.Int("outputs", log.Index.Len()),
				zap.Duration("elapsed", time.Since(start)),
			)
			s.logs[i] = log
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, log := range s.logs {
		if amb := log.Index.Ambiguous(); len(amb) > 0 {
			s.logger.Warn("outputs produced by multiple actions",
				zap.String("log", log.Name),
				zap.Strings("outputs", amb),
			)
		}
	}

	return s, nil
}

// Token returns the session's unique identifier.
func (s *Session) Token() string {
	return s.token
}

// Logs returns the loaded logs in load order.
func (s *Session) Logs() []*execlog.Log {
	return s.logs
}

// LogNames returns the log names in load order.
func (s *Session) LogNames() []string {
	names := make([]string, len(s.logs))
	for i, l := range s.logs {
		names[i] = l.Name
	}
	return names
}

// Lookup returns the artifact's ActionRecord from every log, in load order.
// If any log's index lacks the artifact, the whole lookup fails with a
// *execlog.NotFoundError naming the logs it is missing from; no partial
// result is returned.
func (s *Session) Lookup(artifact string) ([]*execlog.ActionRecord, error) {
	records := make([]*execlog.ActionRecord, len(s.logs))
	var missing []string
	for i, log := range s.logs {
		rec, ok := log.Index.Lookup(artifact)
		if !ok {
			missing = append(missing, log.Name)
			continue
		}
		records[i] = rec
	}
	if len(missing) > 0 {
		return nil, &execlog.NotFoundError{Artifact: artifact, Missing: missing}
	}
	return records, nil
}

// Compare runs the field-level comparison for one artifact across all logs.
// Absence from any log yields the lookup's *execlog.NotFoundError.
func (s *Session) Compare(artifact string) (Mismatches, error) {
	records, err := s.Lookup(artifact)
	if err != nil {
		return Mismatches{}, err
	}
	return Compare(artifact, records), nil
}

// Suggest returns up to limit output paths from the first log's index that
// fuzzy-match the given pattern, best matches first. It exists for
// presentation-layer "did you mean" hints and performs no comparison.
func (s *Session) Suggest(pattern string, limit int) []string {
	return suggest(s.logs[0].Index.Outputs(), pattern, limit)
}
