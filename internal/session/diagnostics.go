package session

import (
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DiagnosticSink receives extractor error lines that arrive on the snapshot
// channel. They never reach the render path.
type DiagnosticSink interface {
	Diagnostic(line string)
}

type logSink struct {
	log     *zap.Logger
	limiter *rate.Limiter
	dropped int
}

// NewLogSink logs diagnostics at warn, at most perSecond lines per second.
func NewLogSink(log *zap.Logger, perSecond float64, burst int) DiagnosticSink {
	return &logSink{log: log.Named("extractor"), limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (s *logSink) Diagnostic(line string) {
	if !s.limiter.Allow() {
		s.dropped++
		return
	}
	if s.dropped > 0 {
		s.log.Warn("diagnostics suppressed", zap.Int("count", s.dropped))
		s.dropped = 0
	}
	s.log.Warn(line)
}
