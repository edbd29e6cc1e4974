package probe

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/samvad-hq/samvad-api-relay/internal/domain"
	"github.com/samvad-hq/samvad-api-relay/internal/logger"
	"github.com/samvad-hq/samvad-api-relay/pkg/notify"
	"github.com/samvad-hq/samvad-api-relay/pkg/relay"
)

// Caller dispatches envelope calls; *relay.Client satisfies it.
type Caller interface {
	Do(ctx context.Context, req relay.Request) (*relay.Envelope, error)
}

// Sink receives the notices the probe raises; the notify fanout satisfies it.
type Sink interface {
	Notify(ctx context.Context, n notify.Notice) error
}

// Service checks configured targets through the dispatcher and raises notices
// for targets that stop answering healthy envelopes.
type Service struct {
	caller Caller
	sink   Sink
	log    logger.Logger
}

// NewService wires a probe service over the dispatcher.
func NewService(caller Caller, sink Sink, log logger.Logger) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Service{caller: caller, sink: sink, log: log}
}

// Run executes one probe pass across all targets.
func (s *Service) Run(ctx context.Context, targets []Target) ([]domain.TargetStatus, error) {
	if s == nil || s.caller == nil {
		return nil, fmt.Errorf("probe service is not initialized")
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no targets configured for probing")
	}

	statuses := make([]domain.TargetStatus, 0, len(targets))
	var errs []error
	for _, t := range targets {
		select {
		case <-ctx.Done():
			return statuses, ctx.Err()
		default:
		}

		st := s.check(ctx, t)
		statuses = append(statuses, st)
		if !st.Healthy {
			errs = append(errs, fmt.Errorf("target %s unhealthy: %s", t.ID, st.Detail))
		}
	}
	return statuses, errors.Join(errs...)
}

// check probes one target and reports its status. The probe owns its own
// messaging, so the dispatcher is asked not to notify; failures the
// dispatcher already surfaced elsewhere are not raised twice.
func (s *Service) check(ctx context.Context, t Target) domain.TargetStatus {
	start := time.Now()
	env, err := s.caller.Do(ctx, t.request())
	st := domain.TargetStatus{
		TargetID:  t.ID,
		ElapsedMS: time.Since(start).Milliseconds(),
	}

	if err != nil {
		st.Detail = err.Error()
		s.log.ErrorObj("target check failed", "target_error", map[string]any{
			"target_id": t.ID,
			"error":     err.Error(),
		})
		if !relay.Notified(err) {
			s.raise(ctx, t, err)
		}
		return st
	}

	if t.ExpectData && len(env.Data) == 0 {
		st.Detail = "success envelope carried no data"
		s.log.WarnObj("target check degraded", "target_result", map[string]any{
			"target_id": t.ID,
			"detail":    st.Detail,
		})
		return st
	}

	st.Healthy = true
	s.log.DebugObj("target check passed", "target_result", map[string]any{
		"target_id":  t.ID,
		"elapsed_ms": st.ElapsedMS,
	})
	return st
}

// raise surfaces a target failure through the notice sink.
func (s *Service) raise(ctx context.Context, t Target, callErr error) {
	if s.sink == nil {
		return
	}

	msg := fmt.Sprintf("endpoint check failed for %s", t.Name)
	var ce *relay.CallError
	if errors.As(callErr, &ce) && ce.Msg != "" {
		msg = fmt.Sprintf("endpoint check failed for %s: %s", t.Name, ce.Msg)
	}

	n := notify.NewNotice(msg, notify.LevelWarn)
	if err := s.sink.Notify(ctx, n); err != nil {
		s.log.WarnObj("probe notice delivery failed", "notify_error", map[string]any{
			"target_id": t.ID,
			"error":     err.Error(),
		})
	}
}

// request builds the dispatcher descriptor for one probe call.
func (t Target) request() relay.Request {
	req := relay.Request{
		Method:     t.Method,
		Path:       t.Path,
		SkipNotify: true,
	}
	if len(t.Query) > 0 {
		q := url.Values{}
		for k, v := range t.Query {
			q.Set(k, v)
		}
		req.Query = q
	}
	if len(t.Body) > 0 {
		req.Body = t.Body
	}
	return req
}
