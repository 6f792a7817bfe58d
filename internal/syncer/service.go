// Package syncer mirrors API endpoints: it fetches each endpoint, skips
// documents that did not change, and publishes the rest.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/estecon/estecon-client/internal/domain"
	"github.com/estecon/estecon-client/internal/logger"
	"github.com/estecon/estecon-client/pkg/endpoints"
	"github.com/estecon/estecon-client/pkg/fetcher"
	"github.com/estecon/estecon-client/pkg/publishers"
	"golang.org/x/time/rate"
)

// Result summarizes one sync pass.
type Result struct {
	Fetched   int
	Unchanged int
	Published int
	Failed    int
}

// Service coordinates syncing across endpoints.
type Service struct {
	df        fetcher.DataFetcher
	urlFor    func(string) string
	publisher EventPublisher
	tracker   Tracker
	limiter   *rate.Limiter
	log       logger.Logger
}

// Options tunes a Service.
type Options struct {
	// RequestDelay is the minimum spacing between two endpoint fetches.
	RequestDelay time.Duration
	// URLFor renders the absolute URL recorded on snapshots.
	URLFor func(endpoint string) string
}

// NewService wires a syncer. A nil tracker publishes every fetch; nil log discards.
func NewService(df fetcher.DataFetcher, pub EventPublisher, tracker Tracker, log logger.Logger, opts Options) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	limit := rate.Inf
	if opts.RequestDelay > 0 {
		limit = rate.Every(opts.RequestDelay)
	}
	urlFor := opts.URLFor
	if urlFor == nil {
		urlFor = func(endpoint string) string { return endpoint }
	}
	return &Service{
		df:        df,
		urlFor:    urlFor,
		publisher: pub,
		tracker:   tracker,
		limiter:   rate.NewLimiter(limit, 1),
		log:       log,
	}
}

// Run executes a sync pass over eps. Per-endpoint failures are joined;
// cancellation stops the pass early without an error. A deadline that is
// too close for the next paced request also stops the pass, and is
// reported.
func (s *Service) Run(ctx context.Context, eps []endpoints.Endpoint) (Result, error) {
	if s == nil || s.df == nil {
		return Result{}, fmt.Errorf("sync service is not initialized")
	}
	if len(eps) == 0 {
		return Result{}, fmt.Errorf("no endpoints configured for syncing")
	}

	var (
		res  Result
		errs []error
	)
	for i, ep := range eps {
		if err := s.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			skipped := len(eps) - i
			res.Failed += skipped
			errs = append(errs, fmt.Errorf("pacing stopped before endpoint %s (%d skipped): %w", ep.ID, skipped, err))
			s.log.ErrorObj("sync pass stopped by pacing", "endpoint_error", map[string]any{
				"endpoint_id": ep.ID,
				"skipped":     skipped,
				"error":       err.Error(),
			})
			break
		}

		published, err := s.syncEndpoint(ctx, ep, &res)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			res.Failed++
			errs = append(errs, err)
			s.log.ErrorObj("endpoint sync failed", "endpoint_error", map[string]any{
				"endpoint_id": ep.ID,
				"error":       err.Error(),
			})
			continue
		}
		s.log.InfoObj("endpoint sync completed", "endpoint_result", map[string]any{
			"endpoint_id": ep.ID,
			"published":   published,
		})
	}

	return res, errors.Join(errs...)
}

func (s *Service) syncEndpoint(ctx context.Context, ep endpoints.Endpoint, res *Result) (bool, error) {
	body, err := fetcher.FetchRaw(ctx, s.df, ep.Path)
	if err != nil {
		return false, fmt.Errorf("fetch endpoint %s: %w", ep.ID, err)
	}
	res.Fetched++

	snap := domain.NewSnapshot(ep.ID, s.urlFor(ep.Path), body)
	if s.unchanged(snap) {
		res.Unchanged++
		return false, nil
	}

	if s.publisher == nil {
		return false, nil
	}
	successes, err := s.publisher.Publish(ctx, publishers.NewEvent(ep.ID, ep.Name, snap))
	if successes > 0 {
		res.Published++
		s.remember(snap)
	}
	if err != nil {
		return successes > 0, fmt.Errorf("publish endpoint %s: %w", ep.ID, err)
	}
	return successes > 0, nil
}

// unchanged treats lookup failures as a change so a broken store never blocks publishing.
func (s *Service) unchanged(snap domain.Snapshot) bool {
	if s.tracker == nil {
		return false
	}
	last, err := s.tracker.LastDigest(snap.EndpointID)
	if err != nil {
		s.log.WarnObj("snapshot lookup failed", "tracker_error", map[string]any{
			"endpoint_id": snap.EndpointID,
			"error":       err.Error(),
		})
		return false
	}
	return last == snap.Digest
}

func (s *Service) remember(snap domain.Snapshot) {
	if s.tracker == nil {
		return
	}
	if err := s.tracker.Remember(snap); err != nil {
		s.log.WarnObj("snapshot record failed", "tracker_error", map[string]any{
			"endpoint_id": snap.EndpointID,
			"digest":      snap.Digest,
			"error":       err.Error(),
		})
	}
}
