// Package recommend ranks people and job postings for an alumni network
// member. Each request reads a point-in-time snapshot from the store through
// one dedicated connection and holds no state between requests.
package recommend

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vijay-prabhu/alumnet/internal/database"
	"github.com/vijay-prabhu/alumnet/internal/metrics"
	"github.com/vijay-prabhu/alumnet/internal/semantic"
)

// DefaultCandidateBatch bounds how many opposite-role candidates are scored
// per people request. Candidates past the cap are never considered.
const DefaultCandidateBatch = 50

// PersonRecommendation is one suggested connection
type PersonRecommendation struct {
	ID                int64          `json:"id"`
	Name              string         `json:"name"`
	Role              database.Role  `json:"role"`
	Branch            string         `json:"branch,omitempty"`
	Skills            string         `json:"skills,omitempty"`
	Score             int            `json:"score"`
	ProfilePictureURL string         `json:"profile_picture_url"`
	Contributions     []Contribution `json:"contributions,omitempty"`
}

// JobRecommendation is one suggested job posting
type JobRecommendation struct {
	database.Job
	MatchScore    float64        `json:"match_score"`
	Contributions []Contribution `json:"contributions,omitempty"`
}

// Options configures an Engine
type Options struct {
	CandidateBatch int
	Weights        *Weights
}

// Engine computes recommendations
type Engine struct {
	source Source
	people *PeopleScorer
	jobs   *JobScorer
	batch  int
	logger *zap.Logger
}

// NewEngine creates an engine reading from source. A nil provider disables
// semantic scoring.
func NewEngine(source Source, sim semantic.Provider, opts Options, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	weights := DefaultWeights()
	if opts.Weights != nil {
		weights = *opts.Weights
	}
	batch := opts.CandidateBatch
	if batch <= 0 {
		batch = DefaultCandidateBatch
	}
	return &Engine{
		source: source,
		people: NewPeopleScorer(weights, sim),
		jobs:   NewJobScorer(sim),
		batch:  batch,
		logger: logger,
	}
}

// RecommendPeople returns up to MaxResults opposite-role users the given
// user is not connected to and has no pending request with. A missing user
// or unsupported role yields an empty list.
func (e *Engine) RecommendPeople(ctx context.Context, user *database.User) (recs []PersonRecommendation, err error) {
	if user == nil || user.ID <= 0 || !user.Role.Supported() {
		metrics.RecommendRequests.WithLabelValues(metrics.KindPeople, metrics.OutcomeRejected).Inc()
		return []PersonRecommendation{}, nil
	}

	start := time.Now()
	log := e.requestLogger(metrics.KindPeople, user.ID)
	defer func() { e.observe(metrics.KindPeople, start, err, log) }()

	st, err := e.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer e.release(st, log)

	excl, err := ResolveExclusions(ctx, st, user.ID)
	if err != nil {
		return nil, err
	}

	candidates, err := st.CandidatesByRole(ctx, user.Role.Opposite(), excl.IDs.Sorted(), e.batch)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}

	ids := make([]int64, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	index, err := BuildMutualIndex(ctx, st, ids)
	if err != nil {
		return nil, err
	}

	userSkills := ParseSkills(user.Skills)
	scored := make([]PersonRecommendation, 0, len(candidates))
	dropped := 0
	for _, cand := range candidates {
		if excl.IDs.Has(cand.ID) {
			continue
		}
		res := e.people.Score(ctx, user, userSkills, cand, index.Connections(cand.ID), excl.Connected)
		if res.Score <= 0 {
			dropped++
			continue
		}
		scored = append(scored, PersonRecommendation{
			ID:                cand.ID,
			Name:              cand.Name,
			Role:              cand.Role,
			Branch:            cand.Branch,
			Skills:            cand.Skills,
			Score:             res.Score,
			ProfilePictureURL: profilePicture(cand),
			Contributions:     res.Contributions,
		})
	}

	metrics.CandidatesScored.WithLabelValues(metrics.KindPeople).Add(float64(len(candidates)))
	metrics.CandidatesDropped.WithLabelValues(metrics.KindPeople).Add(float64(dropped))

	recs = TopK(scored, MaxResults, func(r PersonRecommendation) float64 { return float64(r.Score) })
	log.Debug("People recommendations computed",
		zap.Int("excluded", len(excl.IDs)),
		zap.Int("candidates", len(candidates)),
		zap.Int("dropped", dropped),
		zap.Int("returned", len(recs)))

	return recs, nil
}

// RecommendJobs returns up to MaxResults job postings for a student.
// Other roles and a missing user yield an empty list.
func (e *Engine) RecommendJobs(ctx context.Context, user *database.User) (recs []JobRecommendation, err error) {
	if user == nil || user.ID <= 0 || user.Role != database.RoleStudent {
		metrics.RecommendRequests.WithLabelValues(metrics.KindJobs, metrics.OutcomeRejected).Inc()
		return []JobRecommendation{}, nil
	}

	start := time.Now()
	log := e.requestLogger(metrics.KindJobs, user.ID)
	defer func() { e.observe(metrics.KindJobs, start, err, log) }()

	st, err := e.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer e.release(st, log)

	jobs, err := st.JobsWithPoster(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read jobs: %w", err)
	}

	userSkills := ParseSkills(user.Skills)
	scored := make([]JobRecommendation, 0, len(jobs))
	dropped := 0
	for _, job := range jobs {
		res := e.jobs.Score(ctx, user, userSkills, job)
		if res.Match <= 0 {
			dropped++
			continue
		}
		scored = append(scored, JobRecommendation{
			Job:           job,
			MatchScore:    res.Match,
			Contributions: res.Contributions,
		})
	}

	metrics.CandidatesScored.WithLabelValues(metrics.KindJobs).Add(float64(len(jobs)))
	metrics.CandidatesDropped.WithLabelValues(metrics.KindJobs).Add(float64(dropped))

	recs = TopK(scored, MaxResults, func(r JobRecommendation) float64 { return r.MatchScore })
	log.Debug("Job recommendations computed",
		zap.Int("jobs", len(jobs)),
		zap.Int("dropped", dropped),
		zap.Int("returned", len(recs)))

	return recs, nil
}

func (e *Engine) acquire(ctx context.Context) (Store, error) {
	st, err := e.source.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire store: %w", err)
	}
	return timedStore{Store: st}, nil
}

func (e *Engine) release(st Store, log *zap.Logger) {
	if err := st.Close(); err != nil {
		log.Warn("Failed to release store", zap.Error(err))
	}
}

func (e *Engine) requestLogger(kind string, userID int64) *zap.Logger {
	return e.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("kind", kind),
		zap.Int64("user_id", userID),
	)
}

func (e *Engine) observe(kind string, start time.Time, err error, log *zap.Logger) {
	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
		log.Error("Recommendation failed", zap.Error(err))
	}
	metrics.RecommendRequests.WithLabelValues(kind, outcome).Inc()
	metrics.RecommendDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

// AvatarURL returns the generated avatar for a user without a picture
func AvatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random"
}

func profilePicture(u database.User) string {
	if u.ProfilePic != "" {
		return u.ProfilePic
	}
	return AvatarURL(u.Name)
}
