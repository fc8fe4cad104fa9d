package recommend

import (
	"context"

	"github.com/vijay-prabhu/alumnet/internal/database"
	"github.com/vijay-prabhu/alumnet/internal/semantic"
)

// JobSemanticFactor scales the semantic similarity added to a job match
const JobSemanticFactor = 0.5

// JobScore is the result of scoring one job posting
type JobScore struct {
	Match         float64
	Contributions []Contribution
}

// JobScorer rates job postings for a student
type JobScorer struct {
	sim semantic.Provider
}

// NewJobScorer creates a scorer. A nil provider disables the semantic term.
func NewJobScorer(sim semantic.Provider) *JobScorer {
	if sim == nil {
		sim = semantic.Disabled{}
	}
	return &JobScorer{sim: sim}
}

// Score counts the distinct required skills the user has, plus half the
// semantic similarity of the user's bio and skills to the job text.
func (s *JobScorer) Score(ctx context.Context, user *database.User, userSkills Skills, job database.Job) JobScore {
	var res JobScore

	for _, skill := range ParseSkills(job.RequiredSkills).Overlap(userSkills) {
		res.Match++
		res.Contributions = append(res.Contributions, Contribution{
			Rule:   RuleSkill,
			Points: 1,
			Detail: skill,
		})
	}

	userText := user.Bio + " " + user.Skills
	jobText := job.Title + " " + job.Description
	if sim := s.sim.Similarity(ctx, userText, jobText); sim > 0 {
		points := float64(sim) * JobSemanticFactor
		res.Match += points
		res.Contributions = append(res.Contributions, Contribution{
			Rule:   RuleSemantic,
			Points: points,
			Detail: "bio/skills vs title/description",
		})
	}

	return res
}
