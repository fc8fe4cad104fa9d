package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/vijay-prabhu/alumnet/internal/database"
	"github.com/vijay-prabhu/alumnet/internal/semantic"
)

// Rule names reported in Contribution.Rule
const (
	RuleBranch   = "same_branch"
	RuleSkill    = "skill_match"
	RuleMutual   = "mutual_connections"
	RuleDomain   = "same_domain"
	RuleCity     = "same_city"
	RuleSemantic = "semantic_match"
)

// Contribution is one rule that added points to a score
type Contribution struct {
	Rule   string  `json:"rule"`
	Points float64 `json:"points"`
	Detail string  `json:"detail,omitempty"`
}

// Weights holds the points awarded per people-scoring rule
type Weights struct {
	Branch int
	Skill  int
	Mutual int
	Domain int
	City   int
}

// DefaultWeights returns the standard rule table
func DefaultWeights() Weights {
	return Weights{
		Branch: 5,
		Skill:  5,
		Mutual: 2,
		Domain: 3,
		City:   2,
	}
}

// PersonScore is the result of scoring one candidate
type PersonScore struct {
	Score         int
	Contributions []Contribution
}

// PeopleScorer applies the rule table to a candidate
type PeopleScorer struct {
	weights Weights
	sim     semantic.Provider
}

// NewPeopleScorer creates a scorer. A nil provider disables the semantic rule.
func NewPeopleScorer(weights Weights, sim semantic.Provider) *PeopleScorer {
	if sim == nil {
		sim = semantic.Disabled{}
	}
	return &PeopleScorer{weights: weights, sim: sim}
}

// Score rates cand for target. candConns is the candidate's connection set
// and targetConns the target's; targetSkills is the parsed target skill list.
func (s *PeopleScorer) Score(ctx context.Context, target *database.User, targetSkills Skills, cand database.User, candConns, targetConns IDSet) PersonScore {
	var res PersonScore
	add := func(rule string, points int, detail string) {
		res.Score += points
		res.Contributions = append(res.Contributions, Contribution{
			Rule:   rule,
			Points: float64(points),
			Detail: detail,
		})
	}

	if sameField(target.Branch, cand.Branch) {
		add(RuleBranch, s.weights.Branch, cand.Branch)
	}

	// Duplicate candidate tokens each count.
	for _, skill := range ParseSkills(cand.Skills).Tokens() {
		if targetSkills.Has(skill) {
			add(RuleSkill, s.weights.Skill, skill)
		}
	}

	if mutual := candConns.IntersectionLen(targetConns); mutual > 0 {
		add(RuleMutual, s.weights.Mutual*mutual, fmt.Sprintf("%d mutual", mutual))
	}

	if sameField(target.CurrentDomain, cand.CurrentDomain) {
		add(RuleDomain, s.weights.Domain, cand.CurrentDomain)
	}

	if sameField(target.City, cand.City) {
		add(RuleCity, s.weights.City, cand.City)
	}

	if sim := s.sim.Similarity(ctx, profileText(target), profileText(&cand)); sim > 0 {
		add(RuleSemantic, sim, "bio/interests")
	}

	return res
}

// profileText is the free text compared by the semantic rule
func profileText(u *database.User) string {
	return u.Bio + " " + u.Interests
}

// sameField reports whether both values are non-empty and equal ignoring case
func sameField(a, b string) bool {
	return a != "" && b != "" && strings.EqualFold(a, b)
}
