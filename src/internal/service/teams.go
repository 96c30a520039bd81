package service

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/teamdesk/helpdesk-service/src/internal/model"
	"github.com/teamdesk/helpdesk-service/src/internal/rules"
	"github.com/teamdesk/helpdesk-service/src/internal/store"
)

var teamFields = []string{"teamName", "members"}

type TeamService struct {
	store store.DocumentStore
	mu    *sync.RWMutex
	log   *zap.Logger
}

func (s *TeamService) Create(ctx context.Context, p rules.Payload) (model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		return model.Team{}, storageFailure(err)
	}

	var v rules.Violations
	if unexpected := p.UnexpectedFields(teamFields); len(unexpected) > 0 {
		v.Addf("Unexpected fields: %s", joined(unexpected))
	}
	if missing := p.MissingFields(teamFields); len(missing) > 0 {
		v.Addf("Missing fields: %s", joined(missing))
	}
	checkTeamFormats(p, &v)

	t := model.Team{}
	applyTeamPayload(&t, p)

	var unique rules.Violations
	checkTeamUniqueness(doc.Teams, t, 0, p, &unique)

	if err := ruleError(v, unique); err != nil {
		return model.Team{}, err
	}

	t.TeamID = nextTeamID(doc.Teams)
	doc.Teams = append(doc.Teams, t)
	if err := s.store.Save(ctx, doc); err != nil {
		return model.Team{}, storageFailure(err)
	}
	s.log.Info("team created", zap.Int("teamId", t.TeamID), zap.String("teamName", t.TeamName))
	return t, nil
}

func (s *TeamService) List(ctx context.Context) ([]model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, storageFailure(err)
	}
	if len(doc.Teams) == 0 {
		return nil, noData()
	}
	return doc.Teams, nil
}

func (s *TeamService) UpdateFull(ctx context.Context, id int, p rules.Payload) (model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		return model.Team{}, storageFailure(err)
	}
	idx := findTeam(doc.Teams, id)
	if idx < 0 {
		return model.Team{}, notFound("Team not found.")
	}

	var v rules.Violations
	if unexpected := p.UnexpectedFields(teamFields); len(unexpected) > 0 {
		v.Addf("Unexpected fields: %s", joined(unexpected))
	}
	if !p.Present("teamName") {
		v.Add("Team name cannot be empty.")
	}
	if !p.Present("members") {
		v.Add("Members cannot be empty.")
	}
	checkTeamFormats(p, &v)

	t := model.Team{}
	applyTeamPayload(&t, p)

	var unique rules.Violations
	checkTeamUniqueness(doc.Teams, t, id, p, &unique)

	if err := ruleError(v, unique); err != nil {
		return model.Team{}, err
	}

	t.TeamID = id
	doc.Teams[idx] = t
	if err := s.store.Save(ctx, doc); err != nil {
		return model.Team{}, storageFailure(err)
	}
	s.log.Info("team updated", zap.Int("teamId", id))
	return t, nil
}

func (s *TeamService) UpdatePartial(ctx context.Context, id int, p rules.Payload) (model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		return model.Team{}, storageFailure(err)
	}
	idx := findTeam(doc.Teams, id)
	if idx < 0 {
		return model.Team{}, notFound("Team not found.")
	}

	var v rules.Violations
	if unexpected := p.UnexpectedFields(teamFields); len(unexpected) > 0 {
		v.Addf("Unexpected fields: %s", joined(unexpected))
	}
	if _, supplied := p["teamName"]; supplied && !p.Present("teamName") {
		v.Add("Team name cannot be empty.")
	}
	if _, supplied := p["members"]; supplied && !p.Present("members") {
		v.Add("Members cannot be empty.")
	}
	checkTeamFormats(p, &v)

	merged := doc.Teams[idx]
	applyTeamPayload(&merged, p)

	var unique rules.Violations
	checkTeamUniqueness(doc.Teams, merged, id, p, &unique)

	if err := ruleError(v, unique); err != nil {
		return model.Team{}, err
	}

	doc.Teams[idx] = merged
	if err := s.store.Save(ctx, doc); err != nil {
		return model.Team{}, storageFailure(err)
	}
	s.log.Info("team patched", zap.Int("teamId", id))
	return merged, nil
}

func (s *TeamService) Delete(ctx context.Context, id int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		return 0, storageFailure(err)
	}
	idx := findTeam(doc.Teams, id)
	if idx < 0 {
		return 0, notFound("Team not found.")
	}
	doc.Teams = append(doc.Teams[:idx], doc.Teams[idx+1:]...)
	if err := s.store.Save(ctx, doc); err != nil {
		return 0, storageFailure(err)
	}
	s.log.Info("team deleted", zap.Int("teamId", id))
	return id, nil
}

func checkTeamFormats(p rules.Payload, v *rules.Violations) {
	if p.Has("teamName") {
		if _, ok := p.String("teamName"); !ok {
			v.Add("teamName must be a string.")
		}
	}
	if p.Has("members") {
		if _, ok := p.StringSlice("members"); !ok {
			v.Add("members must be an array of strings.")
		}
	}
}

// checkTeamUniqueness enforces the two team rules: a team name may not repeat,
// and no member name may appear in any other team, compared case-insensitively.
// The team being updated is excluded, so it can keep its own members.
func checkTeamUniqueness(teams []model.Team, candidate model.Team, excludeID int, p rules.Payload, v *rules.Violations) {
	if p.Has("teamName") && candidate.TeamName != "" {
		for _, t := range teams {
			if t.TeamID != excludeID && t.TeamName == candidate.TeamName {
				v.Add("Team name already exists.")
				break
			}
		}
	}
	if p.Has("members") && len(candidate.Members) > 0 {
		taken := map[string]bool{}
		for _, t := range teams {
			if t.TeamID == excludeID {
				continue
			}
			for _, m := range t.Members {
				taken[strings.ToLower(m)] = true
			}
		}
		seen := map[string]bool{}
		var duplicates []string
		for _, m := range candidate.Members {
			lower := strings.ToLower(m)
			if taken[lower] && !seen[lower] {
				duplicates = append(duplicates, lower)
				seen[lower] = true
			}
		}
		if len(duplicates) > 0 {
			v.Addf("Members already exist in another team: %s", joined(duplicates))
		}
	}
}

func applyTeamPayload(t *model.Team, p rules.Payload) {
	if s, ok := p.String("teamName"); ok {
		t.TeamName = s
	}
	if members, ok := p.StringSlice("members"); ok {
		t.Members = members
	}
}

func findTeam(teams []model.Team, id int) int {
	for i, t := range teams {
		if t.TeamID == id {
			return i
		}
	}
	return -1
}

func nextTeamID(teams []model.Team) int {
	max := 0
	for _, t := range teams {
		if t.TeamID > max {
			max = t.TeamID
		}
	}
	return max + 1
}
