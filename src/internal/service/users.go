package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/teamdesk/helpdesk-service/src/internal/model"
	"github.com/teamdesk/helpdesk-service/src/internal/rules"
	"github.com/teamdesk/helpdesk-service/src/internal/store"
)

var userFields = []string{"firstName", "lastName", "emailId", "phoneNumber", "employeeId", "designation", "teamId"}

type UserService struct {
	store store.DocumentStore
	mu    *sync.RWMutex
	log   *zap.Logger
}

func (s *UserService) Create(ctx context.Context, p rules.Payload) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		return model.User{}, storageFailure(err)
	}

	var v rules.Violations
	if unexpected := p.UnexpectedFields(userFields); len(unexpected) > 0 {
		v.Addf("Unexpected fields: %s", joined(unexpected))
	}
	if missing := p.MissingFields(userFields); len(missing) > 0 {
		v.Addf("Missing fields: %s", joined(missing))
	}
	checkUserFormats(p, &v)

	u := model.User{}
	applyUserPayload(&u, p)

	var unique rules.Violations
	checkUserUniqueness(doc.Users, u, 0, p, &unique)

	if err := ruleError(v, unique); err != nil {
		return model.User{}, err
	}

	u.UserID = nextUserID(doc.Users)
	doc.Users = append(doc.Users, u)
	if err := s.store.Save(ctx, doc); err != nil {
		return model.User{}, storageFailure(err)
	}
	s.log.Info("user created", zap.Int("userId", u.UserID))
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, storageFailure(err)
	}
	if len(doc.Users) == 0 {
		return nil, noData()
	}
	return doc.Users, nil
}

func (s *UserService) UpdateFull(ctx context.Context, id int, p rules.Payload) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		return model.User{}, storageFailure(err)
	}
	idx := findUser(doc.Users, id)
	if idx < 0 {
		return model.User{}, notFound("User not found.")
	}

	var v rules.Violations
	if unexpected := p.UnexpectedFields(userFields); len(unexpected) > 0 {
		v.Addf("Unexpected fields: %s", joined(unexpected))
	}
	for _, f := range p.MissingFields(userFields) {
		v.Addf("%s cannot be empty.", f)
	}
	checkUserFormats(p, &v)

	u := model.User{}
	applyUserPayload(&u, p)

	var unique rules.Violations
	checkUserUniqueness(doc.Users, u, id, p, &unique)

	if err := ruleError(v, unique); err != nil {
		return model.User{}, err
	}

	u.UserID = id
	doc.Users[idx] = u
	if err := s.store.Save(ctx, doc); err != nil {
		return model.User{}, storageFailure(err)
	}
	s.log.Info("user updated", zap.Int("userId", id))
	return u, nil
}

func (s *UserService) UpdatePartial(ctx context.Context, id int, p rules.Payload) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		return model.User{}, storageFailure(err)
	}
	idx := findUser(doc.Users, id)
	if idx < 0 {
		return model.User{}, notFound("User not found.")
	}

	var v rules.Violations
	if unexpected := p.UnexpectedFields(userFields); len(unexpected) > 0 {
		v.Addf("Unexpected fields: %s", joined(unexpected))
	}
	for _, f := range userFields {
		if _, supplied := p[f]; supplied && !p.Present(f) {
			v.Addf("%s cannot be empty.", f)
		}
	}
	checkUserFormats(p, &v)

	merged := doc.Users[idx]
	applyUserPayload(&merged, p)

	var unique rules.Violations
	checkUserUniqueness(doc.Users, merged, id, p, &unique)

	if err := ruleError(v, unique); err != nil {
		return model.User{}, err
	}

	doc.Users[idx] = merged
	if err := s.store.Save(ctx, doc); err != nil {
		return model.User{}, storageFailure(err)
	}
	s.log.Info("user patched", zap.Int("userId", id))
	return merged, nil
}

func (s *UserService) Delete(ctx context.Context, id int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		return 0, storageFailure(err)
	}
	idx := findUser(doc.Users, id)
	if idx < 0 {
		return 0, notFound("User not found.")
	}
	doc.Users = append(doc.Users[:idx], doc.Users[idx+1:]...)
	if err := s.store.Save(ctx, doc); err != nil {
		return 0, storageFailure(err)
	}
	s.log.Info("user deleted", zap.Int("userId", id))
	return id, nil
}

func checkUserFormats(p rules.Payload, v *rules.Violations) {
	for _, f := range []string{"firstName", "lastName", "employeeId", "designation"} {
		if p.Has(f) {
			if _, ok := p.String(f); !ok {
				v.Addf("%s must be a string.", f)
			}
		}
	}
	if p.Has("emailId") {
		if email, ok := p.String("emailId"); !ok || !rules.EmailValid(email) {
			v.Add("emailId must be a valid email address.")
		}
	}
	if p.Has("phoneNumber") {
		if phone, ok := p.String("phoneNumber"); !ok || !rules.PhoneValid(phone) {
			v.Add("phoneNumber must be exactly 10 digits.")
		}
	}
	if p.Has("teamId") {
		if _, ok := p.Int("teamId"); !ok {
			v.Add("teamId must be a number.")
		}
	}
}

// checkUserUniqueness compares only fields supplied in the payload, so a
// partial update never trips on fields it does not touch, and skips the
// record being updated itself.
func checkUserUniqueness(users []model.User, candidate model.User, excludeID int, p rules.Payload, v *rules.Violations) {
	for _, u := range users {
		if u.UserID == excludeID {
			continue
		}
		if p.Has("emailId") && candidate.EmailID != "" && u.EmailID == candidate.EmailID {
			v.Add("Email already exists.")
			break
		}
	}
	for _, u := range users {
		if u.UserID == excludeID {
			continue
		}
		if p.Has("phoneNumber") && candidate.PhoneNumber != "" && u.PhoneNumber == candidate.PhoneNumber {
			v.Add("Phone number already exists.")
			break
		}
	}
	for _, u := range users {
		if u.UserID == excludeID {
			continue
		}
		if p.Has("employeeId") && candidate.EmployeeID != "" && u.EmployeeID == candidate.EmployeeID {
			v.Add("Employee id already exists.")
			break
		}
	}
}

func applyUserPayload(u *model.User, p rules.Payload) {
	if s, ok := p.String("firstName"); ok {
		u.FirstName = s
	}
	if s, ok := p.String("lastName"); ok {
		u.LastName = s
	}
	if s, ok := p.String("emailId"); ok {
		u.EmailID = s
	}
	if s, ok := p.String("phoneNumber"); ok {
		u.PhoneNumber = s
	}
	if s, ok := p.String("employeeId"); ok {
		u.EmployeeID = s
	}
	if s, ok := p.String("designation"); ok {
		u.Designation = s
	}
	if n, ok := p.Int("teamId"); ok {
		u.TeamID = n
	}
}

func findUser(users []model.User, id int) int {
	for i, u := range users {
		if u.UserID == id {
			return i
		}
	}
	return -1
}

func nextUserID(users []model.User) int {
	max := 0
	for _, u := range users {
		if u.UserID > max {
			max = u.UserID
		}
	}
	return max + 1
}
