package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/teamdesk/helpdesk-service/src/internal/model"
	"github.com/teamdesk/helpdesk-service/src/internal/rules"
	"github.com/teamdesk/helpdesk-service/src/internal/store"
)

var ticketFields = []string{"title", "description", "team", "status", "assignee", "reporter"}

type TicketService struct {
	store store.DocumentStore
	mu    *sync.RWMutex
	log   *zap.Logger
}

func (s *TicketService) Create(ctx context.Context, p rules.Payload) (model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		return model.Ticket{}, storageFailure(err)
	}

	var v rules.Violations
	if unexpected := p.UnexpectedFields(ticketFields); len(unexpected) > 0 {
		v.Addf("Unexpected fields: %s", joined(unexpected))
	}
	if missing := p.MissingFields(ticketFields); len(missing) > 0 {
		v.Addf("Missing fields: %s", joined(missing))
	}
	checkTicketFormats(p, &v)

	t := model.Ticket{}
	applyTicketPayload(&t, p)

	var unique rules.Violations
	checkTicketUniqueness(doc.Tickets, t, 0, p, &unique)

	if err := ruleError(v, unique); err != nil {
		return model.Ticket{}, err
	}

	t.TicketID = nextTicketID(doc.Tickets)
	doc.Tickets = append(doc.Tickets, t)
	if err := s.store.Save(ctx, doc); err != nil {
		return model.Ticket{}, storageFailure(err)
	}
	s.log.Info("ticket created", zap.Int("ticketId", t.TicketID), zap.String("title", t.Title))
	return t, nil
}

func (s *TicketService) List(ctx context.Context) ([]model.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, storageFailure(err)
	}
	if len(doc.Tickets) == 0 {
		return nil, noData()
	}
	return doc.Tickets, nil
}

func (s *TicketService) UpdateFull(ctx context.Context, id int, p rules.Payload) (model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		return model.Ticket{}, storageFailure(err)
	}
	idx := findTicket(doc.Tickets, id)
	if idx < 0 {
		return model.Ticket{}, notFound("Ticket not found.")
	}

	var v rules.Violations
	if unexpected := p.UnexpectedFields(ticketFields); len(unexpected) > 0 {
		v.Addf("Unexpected fields: %s", joined(unexpected))
	}
	for _, f := range p.MissingFields(ticketFields) {
		v.Addf("%s cannot be empty.", f)
	}
	checkTicketFormats(p, &v)

	t := model.Ticket{}
	applyTicketPayload(&t, p)

	var unique rules.Violations
	checkTicketUniqueness(doc.Tickets, t, id, p, &unique)

	if err := ruleError(v, unique); err != nil {
		return model.Ticket{}, err
	}

	t.TicketID = id
	doc.Tickets[idx] = t
	if err := s.store.Save(ctx, doc); err != nil {
		return model.Ticket{}, storageFailure(err)
	}
	s.log.Info("ticket updated", zap.Int("ticketId", id))
	return t, nil
}

func (s *TicketService) UpdatePartial(ctx context.Context, id int, p rules.Payload) (model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		return model.Ticket{}, storageFailure(err)
	}
	idx := findTicket(doc.Tickets, id)
	if idx < 0 {
		return model.Ticket{}, notFound("Ticket not found.")
	}

	var v rules.Violations
	if unexpected := p.UnexpectedFields(ticketFields); len(unexpected) > 0 {
		v.Addf("Unexpected fields: %s", joined(unexpected))
	}
	for _, f := range ticketFields {
		if _, supplied := p[f]; supplied && !p.Present(f) {
			v.Addf("%s cannot be empty.", f)
		}
	}
	checkTicketFormats(p, &v)

	merged := doc.Tickets[idx]
	applyTicketPayload(&merged, p)

	var unique rules.Violations
	checkTicketUniqueness(doc.Tickets, merged, id, p, &unique)

	if err := ruleError(v, unique); err != nil {
		return model.Ticket{}, err
	}

	doc.Tickets[idx] = merged
	if err := s.store.Save(ctx, doc); err != nil {
		return model.Ticket{}, storageFailure(err)
	}
	s.log.Info("ticket patched", zap.Int("ticketId", id))
	return merged, nil
}

func (s *TicketService) Delete(ctx context.Context, id int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		return 0, storageFailure(err)
	}
	idx := findTicket(doc.Tickets, id)
	if idx < 0 {
		return 0, notFound("Ticket not found.")
	}
	doc.Tickets = append(doc.Tickets[:idx], doc.Tickets[idx+1:]...)
	if err := s.store.Save(ctx, doc); err != nil {
		return 0, storageFailure(err)
	}
	s.log.Info("ticket deleted", zap.Int("ticketId", id))
	return id, nil
}

func checkTicketFormats(p rules.Payload, v *rules.Violations) {
	for _, f := range ticketFields {
		if p.Has(f) {
			if _, ok := p.String(f); !ok {
				v.Addf("%s must be a string.", f)
			}
		}
	}
}

func checkTicketUniqueness(tickets []model.Ticket, candidate model.Ticket, excludeID int, p rules.Payload, v *rules.Violations) {
	if !p.Has("title") || candidate.Title == "" {
		return
	}
	for _, t := range tickets {
		if t.TicketID != excludeID && t.Title == candidate.Title {
			v.Add("Title already exists.")
			break
		}
	}
}

func applyTicketPayload(t *model.Ticket, p rules.Payload) {
	if s, ok := p.String("title"); ok {
		t.Title = s
	}
	if s, ok := p.String("description"); ok {
		t.Description = s
	}
	if s, ok := p.String("team"); ok {
		t.Team = s
	}
	if s, ok := p.String("status"); ok {
		t.Status = s
	}
	if s, ok := p.String("assignee"); ok {
		t.Assignee = s
	}
	if s, ok := p.String("reporter"); ok {
		t.Reporter = s
	}
}

func findTicket(tickets []model.Ticket, id int) int {
	for i, t := range tickets {
		if t.TicketID == id {
			return i
		}
	}
	return -1
}

func nextTicketID(tickets []model.Ticket) int {
	max := 0
	for _, t := range tickets {
		if t.TicketID > max {
			max = t.TicketID
		}
	}
	return max + 1
}
