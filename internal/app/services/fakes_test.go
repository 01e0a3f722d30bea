package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Asus75000/sae-prof/internal/app/models"
	"github.com/Asus75000/sae-prof/internal/pkg/apperrors"
	"github.com/Asus75000/sae-prof/internal/pkg/email"
	"github.com/rs/zerolog"
)

// fakeStore keeps every table in memory so that the fake repositories can
// join and cascade like the database does.
type fakeStore struct {
	mu             sync.Mutex
	nextID         int64
	members        map[int64]*models.Member
	categories     map[int64]*models.SportCategory
	sportEvents    map[int64]*models.SportEvent
	slots          map[int64]*models.TimeSlot
	assocEvents    map[int64]*models.AssociationEvent
	volunteers     map[[2]int64]*models.VolunteerRegistration
	participations map[[2]int64]*models.Participation
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		members:        map[int64]*models.Member{},
		categories:     map[int64]*models.SportCategory{},
		sportEvents:    map[int64]*models.SportEvent{},
		slots:          map[int64]*models.TimeSlot{},
		assocEvents:    map[int64]*models.AssociationEvent{},
		volunteers:     map[[2]int64]*models.VolunteerRegistration{},
		participations: map[[2]int64]*models.Participation{},
	}
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

var fakeNow = time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC)

// members

type fakeMemberRepo struct{ s *fakeStore }

func (r fakeMemberRepo) Create(_ context.Context, m *models.Member) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.members {
		if strings.EqualFold(other.Email, m.Email) {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	m.ID = r.s.id()
	m.CreatedAt, m.UpdatedAt = fakeNow, fakeNow
	cp := *m
	r.s.members[m.ID] = &cp
	return m.ID, nil
}

func (r fakeMemberRepo) GetByID(_ context.Context, id int64) (*models.Member, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.members[id]
	if !ok {
		return nil, apperrors.ErrMemberNotFound
	}
	cp := *m
	return &cp, nil
}

func (r fakeMemberRepo) GetByEmail(_ context.Context, addr string) (*models.Member, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.members {
		if strings.EqualFold(m.Email, strings.TrimSpace(addr)) {
			cp := *m
			return &cp, nil
		}
	}
	return nil, apperrors.ErrMemberNotFound
}

func (r fakeMemberRepo) EmailExists(ctx context.Context, addr string) (bool, error) {
	_, err := r.GetByEmail(ctx, addr)
	return err == nil, nil
}

func (r fakeMemberRepo) matching(filter models.MemberFilter) []*models.Member {
	var out []*models.Member
	for _, m := range r.s.members {
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		if filter.Adherent != nil && m.IsAdherent != *filter.Adherent {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r fakeMemberRepo) List(_ context.Context, filter models.MemberFilter) ([]*models.Member, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := r.matching(filter)
	total := int64(len(all))
	if filter.Offset >= uint64(len(all)) {
		return nil, total, nil
	}
	all = all[filter.Offset:]
	if filter.Limit > 0 && uint64(len(all)) > filter.Limit {
		all = all[:filter.Limit]
	}
	return all, total, nil
}

func (r fakeMemberRepo) Count(_ context.Context, filter models.MemberFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.matching(filter))), nil
}

func (r fakeMemberRepo) update(id int64, fn func(m *models.Member)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.members[id]
	if !ok {
		return apperrors.ErrMemberNotFound
	}
	fn(m)
	return nil
}

func (r fakeMemberRepo) UpdateProfile(_ context.Context, member *models.Member) error {
	return r.update(member.ID, func(m *models.Member) {
		m.FirstName, m.LastName = member.FirstName, member.LastName
		m.Phone = member.Phone
		m.TShirtSize, m.SweaterSize = member.TShirtSize, member.SweaterSize
	})
}

func (r fakeMemberRepo) SetDecision(_ context.Context, id int64, status models.MemberStatus, decidedOn time.Time, reason *string) error {
	return r.update(id, func(m *models.Member) {
		m.Status = status
		m.StatusDate = &decidedOn
		m.RejectionReason = reason
		if status != models.MemberStatusApproved {
			m.IsManager = false
		}
	})
}

func (r fakeMemberRepo) SetManager(_ context.Context, id int64, manager bool) error {
	return r.update(id, func(m *models.Member) { m.IsManager = manager })
}

func (r fakeMemberRepo) PromoteAdherent(_ context.Context, id int64) (bool, error) {
	changed := false
	err := r.update(id, func(m *models.Member) {
		changed = !m.IsAdherent
		m.IsAdherent = true
	})
	return changed, err
}

// categories

type fakeCategoryRepo struct{ s *fakeStore }

func (r fakeCategoryRepo) Create(_ context.Context, c *models.SportCategory) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.categories {
		if other.Label == c.Label {
			return 0, apperrors.ErrCategoryAlreadyExists
		}
	}
	c.ID = r.s.id()
	cp := *c
	r.s.categories[c.ID] = &cp
	return c.ID, nil
}

func (r fakeCategoryRepo) GetByID(_ context.Context, id int64) (*models.SportCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, apperrors.ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (r fakeCategoryRepo) List(_ context.Context) ([]*models.SportCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.SportCategory
	for _, c := range r.s.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func (r fakeCategoryRepo) Update(_ context.Context, c *models.SportCategory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.categories[c.ID]
	if !ok {
		return apperrors.ErrCategoryNotFound
	}
	for _, other := range r.s.categories {
		if other.ID != c.ID && other.Label == c.Label {
			return apperrors.ErrCategoryAlreadyExists
		}
	}
	existing.Label = c.Label
	return nil
}

func (r fakeCategoryRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return apperrors.ErrCategoryNotFound
	}
	for _, e := range r.s.sportEvents {
		if e.CategoryID == id {
			return apperrors.ErrCategoryInUse
		}
	}
	delete(r.s.categories, id)
	return nil
}

func (r fakeCategoryRepo) CountEvents(_ context.Context, id int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, e := range r.s.sportEvents {
		if e.CategoryID == id {
			n++
		}
	}
	return n, nil
}

// sport events

type fakeSportEventRepo struct{ s *fakeStore }

func (r fakeSportEventRepo) withLabel(e *models.SportEvent) *models.SportEvent {
	cp := *e
	if c, ok := r.s.categories[e.CategoryID]; ok {
		cp.CategoryLabel = c.Label
	}
	return &cp
}

func (r fakeSportEventRepo) Create(_ context.Context, e *models.SportEvent) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[e.CategoryID]; !ok {
		return 0, apperrors.ErrCategoryNotFound
	}
	e.ID = r.s.id()
	cp := *e
	r.s.sportEvents[e.ID] = &cp
	return e.ID, nil
}

func (r fakeSportEventRepo) GetByID(_ context.Context, id int64) (*models.SportEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.sportEvents[id]
	if !ok {
		return nil, apperrors.ErrSportEventNotFound
	}
	return r.withLabel(e), nil
}

func (r fakeSportEventRepo) ListVisible(_ context.Context, day time.Time) ([]*models.SportEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.SportEvent
	for _, e := range r.s.sportEvents {
		if !e.VisibleDate.After(day) {
			out = append(out, r.withLabel(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClosingAt.After(out[j].ClosingAt) })
	return out, nil
}

func (r fakeSportEventRepo) Update(_ context.Context, e *models.SportEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sportEvents[e.ID]; !ok {
		return apperrors.ErrSportEventNotFound
	}
	cp := *e
	r.s.sportEvents[e.ID] = &cp
	return nil
}

func (r fakeSportEventRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sportEvents[id]; !ok {
		return apperrors.ErrSportEventNotFound
	}
	for slotID, slot := range r.s.slots {
		if slot.SportEventID == id {
			r.s.deleteSlotLocked(slotID)
		}
	}
	delete(r.s.sportEvents, id)
	return nil
}

func (r fakeSportEventRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.sportEvents)), nil
}

// time slots

type fakeTimeSlotRepo struct{ s *fakeStore }

func (s *fakeStore) deleteSlotLocked(slotID int64) {
	for key := range s.volunteers {
		if key[1] == slotID {
			delete(s.volunteers, key)
		}
	}
	delete(s.slots, slotID)
}

func (r fakeTimeSlotRepo) Create(_ context.Context, slot *models.TimeSlot) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	slot.ID = r.s.id()
	cp := *slot
	r.s.slots[slot.ID] = &cp
	return slot.ID, nil
}

func (r fakeTimeSlotRepo) GetByID(_ context.Context, id int64) (*models.TimeSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	slot, ok := r.s.slots[id]
	if !ok {
		return nil, apperrors.ErrTimeSlotNotFound
	}
	cp := *slot
	return &cp, nil
}

func (r fakeTimeSlotRepo) ListByEvent(_ context.Context, eventID int64) ([]*models.TimeSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.TimeSlot
	for _, slot := range r.s.slots {
		if slot.SportEventID == eventID {
			cp := *slot
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt().Before(out[j].StartsAt()) })
	return out, nil
}

func (r fakeTimeSlotRepo) Update(_ context.Context, slot *models.TimeSlot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.slots[slot.ID]
	if !ok {
		return apperrors.ErrTimeSlotNotFound
	}
	cp := *slot
	cp.SportEventID = existing.SportEventID
	r.s.slots[slot.ID] = &cp
	return nil
}

func (r fakeTimeSlotRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.slots[id]; !ok {
		return apperrors.ErrTimeSlotNotFound
	}
	r.s.deleteSlotLocked(id)
	return nil
}

func (r fakeTimeSlotRepo) EarliestStart(ctx context.Context, eventID int64) (*time.Time, error) {
	slots, _ := r.ListByEvent(ctx, eventID)
	if len(slots) == 0 {
		return nil, nil
	}
	start := slots[0].StartsAt()
	return &start, nil
}

// association events

type fakeAssocEventRepo struct{ s *fakeStore }

func (r fakeAssocEventRepo) Create(_ context.Context, e *models.AssociationEvent) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = r.s.id()
	cp := *e
	r.s.assocEvents[e.ID] = &cp
	return e.ID, nil
}

func (r fakeAssocEventRepo) GetByID(_ context.Context, id int64) (*models.AssociationEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.assocEvents[id]
	if !ok {
		return nil, apperrors.ErrAssociationEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (r fakeAssocEventRepo) ListVisible(_ context.Context, day time.Time, includePrivate bool) ([]*models.AssociationEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.AssociationEvent
	for _, e := range r.s.assocEvents {
		if e.VisibleDate.After(day) || (e.IsPrivate && !includePrivate) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventAt.After(out[j].EventAt) })
	return out, nil
}

func (r fakeAssocEventRepo) Update(_ context.Context, e *models.AssociationEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.assocEvents[e.ID]; !ok {
		return apperrors.ErrAssociationEventNotFound
	}
	cp := *e
	r.s.assocEvents[e.ID] = &cp
	for key, p := range r.s.participations {
		if key[1] == e.ID {
			p.ParticipationDate = e.EventAt
		}
	}
	return nil
}

func (r fakeAssocEventRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.assocEvents[id]; !ok {
		return apperrors.ErrAssociationEventNotFound
	}
	for key := range r.s.participations {
		if key[1] == id {
			delete(r.s.participations, key)
		}
	}
	delete(r.s.assocEvents, id)
	return nil
}

func (r fakeAssocEventRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.assocEvents)), nil
}

// registrations

type fakeRegistrationRepo struct{ s *fakeStore }

func (r fakeRegistrationRepo) AddVolunteer(_ context.Context, memberID int64, slotIDs []int64) ([]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var added []int64
	for _, slotID := range slotIDs {
		key := [2]int64{memberID, slotID}
		if _, ok := r.s.volunteers[key]; ok {
			continue
		}
		r.s.volunteers[key] = &models.VolunteerRegistration{MemberID: memberID, SlotID: slotID, CreatedAt: fakeNow}
		added = append(added, slotID)
	}
	return added, nil
}

func (r fakeRegistrationRepo) RemoveVolunteer(_ context.Context, memberID, slotID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.volunteers, [2]int64{memberID, slotID})
	return nil
}

func (r fakeRegistrationRepo) RemoveVolunteerFromEvent(_ context.Context, memberID, eventID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for key := range r.s.volunteers {
		if slot, ok := r.s.slots[key[1]]; ok && key[0] == memberID && slot.SportEventID == eventID {
			delete(r.s.volunteers, key)
		}
	}
	return nil
}

func (r fakeRegistrationRepo) VolunteerSlotIDs(_ context.Context, memberID, eventID int64) ([]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []int64
	for key := range r.s.volunteers {
		if slot, ok := r.s.slots[key[1]]; ok && key[0] == memberID && slot.SportEventID == eventID {
			ids = append(ids, key[1])
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r fakeRegistrationRepo) ListMemberSlots(_ context.Context, memberID int64) ([]*models.MemberSlotRegistration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.MemberSlotRegistration
	for key, v := range r.s.volunteers {
		if key[0] != memberID {
			continue
		}
		slot := r.s.slots[key[1]]
		event := r.s.sportEvents[slot.SportEventID]
		out = append(out, &models.MemberSlotRegistration{
			Slot:          *slot,
			EventID:       event.ID,
			EventTitle:    event.Title,
			EventLocation: event.LocationText,
			CategoryLabel: r.s.categories[event.CategoryID].Label,
			IsPresent:     v.IsPresent,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot.StartsAt().After(out[j].Slot.StartsAt()) })
	return out, nil
}

func (r fakeRegistrationRepo) ListSlotVolunteers(_ context.Context, slotID int64) ([]*models.SlotVolunteer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.SlotVolunteer
	for key, v := range r.s.volunteers {
		if key[1] != slotID {
			continue
		}
		m := r.s.members[key[0]]
		out = append(out, &models.SlotVolunteer{
			MemberID: m.ID, FirstName: m.FirstName, LastName: m.LastName, Email: m.Email,
			Phone: m.Phone, TShirtSize: m.TShirtSize, IsPresent: v.IsPresent, RegisteredAt: v.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastName < out[j].LastName })
	return out, nil
}

func (r fakeRegistrationRepo) SetPresence(_ context.Context, slotID, memberID int64, present bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.volunteers[[2]int64{memberID, slotID}]
	if !ok {
		return apperrors.ErrRegistrationNotFound
	}
	v.IsPresent = present
	return nil
}

func (r fakeRegistrationRepo) AddParticipation(_ context.Context, p *models.Participation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := [2]int64{p.MemberID, p.AssociationEventID}
	if _, ok := r.s.participations[key]; ok {
		return apperrors.ErrAlreadyRegistered
	}
	p.CreatedAt = fakeNow
	cp := *p
	r.s.participations[key] = &cp
	return nil
}

func (r fakeRegistrationRepo) IsParticipating(_ context.Context, memberID, eventID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.participations[[2]int64{memberID, eventID}]
	return ok, nil
}

func (r fakeRegistrationRepo) RemoveParticipation(_ context.Context, memberID, eventID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.participations, [2]int64{memberID, eventID})
	return nil
}

func (r fakeRegistrationRepo) ListMemberParticipations(_ context.Context, memberID int64) ([]*models.MemberParticipation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.MemberParticipation
	for key, p := range r.s.participations {
		if key[0] == memberID {
			out = append(out, &models.MemberParticipation{Participation: *p, Event: *r.s.assocEvents[key[1]]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Event.EventAt.After(out[j].Event.EventAt) })
	return out, nil
}

func (r fakeRegistrationRepo) ListParticipants(_ context.Context, eventID int64) ([]*models.EventParticipant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.EventParticipant
	for key, p := range r.s.participations {
		if key[1] != eventID {
			continue
		}
		m := r.s.members[key[0]]
		out = append(out, &models.EventParticipant{
			MemberID: m.ID, FirstName: m.FirstName, LastName: m.LastName, Email: m.Email, Phone: m.Phone,
			GuestCount: p.GuestCount, PaymentConfirmed: p.PaymentConfirmed, RegisteredAt: p.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastName < out[j].LastName })
	return out, nil
}

func (r fakeRegistrationRepo) participationCount() int {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.participations)
}

// notifications

type sentEmail struct {
	kind   string
	to     email.Recipient
	reason string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (n *fakeNotifier) SendApprovalEmail(_ context.Context, to email.Recipient) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentEmail{kind: "approval", to: to})
	return n.err
}

func (n *fakeNotifier) SendRejectionEmail(_ context.Context, to email.Recipient, reason string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentEmail{kind: "rejection", to: to, reason: reason})
	return n.err
}

// fixture wires every service on one store with a movable clock
type fixture struct {
	store    *fakeStore
	now      time.Time
	notifier *fakeNotifier

	members       fakeMemberRepo
	registrations fakeRegistrationRepo

	memberService   MemberService
	categoryService CategoryService
	sportEvents     SportEventService
	timeSlots       TimeSlotService
	assocEvents     AssociationEventService
	registrationSvc RegistrationService
	statsService    StatsService
}

func newFixture() *fixture {
	f := &fixture{store: newFakeStore(), now: fakeNow, notifier: &fakeNotifier{}}
	clock := Clock{Now: func() time.Time { return f.now }, Location: time.UTC}
	log := zerolog.Nop()

	f.members = fakeMemberRepo{f.store}
	f.registrations = fakeRegistrationRepo{f.store}
	categories := fakeCategoryRepo{f.store}
	sportEvents := fakeSportEventRepo{f.store}
	slots := fakeTimeSlotRepo{f.store}
	assocEvents := fakeAssocEventRepo{f.store}

	f.memberService = NewMemberService(f.members, f.notifier, clock, log)
	f.categoryService = NewCategoryService(categories)
	f.sportEvents = NewSportEventService(sportEvents, categories, slots, f.registrations, clock)
	f.timeSlots = NewTimeSlotService(slots, sportEvents)
	f.assocEvents = NewAssociationEventService(assocEvents, clock)
	f.registrationSvc = NewRegistrationService(f.registrations, sportEvents, slots, assocEvents, clock, log)
	f.statsService = NewStatsService(f.members, sportEvents, assocEvents)
	return f
}

// addMember stores a member directly, bypassing signup
func (f *fixture) addMember(status models.MemberStatus, adherent bool) *models.Member {
	m := &models.Member{
		FirstName:  "Léa",
		LastName:   "Martin",
		Email:      fmt.Sprintf("member%d@example.fr", f.store.nextID+1),
		Status:     status,
		IsAdherent: adherent,
	}
	_, _ = f.members.Create(context.Background(), m)
	return m
}
