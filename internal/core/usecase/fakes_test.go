package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jpvandijk/koopflow/internal/core/domain"
)

var errFakeNotFound = domain.WrapError(domain.ErrNotFound, "fake", errors.New("no such row"))

type docRepoFake struct {
	docs      map[string]*domain.Koopovereenkomst
	updates   []domain.DocumentUpdate
	dbSize    int64
	dbSizeErr error
	createErr error
	updateErr error
	deleteErr error
}

func newDocRepoFake() *docRepoFake {
	return &docRepoFake{docs: map[string]*domain.Koopovereenkomst{}}
}

func (f *docRepoFake) Create(_ context.Context, doc *domain.Koopovereenkomst) error {
	if f.createErr != nil {
		return f.createErr
	}
	copied := *doc
	f.docs[doc.ID] = &copied
	return nil
}

func (f *docRepoFake) GetByID(_ context.Context, id string) (*domain.Koopovereenkomst, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, errFakeNotFound
	}
	copied := *doc
	return &copied, nil
}

func (f *docRepoFake) ListByOrganization(_ context.Context, organizationID string) ([]domain.Koopovereenkomst, error) {
	var out []domain.Koopovereenkomst
	for _, doc := range f.docs {
		if doc.Author.OrganizationID != organizationID {
			continue
		}
		copied := *doc
		copied.PDFBase64 = ""
		out = append(out, copied)
	}
	return out, nil
}

func (f *docRepoFake) Update(_ context.Context, id string, update domain.DocumentUpdate) (*domain.Koopovereenkomst, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	doc, ok := f.docs[id]
	if !ok {
		return nil, errFakeNotFound
	}
	f.updates = append(f.updates, update)
	if update.Status != nil {
		doc.Status = *update.Status
	}
	if update.JSONData != nil {
		doc.JSONData = append(json.RawMessage(nil), update.JSONData...)
	}
	if update.ErrorMessage != nil {
		doc.ErrorMessage = *update.ErrorMessage
	}
	doc.UpdatedAt = time.Now().UTC()
	copied := *doc
	return &copied, nil
}

func (f *docRepoFake) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.docs[id]; !ok {
		return errFakeNotFound
	}
	delete(f.docs, id)
	return nil
}

func (f *docRepoFake) DatabaseSize(context.Context) (int64, error) {
	if f.dbSizeErr != nil {
		return 0, f.dbSizeErr
	}
	return f.dbSize, nil
}

type userRepoFake struct {
	users     map[string]*domain.User
	deleteErr error
}

func newUserRepoFake(users ...*domain.User) *userRepoFake {
	f := &userRepoFake{users: map[string]*domain.User{}}
	for _, u := range users {
		copied := *u
		f.users[u.ID] = &copied
	}
	return f
}

func (f *userRepoFake) Create(_ context.Context, user *domain.User) error {
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *userRepoFake) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, errFakeNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *userRepoFake) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, errFakeNotFound
}

func (f *userRepoFake) ListByOrganization(_ context.Context, organizationID string) ([]domain.User, error) {
	var out []domain.User
	for _, user := range f.users {
		if user.BelongsTo(organizationID) {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (f *userRepoFake) SetMembership(_ context.Context, id, organizationID, pendingOrganizationID string) error {
	user, ok := f.users[id]
	if !ok {
		return errFakeNotFound
	}
	user.OrganizationID = organizationID
	user.PendingOrganizationID = pendingOrganizationID
	return nil
}

func (f *userRepoFake) SetAdmin(_ context.Context, id string, isAdmin bool) error {
	user, ok := f.users[id]
	if !ok {
		return errFakeNotFound
	}
	user.IsAdmin = isAdmin
	return nil
}

func (f *userRepoFake) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.users[id]; !ok {
		return errFakeNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *userRepoFake) CountAdmins(_ context.Context, organizationID string) (int, error) {
	count := 0
	for _, user := range f.users {
		if user.IsAdmin && user.OrganizationID == organizationID {
			count++
		}
	}
	return count, nil
}

type orgRepoFake struct {
	orgs map[string]*domain.Organization
}

func newOrgRepoFake(orgs ...*domain.Organization) *orgRepoFake {
	f := &orgRepoFake{orgs: map[string]*domain.Organization{}}
	for _, org := range orgs {
		copied := *org
		f.orgs[org.ID] = &copied
	}
	return f
}

func (f *orgRepoFake) Create(_ context.Context, org *domain.Organization) error {
	copied := *org
	f.orgs[org.ID] = &copied
	return nil
}

func (f *orgRepoFake) GetByID(_ context.Context, id string) (*domain.Organization, error) {
	org, ok := f.orgs[id]
	if !ok {
		return nil, errFakeNotFound
	}
	copied := *org
	return &copied, nil
}

func (f *orgRepoFake) GetByDomain(_ context.Context, tenantDomain string) (*domain.Organization, error) {
	for _, org := range f.orgs {
		if org.Domain == tenantDomain {
			copied := *org
			return &copied, nil
		}
	}
	return nil, errFakeNotFound
}

func (f *orgRepoFake) UpdateSettings(_ context.Context, id string, settings domain.OrganizationSettings) (*domain.Organization, error) {
	org, ok := f.orgs[id]
	if !ok {
		return nil, errFakeNotFound
	}
	org.Billing = settings.Billing
	org.DocumentWorkflowEnabled = settings.DocumentWorkflowEnabled
	copied := *org
	return &copied, nil
}

type gatewayFake struct {
	responses []json.RawMessage
	errs      []error
	calls     int
	tenants   []string
}

func (f *gatewayFake) Extract(_ context.Context, _, _, tenant string) (json.RawMessage, error) {
	idx := f.calls
	f.calls++
	f.tenants = append(f.tenants, tenant)
	if idx < len(f.errs) && f.errs[idx] != nil {
		return nil, f.errs[idx]
	}
	if idx < len(f.responses) {
		return f.responses[idx], nil
	}
	return json.RawMessage(`{}`), nil
}

type eventBusFake struct {
	events     []domain.LifecycleEvent
	publishErr error
}

func (f *eventBusFake) PublishLifecycleEvent(_ context.Context, event domain.LifecycleEvent) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.events = append(f.events, event)
	return nil
}

func (f *eventBusFake) SubscribeLifecycleEvents(context.Context, func(context.Context, domain.LifecycleEvent) error) error {
	return nil
}

type observerFake struct {
	uploads     []string
	extractions []string
	events      []string
}

func (f *observerFake) ObserveUpload(outcome string, _ int64) {
	f.uploads = append(f.uploads, outcome)
}

func (f *observerFake) ObserveExtraction(outcome string, _ time.Duration) {
	f.extractions = append(f.extractions, outcome)
}

func (f *observerFake) ObserveLifecycleEvent(event string) {
	f.events = append(f.events, event)
}

type tokenIssuerFake struct{}

func (tokenIssuerFake) Issue(userID, _ string) (string, int64, error) {
	return "token-" + userID, time.Now().Add(time.Hour).Unix(), nil
}

func completeBilling() domain.BillingProfile {
	return domain.BillingProfile{
		Name:       "Springveer BV",
		Address:    "Dorpsstraat 1",
		PostalCode: "1234 AB",
		City:       "Utrecht",
		Country:    "NL",
		VATNumber:  "NL001234567B01",
		Email:      "billing@springveer.nl",
	}
}

// workflowHarness wires a ready-to-use engine: org-a entitled with an approved
// member, org-b entitled with its own member.
type workflowHarness struct {
	repo     *docRepoFake
	users    *userRepoFake
	orgs     *orgRepoFake
	gateway  *gatewayFake
	events   *eventBusFake
	observer *observerFake
	uc       *DocumentWorkflowUseCase
}

func newWorkflowHarness(cfg WorkflowConfig) *workflowHarness {
	orgA := &domain.Organization{ID: "org-a", Name: "Org A", Domain: "org-a.nl", Billing: completeBilling(), DocumentWorkflowEnabled: true}
	orgB := &domain.Organization{ID: "org-b", Name: "Org B", Domain: "org-b.nl", Billing: completeBilling(), DocumentWorkflowEnabled: true}
	userA := &domain.User{ID: "user-a", Email: "a@org-a.nl", Name: "Anna", OrganizationID: "org-a"}
	userA2 := &domain.User{ID: "user-a2", Email: "a2@org-a.nl", Name: "Arjen", OrganizationID: "org-a"}
	userB := &domain.User{ID: "user-b", Email: "b@org-b.nl", Name: "Bram", OrganizationID: "org-b"}

	h := &workflowHarness{
		repo:     newDocRepoFake(),
		users:    newUserRepoFake(userA, userA2, userB),
		orgs:     newOrgRepoFake(orgA, orgB),
		gateway:  &gatewayFake{},
		events:   &eventBusFake{},
		observer: &observerFake{},
	}
	tenancy := NewTenancyDirectory(h.users, h.orgs)
	h.uc = NewDocumentWorkflowUseCase(tenancy, h.repo, h.gateway, h.events, nil, h.observer, cfg)
	return h
}
