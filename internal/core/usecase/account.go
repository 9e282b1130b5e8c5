package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jpvandijk/koopflow/internal/core/domain"
	"github.com/jpvandijk/koopflow/internal/core/ports"
)

const bcryptCost = 10

// AccountUseCase handles registration and credential login. The first user to
// register a new organization domain becomes its approved admin; later
// registrants for the same domain stay pending until an admin approves them.
type AccountUseCase struct {
	users  ports.UserRepository
	orgs   ports.OrganizationRepository
	tokens ports.TokenIssuer
}

func NewAccountUseCase(users ports.UserRepository, orgs ports.OrganizationRepository, tokens ports.TokenIssuer) *AccountUseCase {
	return &AccountUseCase{users: users, orgs: orgs, tokens: tokens}
}

// Register creates the account and returns it with a human-readable outcome
// message.
func (uc *AccountUseCase) Register(ctx context.Context, input domain.Registration) (*domain.User, string, error) {
	if err := validateRegistration(input); err != nil {
		return nil, "", err
	}

	existing, err := uc.users.GetByEmail(ctx, input.Email)
	if err != nil && !domain.IsKind(err, domain.ErrNotFound) {
		return nil, "", fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, "", domain.WrapError(domain.ErrConflict, "register", errors.New("email already registered"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	org, err := uc.orgs.GetByDomain(ctx, input.OrganizationDomain)
	if err != nil && !domain.IsKind(err, domain.ErrNotFound) {
		return nil, "", fmt.Errorf("lookup organization: %w", err)
	}

	if org != nil {
		user.PendingOrganizationID = org.ID
		if err := uc.users.Create(ctx, user); err != nil {
			return nil, "", fmt.Errorf("create pending user: %w", err)
		}
		return user, "Registration successful. Your account is pending approval.", nil
	}

	newOrg := &domain.Organization{
		ID:        uuid.NewString(),
		Name:      input.OrganizationName,
		Domain:    input.OrganizationDomain,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.orgs.Create(ctx, newOrg); err != nil {
		return nil, "", fmt.Errorf("create organization: %w", err)
	}

	user.IsAdmin = true
	user.OrganizationID = newOrg.ID
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create admin user: %w", err)
	}
	return user, "Registration successful. You are now an admin of your organization.", nil
}

// Login checks the credential against the stored hash. Pending accounts are
// refused even with a correct password.
func (uc *AccountUseCase) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsKind(err, domain.ErrNotFound) {
			return nil, domain.WrapError(domain.ErrUnauthenticated, "login", errors.New("invalid credentials"))
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.WrapError(domain.ErrUnauthenticated, "login", errors.New("invalid credentials"))
	}
	if !user.Approved() {
		return nil, domain.WrapError(domain.ErrForbidden, "login", errors.New("account pending approval"))
	}

	token, expiresAt, err := uc.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &domain.Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func validateRegistration(input domain.Registration) error {
	missing := func(field, name string) error {
		if strings.TrimSpace(field) == "" {
			return domain.WrapError(domain.ErrValidation, "register", fmt.Errorf("%s is required", name))
		}
		return nil
	}
	for _, check := range []error{
		missing(input.Name, "name"),
		missing(input.Email, "email"),
		missing(input.Password, "password"),
		missing(input.OrganizationName, "organizationName"),
		missing(input.OrganizationDomain, "organizationDomain"),
	} {
		if check != nil {
			return check
		}
	}
	if !strings.Contains(input.Email, "@") {
		return domain.WrapError(domain.ErrValidation, "register", errors.New("email is malformed"))
	}
	return nil
}
