package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jpvandijk/koopflow/internal/core/domain"
)

// GetByID returns the full record, pdf payload included, after the org-scope
// check.
func (uc *DocumentWorkflowUseCase) GetByID(ctx context.Context, actingUserID, documentID string) (*domain.Koopovereenkomst, error) {
	principal, err := uc.tenancy.ResolveWorkflowMember(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch koopovereenkomst: %w", err)
	}
	if err := requireSameOrganization("get koopovereenkomst", principal, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// List returns the organization's records newest first. The repository query
// never selects the pdf payload for listings.
func (uc *DocumentWorkflowUseCase) List(ctx context.Context, actingUserID string) ([]domain.Koopovereenkomst, error) {
	principal, err := uc.tenancy.ResolveWorkflowMember(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	docs, err := uc.repo.ListByOrganization(ctx, principal.Organization.ID)
	if err != nil {
		return nil, fmt.Errorf("list koopovereenkomsten: %w", err)
	}
	return docs, nil
}

// UpdateFields applies a true partial update: jsonData and status may each be
// supplied independently. jsonData is schema-less by design; only the status
// literal is validated.
func (uc *DocumentWorkflowUseCase) UpdateFields(ctx context.Context, actingUserID, documentID string, jsonData json.RawMessage, status *domain.DocumentStatus) (*domain.Koopovereenkomst, error) {
	principal, err := uc.tenancy.ResolveWorkflowMember(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	if jsonData == nil && status == nil {
		return nil, domain.WrapError(domain.ErrValidation, "update koopovereenkomst", errors.New("nothing to update"))
	}
	if status != nil && !domain.ValidStatus(*status) {
		return nil, domain.WrapError(domain.ErrValidation, "update koopovereenkomst",
			fmt.Errorf("unknown status %q", *status))
	}
	if jsonData != nil && !json.Valid(jsonData) {
		return nil, domain.WrapError(domain.ErrValidation, "update koopovereenkomst", errors.New("jsonData is not valid JSON"))
	}

	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch koopovereenkomst: %w", err)
	}
	if err := requireSameOrganization("update koopovereenkomst", principal, doc); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Update(ctx, documentID, domain.DocumentUpdate{
		Status:   status,
		JSONData: jsonData,
	})
	if err != nil {
		return nil, fmt.Errorf("update koopovereenkomst: %w", err)
	}

	event := domain.EventDocumentUpdated
	if status != nil && *status == domain.StatusReviewed {
		event = domain.EventDocumentReviewed
	}
	uc.publish(ctx, event, principal, updated)
	return updated, nil
}

// Delete removes the record unconditionally; no lifecycle state restricts it.
func (uc *DocumentWorkflowUseCase) Delete(ctx context.Context, actingUserID, documentID string) error {
	principal, err := uc.tenancy.ResolveWorkflowMember(ctx, actingUserID)
	if err != nil {
		return err
	}
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("fetch koopovereenkomst: %w", err)
	}
	if err := requireSameOrganization("delete koopovereenkomst", principal, doc); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, documentID); err != nil {
		return fmt.Errorf("delete koopovereenkomst: %w", err)
	}
	uc.publish(ctx, domain.EventDocumentDeleted, principal, doc)
	return nil
}
