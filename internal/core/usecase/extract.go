package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jpvandijk/koopflow/internal/core/domain"
)

// Extract invokes the extraction gateway and reconciles the outcome onto the
// record. Gateway failures are absorbed into status extraction_failed and are
// not surfaced as call errors; only authorization and storage failures are.
// Safe to call repeatedly from uploaded or extraction_failed: every attempt
// starts clean and the last write wins.
func (uc *DocumentWorkflowUseCase) Extract(ctx context.Context, actingUserID, documentID string) (*domain.Koopovereenkomst, error) {
	principal, err := uc.tenancy.ResolveWorkflowMember(ctx, actingUserID)
	if err != nil {
		return nil, err
	}

	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch koopovereenkomst: %w", err)
	}
	if err := requireSameOrganization("extract", principal, doc); err != nil {
		return nil, err
	}

	gatewayCtx, cancel := context.WithTimeout(ctx, uc.cfg.ExtractTimeout)
	defer cancel()
	started := time.Now()
	payload, gatewayErr := uc.gateway.Extract(gatewayCtx, doc.PDFBase64, doc.Naam, principal.Organization.Domain)
	if uc.observer != nil {
		outcome := "success"
		if gatewayErr != nil {
			outcome = "failure"
		}
		uc.observer.ObserveExtraction(outcome, time.Since(started))
	}

	var updated *domain.Koopovereenkomst
	if gatewayErr != nil {
		updated, err = uc.markExtractionFailed(ctx, documentID, gatewayErr)
	} else {
		updated, err = uc.markExtracted(ctx, documentID, payload)
	}
	if err != nil {
		return nil, err
	}

	event := domain.EventDocumentExtracted
	if gatewayErr != nil {
		event = domain.EventDocumentExtractionFailed
	}
	uc.publish(ctx, event, principal, updated)
	return updated, nil
}

func (uc *DocumentWorkflowUseCase) markExtracted(ctx context.Context, documentID string, payload json.RawMessage) (*domain.Koopovereenkomst, error) {
	status := domain.StatusExtracted
	cleared := ""
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	updated, err := uc.repo.Update(ctx, documentID, domain.DocumentUpdate{
		Status:       &status,
		JSONData:     payload,
		ErrorMessage: &cleared,
	})
	if err != nil {
		return nil, fmt.Errorf("persist extraction result: %w", err)
	}
	return updated, nil
}

func (uc *DocumentWorkflowUseCase) markExtractionFailed(ctx context.Context, documentID string, gatewayErr error) (*domain.Koopovereenkomst, error) {
	status := domain.StatusExtractionFailed
	diagnostic := extractionDiagnostic(gatewayErr)
	updated, err := uc.repo.Update(ctx, documentID, domain.DocumentUpdate{
		Status:       &status,
		ErrorMessage: &diagnostic,
	})
	if err != nil {
		return nil, fmt.Errorf("persist extraction failure: %w", err)
	}
	return updated, nil
}

// extractionDiagnostic renders the gateway error as a stringified JSON
// document so the review UI can show it verbatim.
func extractionDiagnostic(err error) string {
	payload, marshalErr := json.Marshal(map[string]string{"error": err.Error()})
	if marshalErr != nil {
		return `{"error":"extraction failed"}`
	}
	return string(payload)
}
