package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jpvandijk/koopflow/internal/core/domain"
)

// base64Sample matches the leading slice of a base64 payload. Validating a
// bounded sample keeps upload cost flat for multi-megabyte documents.
var base64Sample = regexp.MustCompile(`^[A-Za-z0-9+/=\r\n]+$`)

const base64SampleLen = 4096

// Upload validates the payload and persists a new record in status uploaded.
// Validation failures never create a record; the capacity pre-check is
// best-effort and a failing probe does not block the upload.
func (uc *DocumentWorkflowUseCase) Upload(ctx context.Context, actingUserID, naam, pdfBase64 string) (*domain.Koopovereenkomst, error) {
	principal, err := uc.tenancy.ResolveWorkflowMember(ctx, actingUserID)
	if err != nil {
		return nil, err
	}

	estimated, err := uc.validateUpload(naam, pdfBase64)
	if err != nil {
		uc.observeUpload("rejected", 0)
		return nil, err
	}
	if err := uc.checkCapacity(ctx); err != nil {
		uc.observeUpload("capacity_exceeded", 0)
		return nil, err
	}

	now := time.Now().UTC()
	doc := &domain.Koopovereenkomst{
		ID:        uuid.NewString(),
		Naam:      naam,
		PDFBase64: pdfBase64,
		Status:    domain.StatusUploaded,
		JSONData:  []byte("{}"),
		UserID:    principal.User.ID,
		Author: domain.AuthorSummary{
			ID:             principal.User.ID,
			Name:           principal.User.Name,
			Email:          principal.User.Email,
			OrganizationID: principal.Organization.ID,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create koopovereenkomst: %w", err)
	}

	uc.observeUpload("accepted", estimated)
	uc.publish(ctx, domain.EventDocumentUploaded, principal, doc)
	return doc, nil
}

func (uc *DocumentWorkflowUseCase) observeUpload(outcome string, estimatedBytes int64) {
	if uc.observer != nil {
		uc.observer.ObserveUpload(outcome, estimatedBytes)
	}
}

func (uc *DocumentWorkflowUseCase) validateUpload(naam, pdfBase64 string) (int64, error) {
	if strings.TrimSpace(naam) == "" {
		return 0, domain.WrapError(domain.ErrValidation, "validate upload", errors.New("naam is required"))
	}
	if !strings.HasSuffix(strings.ToLower(naam), ".pdf") {
		return 0, domain.WrapError(domain.ErrValidation, "validate upload", errors.New("only pdf files are allowed"))
	}
	if pdfBase64 == "" {
		return 0, domain.WrapError(domain.ErrValidation, "validate upload", errors.New("pdf payload is required"))
	}

	sample := pdfBase64
	if len(sample) > base64SampleLen {
		sample = sample[:base64SampleLen]
	}
	if !base64Sample.MatchString(sample) {
		return 0, domain.WrapError(domain.ErrValidation, "validate upload", errors.New("payload is not base64"))
	}

	estimated := int64(float64(len(pdfBase64)) / 1.33)
	if estimated < uc.cfg.UploadMinBytes {
		return 0, domain.WrapError(domain.ErrValidation, "validate upload",
			fmt.Errorf("estimated size %d below minimum %d", estimated, uc.cfg.UploadMinBytes))
	}
	if estimated > uc.cfg.UploadMaxBytes {
		return 0, domain.WrapError(domain.ErrValidation, "validate upload",
			fmt.Errorf("estimated size %d exceeds maximum %d", estimated, uc.cfg.UploadMaxBytes))
	}

	if uc.cfg.DeepPDFValidation && uc.inspector != nil {
		raw, err := base64.StdEncoding.DecodeString(stripBase64Whitespace(pdfBase64))
		if err != nil {
			return 0, domain.WrapError(domain.ErrValidation, "validate upload", fmt.Errorf("decode base64: %w", err))
		}
		if _, err := uc.inspector.Inspect(raw); err != nil {
			return 0, domain.WrapError(domain.ErrValidation, "validate upload", fmt.Errorf("inspect pdf: %w", err))
		}
	}
	return estimated, nil
}

func (uc *DocumentWorkflowUseCase) checkCapacity(ctx context.Context) error {
	if uc.cfg.CapacityLimitBytes <= 0 {
		return nil
	}
	size, err := uc.repo.DatabaseSize(ctx)
	if err != nil {
		slog.Warn("capacity_probe_failed", "error", err)
		return nil
	}
	if size >= uc.cfg.CapacityLimitBytes {
		return domain.WrapError(domain.ErrCapacityExceeded, "check capacity",
			fmt.Errorf("database size %d exceeds limit %d", size, uc.cfg.CapacityLimitBytes))
	}
	return nil
}

func stripBase64Whitespace(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r == '\r' || r == '\n' {
			return -1
		}
		return r
	}, s)
}
