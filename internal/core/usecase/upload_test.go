package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jpvandijk/koopflow/internal/core/domain"
)

func validPayload(chars int) string {
	return strings.Repeat("QUJD", chars/4)
}

func TestUploadCreatesRecordInUploadedStatus(t *testing.T) {
	h := newWorkflowHarness(WorkflowConfig{UploadMinBytes: 16})

	doc, err := h.uc.Upload(context.Background(), "user-a", "contract.pdf", validPayload(1200))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if doc.Status != domain.StatusUploaded {
		t.Fatalf("expected status uploaded, got %s", doc.Status)
	}
	if string(doc.JSONData) != "{}" {
		t.Fatalf("expected empty jsonData, got %s", doc.JSONData)
	}
	if doc.Author.OrganizationID != "org-a" {
		t.Fatalf("expected author org org-a, got %s", doc.Author.OrganizationID)
	}
	if len(h.events.events) != 1 || h.events.events[0].Event != domain.EventDocumentUploaded {
		t.Fatalf("expected one uploaded event, got %+v", h.events.events)
	}
}

func TestUploadRejectsNonPDFName(t *testing.T) {
	h := newWorkflowHarness(WorkflowConfig{UploadMinBytes: 16})

	for _, naam := range []string{"contract.docx", "contract", "contract.pdf.exe", ""} {
		_, err := h.uc.Upload(context.Background(), "user-a", naam, validPayload(1200))
		if !domain.IsKind(err, domain.ErrValidation) {
			t.Fatalf("naam %q: expected ErrValidation, got %v", naam, err)
		}
	}
	if len(h.repo.docs) != 0 {
		t.Fatalf("expected no records created, got %d", len(h.repo.docs))
	}
}

func TestUploadAcceptsUppercaseExtension(t *testing.T) {
	h := newWorkflowHarness(WorkflowConfig{UploadMinBytes: 16})

	if _, err := h.uc.Upload(context.Background(), "user-a", "CONTRACT.PDF", validPayload(1200)); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
}

func TestUploadRejectsMalformedBase64(t *testing.T) {
	h := newWorkflowHarness(WorkflowConfig{UploadMinBytes: 16})

	_, err := h.uc.Upload(context.Background(), "user-a", "contract.pdf", "not base64 at all!!")
	if !domain.IsKind(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUploadRejectsEmptyPayload(t *testing.T) {
	h := newWorkflowHarness(WorkflowConfig{UploadMinBytes: 16})

	_, err := h.uc.Upload(context.Background(), "user-a", "contract.pdf", "")
	if !domain.IsKind(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUploadSizeCeilingBoundary(t *testing.T) {
	h := newWorkflowHarness(WorkflowConfig{UploadMinBytes: 16, UploadMaxBytes: 1000})

	// 1328 encoded chars estimate to 998 bytes, within the ceiling.
	if _, err := h.uc.Upload(context.Background(), "user-a", "ok.pdf", validPayload(1328)); err != nil {
		t.Fatalf("at-boundary upload error = %v", err)
	}
	// 1340 encoded chars estimate to 1007 bytes, past the ceiling.
	_, err := h.uc.Upload(context.Background(), "user-a", "big.pdf", validPayload(1340))
	if !domain.IsKind(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation past ceiling, got %v", err)
	}
}

func TestUploadRejectsTrivialPayloadBelowFloor(t *testing.T) {
	h := newWorkflowHarness(WorkflowConfig{})

	_, err := h.uc.Upload(context.Background(), "user-a", "tiny.pdf", "QUJD")
	if !domain.IsKind(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation below floor, got %v", err)
	}
}

func TestUploadDefaultCeilingIs40MB(t *testing.T) {
	h := newWorkflowHarness(WorkflowConfig{})

	if h.uc.cfg.UploadMaxBytes != 40<<20 {
		t.Fatalf("expected default ceiling 40MB, got %d", h.uc.cfg.UploadMaxBytes)
	}
}

func TestUploadCapacityExceeded(t *testing.T) {
	h := newWorkflowHarness(WorkflowConfig{UploadMinBytes: 16, CapacityLimitBytes: 100})
	h.repo.dbSize = 200

	_, err := h.uc.Upload(context.Background(), "user-a", "contract.pdf", validPayload(1200))
	if !domain.IsKind(err, domain.ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
}

func TestUploadProceedsWhenCapacityProbeFails(t *testing.T) {
	h := newWorkflowHarness(WorkflowConfig{UploadMinBytes: 16, CapacityLimitBytes: 100})
	h.repo.dbSizeErr = errors.New("probe broke")

	if _, err := h.uc.Upload(context.Background(), "user-a", "contract.pdf", validPayload(1200)); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
}

func TestUploadRecordsObserverOutcomes(t *testing.T) {
	h := newWorkflowHarness(WorkflowConfig{UploadMinBytes: 16})

	if _, err := h.uc.Upload(context.Background(), "user-a", "contract.pdf", validPayload(1200)); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if _, err := h.uc.Upload(context.Background(), "user-a", "contract.docx", validPayload(1200)); err == nil {
		t.Fatalf("expected validation error")
	}

	if len(h.observer.uploads) != 2 || h.observer.uploads[0] != "accepted" || h.observer.uploads[1] != "rejected" {
		t.Fatalf("unexpected upload outcomes: %v", h.observer.uploads)
	}
	if len(h.observer.events) != 1 || h.observer.events[0] != domain.EventDocumentUploaded {
		t.Fatalf("unexpected observed events: %v", h.observer.events)
	}
}

func TestUploadDeniedWithoutWorkflowAccess(t *testing.T) {
	h := newWorkflowHarness(WorkflowConfig{UploadMinBytes: 16})
	// Flag on but billing incomplete: not entitled.
	org := h.orgs.orgs["org-a"]
	org.Billing.Email = ""

	_, err := h.uc.Upload(context.Background(), "user-a", "contract.pdf", validPayload(1200))
	if !domain.IsKind(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}

	// Completing the profile restores access.
	org.Billing = completeBilling()
	if _, err := h.uc.Upload(context.Background(), "user-a", "contract.pdf", validPayload(1200)); err != nil {
		t.Fatalf("Upload() after completing billing error = %v", err)
	}
}

func TestUploadDeniedWhenFlagDisabled(t *testing.T) {
	h := newWorkflowHarness(WorkflowConfig{UploadMinBytes: 16})
	h.orgs.orgs["org-a"].DocumentWorkflowEnabled = false

	_, err := h.uc.Upload(context.Background(), "user-a", "contract.pdf", validPayload(1200))
	if !domain.IsKind(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}
