package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jpvandijk/koopflow/internal/core/domain"
)

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request, userID string) {
	docs, err := rt.workflow.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if docs == nil {
		docs = []domain.Koopovereenkomst{}
	}
	writeJSON(w, http.StatusOK, docs)
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request, userID string) {
	var req struct {
		Naam      string `json:"naam"`
		PDFBase64 string `json:"pdfBase64"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, domain.WrapError(domain.ErrValidation, "upload koopovereenkomst", errors.New("invalid json body")))
		return
	}

	doc, err := rt.workflow.Upload(r.Context(), userID, req.Naam, req.PDFBase64)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (rt *Router) getDocument(w http.ResponseWriter, r *http.Request, userID string) {
	doc, err := rt.workflow.GetByID(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// extractDocument triggers synchronous extraction. Service failures are not
// surfaced here; the updated record carries the extraction_failed status.
func (rt *Router) extractDocument(w http.ResponseWriter, r *http.Request, userID string) {
	var req struct {
		KoopovereenkomstID string `json:"koopovereenkomstId"`
	}
	if err := decodeJSON(r, &req); err != nil || req.KoopovereenkomstID == "" {
		writeError(w, domain.WrapError(domain.ErrValidation, "extract koopovereenkomst", errors.New("koopovereenkomstId is required")))
		return
	}

	doc, err := rt.workflow.Extract(r.Context(), userID, req.KoopovereenkomstID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) updateDocument(w http.ResponseWriter, r *http.Request, userID string) {
	var req struct {
		JSONData json.RawMessage `json:"jsonData"`
		Status   *string         `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, domain.WrapError(domain.ErrValidation, "update koopovereenkomst", errors.New("invalid json body")))
		return
	}

	var status *domain.DocumentStatus
	if req.Status != nil {
		s := domain.DocumentStatus(*req.Status)
		status = &s
	}

	doc, err := rt.workflow.UpdateFields(r.Context(), userID, r.PathValue("id"), req.JSONData, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) deleteDocument(w http.ResponseWriter, r *http.Request, userID string) {
	if err := rt.workflow.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
