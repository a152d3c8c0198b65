package handler

import (
	"context"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/fintrack/internal/adapter/http/dto"
	"github.com/iho/fintrack/internal/usecase"
)

// MaxStatementSize bounds an uploaded statement.
const MaxStatementSize = 10 << 20

// ImportService defines the behavior needed by ImportHandler.
type ImportService interface {
	ImportStatement(ctx context.Context, userID, accountID string, r io.Reader) (*usecase.ImportResult, error)
}

// ImportHandler accepts OFX statement uploads.
type ImportHandler struct {
	importUC ImportService
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importUC ImportService) *ImportHandler {
	return &ImportHandler{importUC: importUC}
}

// Import reads a raw OFX body or a multipart "file" field into an account.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxStatementSize)

	var body io.Reader = r.Body
	if isMultipart(r) {
		file, _, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid upload", err.Error())
			return
		}
		defer file.Close()
		body = file
	}

	result, err := h.importUC.ImportStatement(r.Context(), userID, chi.URLParam(r, "id"), body)
	if err != nil {
		writeDomainError(w, r, "failed to import statement", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ImportFromUseCase(result))
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}
