package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
	"github.com/MrJamesThe3rd/kakeibo/internal/export"
	"github.com/MrJamesThe3rd/kakeibo/internal/importer"
)

const maxUploadSize = 10 << 20

type Handler struct {
	exportSvc  *export.Service
	importSvc  *importer.Service
	expenseSvc *expense.Service
}

func NewHandler(exportSvc *export.Service, importSvc *importer.Service, expenseSvc *expense.Service) *Handler {
	return &Handler{
		exportSvc:  exportSvc,
		importSvc:  importSvc,
		expenseSvc: expenseSvc,
	}
}

func (h *Handler) ExportRoutes(r chi.Router) {
	r.Get("/", h.export)
}

func (h *Handler) ImportRoutes(r chi.Router) {
	r.Post("/", h.importFile)
}

// export downloads the collection. The format query takes csv (default) or json.
func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("format")
	if raw == "" {
		raw = string(export.FormatCSV)
	}

	format, err := export.ParseFormat(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, err := h.exportSvc.Render(r.Context(), format)
	if err != nil {
		if errors.Is(err, export.ErrNothingToExport) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))

	if _, err := w.Write(file.Data); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}

type importResponse struct {
	Imported int `json:"imported"`
}

// importFile appends the records of an uploaded csv or json file. The format is
// taken from the format field, or from the file extension when absent.
func (h *Handler) importFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		if format, err = importer.FormatFromFilename(header.Filename); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	items, err := h.importSvc.Import(format, file)
	if err != nil {
		switch {
		case errors.Is(err, importer.ErrNoRows):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}

		return
	}

	n, err := h.expenseSvc.Import(r.Context(), items)
	if err != nil {
		http.Error(w, "failed to save expenses", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(importResponse{Imported: n}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
