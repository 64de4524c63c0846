package handlers

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
)

// MaxAttachmentSize caps individual files at the ingestion boundary.
const MaxAttachmentSize = 10 * 1024 * 1024 // 10MB

// AttachmentResult reports the fate of one file in a drop batch.
type AttachmentResult struct {
	Name  string `json:"name"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

// AddAttachments ingests a multipart drop batch. Files over the size
// cap are rejected individually with an inline error; the rest of the
// batch keeps going and rejected files never reach the store.
func (h *AppHandler) AddAttachments(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["id"]
	if _, ok := h.store.Task(taskID); !ok {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}

	reader, err := r.MultipartReader()
	if err != nil {
		http.Error(w, "Expected multipart upload", http.StatusBadRequest)
		return
	}

	var results []AttachmentResult
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			http.Error(w, "Malformed upload", http.StatusBadRequest)
			return
		}
		if part.FileName() == "" {
			continue
		}

		name := part.FileName()
		// Read one byte past the cap so oversized files are detected
		// without buffering the whole payload first.
		data, err := io.ReadAll(io.LimitReader(part, MaxAttachmentSize+1))
		part.Close()
		if err != nil {
			results = append(results, AttachmentResult{Name: name, Error: "failed to read file"})
			continue
		}
		if int64(len(data)) > MaxAttachmentSize {
			results = append(results, AttachmentResult{
				Name:  name,
				Error: fmt.Sprintf("file exceeds the %dMB limit", MaxAttachmentSize/(1024*1024)),
			})
			continue
		}

		mimeType := part.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		att := h.store.NewAttachment(name, mimeType, int64(len(data)),
			base64.StdEncoding.EncodeToString(data))
		h.store.AddAttachment(taskID, att)
		results = append(results, AttachmentResult{Name: name, ID: att.ID})
	}

	respond(w, map[string]any{"status": "success", "results": results})
}

// DeleteAttachment removes an attachment from a task.
func (h *AppHandler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.store.DeleteAttachment(vars["id"], vars["attachmentId"])
	respondOK(w)
}
