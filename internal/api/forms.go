package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"mime"
	"net/http"
	"strings"

	"job-board/internal/resume"
	"job-board/internal/storage"
)

const maxMultipartMemory = 16 << 20

// stringList accepts a JSON array or a comma-separated string.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*l = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = parseList([]string{s})
	return nil
}

// parseList flattens form values that are either JSON arrays or
// comma-separated lists.
func parseList(values []string) []string {
	out := []string{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if strings.HasPrefix(v, "[") {
			var arr []string
			if err := json.Unmarshal([]byte(v), &arr); err == nil {
				for _, item := range arr {
					out = append(out, storage.SplitList(item)...)
				}
				continue
			}
		}
		out = append(out, storage.SplitList(v)...)
	}
	return out
}

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

// formValues reads a registration-style body. Multipart bodies are parsed in
// place so files can be read afterwards; JSON bodies are flattened to strings.
func formValues(w http.ResponseWriter, r *http.Request) (map[string][]string, error) {
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return nil, apiError(http.StatusBadRequest, "Invalid multipart form")
		}
		return r.MultipartForm.Value, nil
	}

	var raw map[string]json.RawMessage
	if err := decodeJSON(w, r, &raw); err != nil {
		return nil, err
	}
	values := make(map[string][]string, len(raw))
	for k, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			values[k] = []string{s}
			continue
		}
		var arr []string
		if err := json.Unmarshal(v, &arr); err == nil {
			values[k] = arr
			continue
		}
		values[k] = []string{string(v)}
	}
	return values, nil
}

func first(values map[string][]string, key string) string {
	if v := values[key]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

// uploadMedia validates the optional file in p.Field and moves it to the
// media store. It returns "" when the field is absent.
func (a *API) uploadMedia(ctx context.Context, r *http.Request, p resume.Policy, failMsg string) (string, error) {
	if !isMultipart(r) {
		return "", nil
	}
	saved, err := a.uploader.Save(r, p)
	if err != nil {
		return "", uploadError(err, p)
	}
	if saved == nil {
		return "", nil
	}
	url, err := a.media.Upload(ctx, saved.Path, saved.Folder)
	if err != nil {
		log.Printf("[Upload] %s upload failed: %v", p.Field, err)
		return "", apiError(http.StatusInternalServerError, failMsg)
	}
	return url, nil
}

func uploadError(err error, p resume.Policy) error {
	switch {
	case errors.Is(err, resume.ErrInvalidFileType):
		return apiError(http.StatusBadRequest, p.Message)
	case errors.Is(err, resume.ErrFileTooLarge):
		return apiError(http.StatusBadRequest, "File too large")
	}
	return err
}
