package resume

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileTooLarge    = errors.New("file too large")
)

// Policy describes one accepted multipart file field.
type Policy struct {
	Field    string
	Folder   string
	MaxBytes int64
	Allowed  []string
	// Message is shown to clients when the file type is rejected.
	Message string
}

var (
	ResumePolicy = Policy{
		Field:    "resume",
		Folder:   "resumes",
		MaxBytes: 10 << 20,
		Allowed:  []string{"application/pdf"},
		Message:  "Only PDF files are allowed",
	}
	ProfilePicPolicy = Policy{
		Field:    "profilePic",
		Folder:   "profile-pictures",
		MaxBytes: 5 << 20,
		Allowed:  []string{"image/jpeg", "image/png"},
		Message:  "Only JPG, JPEG, and PNG files are allowed",
	}
)

// SavedFile is an upload written to the temp directory.
type SavedFile struct {
	Path     string
	Filename string // client-supplied name
	Size     int64
	MIME     string
	Folder   string
}

// Remove deletes the temp file; missing files are ignored.
func (f *SavedFile) Remove() {
	if f == nil {
		return
	}
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[Upload] failed to remove temp file %s: %v", f.Path, err)
	}
}

// Uploader stores validated multipart files under a temp directory.
type Uploader struct {
	dir string
	now func() time.Time
}

func NewUploader(dir string) *Uploader {
	return &Uploader{dir: dir, now: time.Now}
}

// Save validates and writes the file in p.Field. The request must already
// have been parsed with ParseMultipartForm. A missing field returns nil, nil.
func (u *Uploader) Save(r *http.Request, p Policy) (*SavedFile, error) {
	file, header, err := r.FormFile(p.Field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p.Field, err)
	}
	defer file.Close()

	if header.Size > p.MaxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrFileTooLarge, p.Field, p.MaxBytes)
	}

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return nil, fmt.Errorf("detect %s type: %w", p.Field, err)
	}
	if !allowed(mtype, p.Allowed) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFileType, mtype.String())
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind %s: %w", p.Field, err)
	}

	folder := filepath.Join(u.dir, p.Folder)
	if err := os.MkdirAll(folder, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir: %w", err)
	}

	name := fmt.Sprintf("%s-%d-%s%s", p.Field, u.now().UnixMilli(), uuid.NewString()[:8], mtype.Extension())
	path := filepath.Join(folder, name)
	out, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	size, err := io.Copy(out, io.LimitReader(file, p.MaxBytes+1))
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}
	if size > p.MaxBytes {
		os.Remove(path)
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrFileTooLarge, p.Field, p.MaxBytes)
	}

	return &SavedFile{
		Path:     path,
		Filename: header.Filename,
		Size:     size,
		MIME:     mtype.String(),
		Folder:   p.Folder,
	}, nil
}

func allowed(m *mimetype.MIME, types []string) bool {
	for _, t := range types {
		if m.Is(t) {
			return true
		}
	}
	return false
}
