// internal/app/features/pendingbusinesses/logo.go
package pendingbusinesses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/dalemusser/cercadeti/internal/app/system/apierror"
	"github.com/dalemusser/cercadeti/internal/app/system/jsonio"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxLogoBytes bounds an uploaded logo.
const MaxLogoBytes = 5 << 20

// logoFields are the multipart field names accepted for the logo file.
var logoFields = []string{"files.logo", "logo"}

// logoTypes maps the sniffed image types we accept to stored extensions.
var logoTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var errNoStorage = errors.New("logo storage is not configured")

// logoUpload is a validated logo file from a multipart submission.
type logoUpload struct {
	file        multipart.File
	filename    string
	size        int64
	contentType string
}

func (l *logoUpload) Close() error { return l.file.Close() }

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

// decodeSubmission reads a registration form. JSON bodies use the usual
// {"data": {...}} envelope; multipart bodies carry the same JSON in a "data"
// field plus an optional logo file. The returned upload is nil when no logo
// was sent and must be closed by the caller otherwise.
func decodeSubmission(w http.ResponseWriter, r *http.Request, dst *submitInput) (*logoUpload, *apierror.Error) {
	if !isMultipart(r) {
		if err := jsonio.DecodeData(w, r, dst); err != nil {
			return nil, apierror.BadBody(err)
		}
		return nil, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxLogoBytes+jsonio.MaxBodyBytes)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, apierror.TooLarge(fmt.Sprintf("upload exceeds %d bytes", mbe.Limit))
		}
		return nil, apierror.Validation("invalid multipart form: " + err.Error())
	}

	raw := r.FormValue("data")
	if raw == "" {
		return nil, apierror.BadBody(jsonio.ErrMissingData)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return nil, apierror.BadBody(fmt.Errorf("%w: %v", jsonio.ErrInvalidBody, err))
	}

	for _, field := range logoFields {
		file, header, err := r.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			return nil, apierror.Validation("", logoDetail("logo could not be read"))
		}
		upload, aerr := checkLogo(file, header)
		if aerr != nil {
			file.Close()
			return nil, aerr
		}
		return upload, nil
	}
	return nil, nil
}

// checkLogo enforces the size limit and sniffs the content so only raster
// images are stored, whatever the client declared.
func checkLogo(file multipart.File, header *multipart.FileHeader) (*logoUpload, *apierror.Error) {
	if header.Size > MaxLogoBytes {
		return nil, apierror.TooLarge(fmt.Sprintf("logo must be at most %d MB", MaxLogoBytes>>20))
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, apierror.Validation("", logoDetail("logo could not be read"))
	}
	if n == 0 {
		return nil, apierror.Validation("", logoDetail("logo is empty"))
	}
	contentType := http.DetectContentType(head[:n])
	if _, ok := logoTypes[contentType]; !ok {
		return nil, apierror.Validation("", logoDetail("logo must be a PNG, JPEG, GIF or WebP image"))
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, apierror.Validation("", logoDetail("logo could not be read"))
	}

	return &logoUpload{file: file, filename: header.Filename, size: header.Size, contentType: contentType}, nil
}

func logoDetail(msg string) apierror.Detail {
	return apierror.Detail{Path: []string{"logo"}, Message: msg, Name: apierror.NameValidation}
}

// storeLogo writes the logo under logos/YYYY/MM/<uuid><ext> and returns the
// storage path.
func storeLogo(ctx context.Context, store storage.Store, l *logoUpload) (string, error) {
	if store == nil {
		return "", errNoStorage
	}
	now := time.Now().UTC()
	path := fmt.Sprintf("logos/%04d/%02d/%s%s", now.Year(), now.Month(), uuid.NewString(), logoTypes[l.contentType])

	opts := &storage.PutOptions{
		ContentType: l.contentType,
	}
	if err := store.Put(ctx, path, l.file, opts); err != nil {
		return "", fmt.Errorf("failed to upload logo: %w", err)
	}
	return path, nil
}

// discardLogo removes a logo whose submission could not be saved.
func (h *Handler) discardLogo(path string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := h.Storage.Delete(ctx, path); err != nil {
		h.Log.Warn("failed to delete orphaned logo", zap.String("path", path), zap.Error(err))
	}
}
