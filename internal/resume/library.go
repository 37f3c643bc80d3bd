package resume

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/PabloGalante/careerai/internal/domain"
	"github.com/PabloGalante/careerai/internal/observability"
)

// Upload is a stored résumé and its extracted text.
type Upload struct {
	Key         string `json:"key,omitempty"`
	ContentType string `json:"content_type"`
	Text        string `json:"text"`
}

// Library extracts résumé text and, when an ObjectStore is configured,
// keeps the original file.
type Library struct {
	objects domain.ObjectStore
}

func NewLibrary(objects domain.ObjectStore) *Library {
	return &Library{objects: objects}
}

// Ingest extracts the text of data and stores the file under the user's prefix.
// The file is only stored when extraction succeeds.
func (l *Library) Ingest(ctx context.Context, userID domain.UserID, filename, contentType string, data []byte) (*Upload, error) {
	if contentType == "" || contentType == "application/octet-stream" {
		if guessed := MIMEFromName(filename); guessed != "" {
			contentType = guessed
		}
	}

	text, err := ExtractText(contentType, data)
	if err != nil {
		return nil, err
	}

	up := &Upload{ContentType: contentType, Text: text}
	if l.objects == nil || userID == "" {
		return up, nil
	}

	up.Key = objectKey(userID, filename)
	if err := l.objects.Put(ctx, up.Key, contentType, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("store resume: %w", err)
	}

	observability.LoggerFromContext(ctx).Info("resume stored",
		"user_id", userID,
		"key", up.Key,
		"bytes", len(data),
	)
	return up, nil
}

// Load fetches one of the user's stored résumés and extracts its text again.
// Keys outside the user's prefix are forbidden.
func (l *Library) Load(ctx context.Context, userID domain.UserID, key, contentType string) (*Upload, error) {
	if l.objects == nil {
		return nil, fmt.Errorf("resume storage: %w", domain.ErrNotFound)
	}
	if userID == "" || !ownedBy(userID, key) {
		return nil, fmt.Errorf("resume %s: %w", key, domain.ErrForbidden)
	}
	if contentType == "" {
		contentType = MIMEFromName(key)
	}

	data, err := l.objects.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	text, err := ExtractText(contentType, data)
	if err != nil {
		return nil, err
	}
	return &Upload{Key: key, ContentType: contentType, Text: text}, nil
}

func ownedBy(userID domain.UserID, key string) bool {
	prefix := path.Join("resumes", string(userID)) + "/"
	return path.Clean(key) == key && strings.HasPrefix(key, prefix)
}

func objectKey(userID domain.UserID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join("resumes", string(userID), uuid.NewString()+ext)
}
