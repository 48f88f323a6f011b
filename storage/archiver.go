package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/battle-system/models"
)

// BracketArchiver сохраняет полный снимок турнира перед удалением.
// Discard удаляет архив, если удаление турнира не состоялось.
type BracketArchiver interface {
	Archive(ctx context.Context, event *models.Event) (*UploadResult, error)
	Discard(ctx context.Context, key string) error
}

type jsonBracketArchiver struct {
	uploader FileUploader
	prefix   string
	now      func() time.Time
}

func NewBracketArchiver(uploader FileUploader, prefix string) BracketArchiver {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = "archives"
	}
	return &jsonBracketArchiver{uploader: uploader, prefix: prefix, now: time.Now}
}

func (a *jsonBracketArchiver) Archive(ctx context.Context, event *models.Event) (*UploadResult, error) {
	if event == nil {
		return nil, errors.New("nothing to archive")
	}

	payload, err := json.MarshalIndent(event, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode tournament %d: %w", event.ID, err)
	}

	key := fmt.Sprintf("%s/event-%d-%s.json", a.prefix, event.ID, a.now().UTC().Format("20060102T150405Z"))
	return a.uploader.Upload(ctx, key, "application/json", bytes.NewReader(payload))
}

func (a *jsonBracketArchiver) Discard(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("archive key is empty")
	}
	return a.uploader.Delete(ctx, key)
}
