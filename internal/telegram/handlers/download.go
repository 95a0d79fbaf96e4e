package handlers

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MaxDocumentSize is the largest file the Bot API lets bots download.
const MaxDocumentSize int64 = 20 << 20

// ErrDocumentTooLarge is returned when a file exceeds MaxDocumentSize,
// either by its declared size or by the bytes actually received.
var ErrDocumentTooLarge = errors.New("document too large")

// TelegramDownloader fetches uploaded files from the Bot API file endpoint.
type TelegramDownloader struct {
	bot     *tgbotapi.BotAPI
	client  *http.Client
	maxSize int64
}

func NewTelegramDownloader(bot *tgbotapi.BotAPI) *TelegramDownloader {
	return &TelegramDownloader{
		bot: bot,
		client: &http.Client{
			Timeout: time.Minute,
			Transport: &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
			},
		},
		maxSize: MaxDocumentSize,
	}
}

func (d *TelegramDownloader) Download(ctx context.Context, fileID string) ([]byte, error) {
	link, err := d.link(fileID)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}
	return readAtMost(resp.Body, d.maxSize)
}

// link resolves fileID to an https download URL, rejecting files whose
// declared size is already over the limit.
func (d *TelegramDownloader) link(fileID string) (string, error) {
	file, err := d.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("get file info: %w", err)
	}
	if size := int64(file.FileSize); size > d.maxSize {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrDocumentTooLarge, size, d.maxSize)
	}

	link := file.Link(d.bot.Token)
	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("parse file link: %w", err)
	}
	if u.Scheme != "https" {
		return "", fmt.Errorf("refusing %s file link", u.Scheme)
	}
	return link, nil
}

func readAtMost(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read file data: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrDocumentTooLarge, limit)
	}
	return data, nil
}
